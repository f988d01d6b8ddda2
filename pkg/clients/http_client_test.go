package clients

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

func TestHTTPClient_Post(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("X-Echo", "yes")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	code, body, respHeaders, err := NewHTTPClient().Post(context.Background(), srv.URL, headers, []byte(`{"a":1}`))

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, code)
	assert.JSONEq(t, `{"a":1}`, string(body))
	assert.Equal(t, "yes", respHeaders.Get("X-Echo"))
}

func TestHTTPClient_PostCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, _, err := NewHTTPClient().Post(ctx, srv.URL, nil, nil)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPClient_SetClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := NewMockHTTPClientI(ctrl)
	mock.EXPECT().Post(gomock.Any(), "http://gateway/api", gomock.Nil(), []byte("{}")).
		Return(http.StatusTooManyRequests, nil, http.Header{"Retry-After": []string{"2"}}, nil)

	client := NewHTTPClient()
	client.SetClient(mock)

	code, _, headers, err := client.Post(context.Background(), "http://gateway/api", nil, []byte("{}"))

	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "2", headers.Get("Retry-After"))
}
