package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/GlebRadaev/minerledger/internal/domain"
	"github.com/GlebRadaev/minerledger/pkg/clients"
)

const (
	chargePath = "/api/payments/charge"
	payoutPath = "/api/payments/payout"

	maxRetries = 3
)

type HTTPGateway struct {
	url           string
	client        clients.HTTPClientI
	retryInterval time.Duration
}

func NewHTTPGateway(url string, client clients.HTTPClientI) *HTTPGateway {
	return &HTTPGateway{
		url:           url,
		client:        client,
		retryInterval: time.Second,
	}
}

func (g *HTTPGateway) Charge(ctx context.Context, req Request) (*Result, error) {
	return g.call(ctx, chargePath, req)
}

func (g *HTTPGateway) Payout(ctx context.Context, req Request) (*Result, error) {
	return g.call(ctx, payoutPath, req)
}

func (g *HTTPGateway) call(ctx context.Context, path string, req Request) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode payment request: %w", err)
	}
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Idempotency-Key", req.Reference)

	for attempt := 1; attempt <= maxRetries; attempt++ {
		statusCode, respBody, respHeaders, err := g.client.Post(ctx, g.url+path, headers, body)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt < maxRetries {
				zap.L().Warn("payment gateway unreachable, retrying", zap.String("reference", req.Reference), zap.Int("attempt", attempt), zap.Error(err))
				if err := sleep(ctx, g.retryInterval*time.Duration(attempt)); err != nil {
					return nil, err
				}
				continue
			}
			return nil, fmt.Errorf("payment %s failed after %d retries: %w", req.Reference, maxRetries, err)
		}

		switch statusCode {
		case http.StatusOK, http.StatusCreated:
			return parseResult(req, respBody)

		case http.StatusTooManyRequests:
			if attempt == maxRetries {
				return nil, ErrRateLimited
			}
			retryAfter := g.retryAfter(respHeaders, attempt)
			zap.L().Warn(
				"Rate limit detected, retrying",
				zap.String("reference", req.Reference),
				zap.Int("attempt", attempt),
				zap.Duration("retryAfter", retryAfter),
			)
			if err := sleep(ctx, retryAfter); err != nil {
				return nil, err
			}

		case http.StatusPaymentRequired, http.StatusUnprocessableEntity:
			zap.L().Info("payment declined", zap.String("reference", req.Reference), zap.Int("status", statusCode))
			return &Result{Reference: req.Reference, Status: domain.StatusFailed}, nil

		default:
			zap.L().Error("Unexpected status code", zap.Int("status", statusCode), zap.String("reference", req.Reference))
			return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, statusCode)
		}
	}
	return nil, ErrRateLimited
}

func parseResult(req Request, body []byte) (*Result, error) {
	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("failed to parse response body: %w", err)
	}
	if res.Reference == "" {
		res.Reference = req.Reference
	}
	if res.Reference != req.Reference {
		return nil, fmt.Errorf("payment reference mismatch: expected %s, got %s", req.Reference, res.Reference)
	}
	switch res.Status {
	case domain.StatusSuccess, domain.StatusFailed, domain.StatusPending:
	case "":
		res.Status = domain.StatusSuccess
	default:
		return nil, fmt.Errorf("unknown payment status %q", res.Status)
	}
	return &res, nil
}

func (g *HTTPGateway) retryAfter(headers http.Header, attempt int) time.Duration {
	retryAfter := g.retryInterval * time.Duration(attempt)
	if v := headers.Get("Retry-After"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			retryAfter = time.Duration(seconds) * time.Second
		}
	}
	return retryAfter
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
