package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/minerledger/internal/domain"
)

var (
	ErrRateLimited      = errors.New("payment gateway rate limit exceeded")
	ErrUnexpectedStatus = errors.New("unexpected payment gateway status")
)

type Request struct {
	Reference   string          `json:"reference"`
	AccountID   string          `json:"accountId"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	Destination string          `json:"destination,omitempty"`
}

type Result struct {
	Reference string                   `json:"reference"`
	Status    domain.TransactionStatus `json:"status"`
}

// Gateway moves money between users and the outside world. A declined
// operation is a Result with StatusFailed, not an error.
//
//go:generate mockgen -source=payment.go -destination=mock_gateway.go -package=payment Gateway
type Gateway interface {
	Charge(ctx context.Context, req Request) (*Result, error)
	Payout(ctx context.Context, req Request) (*Result, error)
}

// OfflineGateway approves every operation. It backs deployments without a
// configured gateway address.
type OfflineGateway struct{}

func (OfflineGateway) Charge(_ context.Context, req Request) (*Result, error) {
	return &Result{Reference: req.Reference, Status: domain.StatusSuccess}, nil
}

func (OfflineGateway) Payout(_ context.Context, req Request) (*Result, error) {
	return &Result{Reference: req.Reference, Status: domain.StatusSuccess}, nil
}
