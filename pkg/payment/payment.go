package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidAmount = errors.New("invalid payment amount")
	ErrDeclined      = errors.New("payment declined")
)

// Charge describes one payment attempt.
type Charge struct {
	Method    string
	Amount    float64
	Reference string
}

type Receipt struct {
	TransactionID string
	Amount        float64
}

// Provider settles charges for tickets and concession orders.
type Provider interface {
	Charge(ctx context.Context, charge Charge) (*Receipt, error)
	Refund(ctx context.Context, transactionID string, amount float64) error
}

// SimulatedProvider approves every charge for an enabled method. It stands
// in for a real checkout during development.
type SimulatedProvider struct {
	declined map[string]bool
}

// NewSimulatedProvider declines the listed method codes.
func NewSimulatedProvider(declinedMethods ...string) *SimulatedProvider {
	declined := make(map[string]bool, len(declinedMethods))
	for _, method := range declinedMethods {
		declined[strings.ToLower(method)] = true
	}
	return &SimulatedProvider{declined: declined}
}

func (p *SimulatedProvider) Charge(ctx context.Context, charge Charge) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if charge.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if p.declined[strings.ToLower(charge.Method)] {
		return nil, fmt.Errorf("%w: %s", ErrDeclined, charge.Method)
	}

	return &Receipt{
		TransactionID: "TXN-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16]),
		Amount:        charge.Amount,
	}, nil
}

func (p *SimulatedProvider) Refund(ctx context.Context, transactionID string, amount float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if transactionID == "" {
		return fmt.Errorf("refund: missing transaction id")
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
