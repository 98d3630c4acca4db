package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Receipt is returned by the payment provider on a successful charge.
type Receipt struct {
	TransactionID string    `json:"transaction_id"`
	Amount        float64   `json:"amount"`
	ChargedAt     time.Time `json:"charged_at"`
}

// PaymentGateway charges a user for a course purchase. Implementations must
// respect context cancellation.
type PaymentGateway interface {
	Charge(ctx context.Context, userID, courseID string, amount float64) (*Receipt, error)
}

// MockPaymentGateway simulates a payment provider with configurable latency.
// Free courses are approved instantly.
type MockPaymentGateway struct {
	latency time.Duration
	logger  *slog.Logger

	// FailNext makes the next charge fail, for tests.
	FailNext bool
}

func NewMockPaymentGateway(latency time.Duration, logger *slog.Logger) *MockPaymentGateway {
	return &MockPaymentGateway{
		latency: latency,
		logger:  logger,
	}
}

// Charge simulates the provider round-trip and returns a receipt.
func (g *MockPaymentGateway) Charge(ctx context.Context, userID, courseID string, amount float64) (*Receipt, error) {
	if g.FailNext {
		g.FailNext = false
		return nil, fmt.Errorf("payment declined for user %s", userID)
	}

	if amount > 0 && g.latency > 0 {
		select {
		case <-time.After(g.latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	receipt := &Receipt{
		TransactionID: uuid.New().String(),
		Amount:        amount,
		ChargedAt:     time.Now().UTC(),
	}

	g.logger.InfoContext(ctx, "Payment processed",
		"user_id", userID,
		"course_id", courseID,
		"amount", amount,
		"transaction_id", receipt.TransactionID)

	return receipt, nil
}
