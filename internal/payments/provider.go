package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jitendra20661/cbct-fyp/pkg/logging"
)

// ChargeRequest describes a deposit charge for a booked appointment.
type ChargeRequest struct {
	AppointmentID string
	UserID        string
	AmountCents   int
}

// ChargeResult is the provider's payment result payload.
type ChargeResult struct {
	Success     bool   `json:"success"`
	Reference   string `json:"reference"`
	AmountCents int    `json:"amount_cents"`
}

// Provider settles appointment deposits.
type Provider interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// FakeProvider is a dev/demo payment provider that approves every charge.
//
// This MUST be gated by configuration (ALLOW_FAKE_PAYMENTS) and should never be
// enabled in production.
type FakeProvider struct {
	logger *logging.Logger
}

func NewFakeProvider(logger *logging.Logger) *FakeProvider {
	if logger == nil {
		logger = logging.Default()
	}
	return &FakeProvider{logger: logger}
}

func (p *FakeProvider) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	_ = ctx
	if strings.TrimSpace(req.AppointmentID) == "" {
		return nil, fmt.Errorf("payments: charge requires appointment id")
	}
	if req.AmountCents <= 0 {
		return nil, fmt.Errorf("payments: charge amount must be positive")
	}

	reference := "fake:" + uuid.NewString()
	p.logger.Info("fake payment approved",
		"appointment_id", req.AppointmentID,
		"reference", reference,
		"amount_cents", req.AmountCents,
	)
	return &ChargeResult{
		Success:     true,
		Reference:   reference,
		AmountCents: req.AmountCents,
	}, nil
}
