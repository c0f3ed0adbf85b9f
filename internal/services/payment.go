package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ChargeRequest describes a payment to collect before an order commits
type ChargeRequest struct {
	AmountCents  int
	Currency     string
	BillingEmail string
	BillingName  string
	Reference    string
}

// ChargeResult identifies a collected payment
type ChargeResult struct {
	PaymentID string
	Status    string
}

// PaymentProvider collects payment for an order. Void reverses a charge
// that was collected but whose order failed to commit. Implementations
// wrap a real gateway; MockPaymentProvider stands in for development and
// tests.
type PaymentProvider interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	Void(ctx context.Context, paymentID string) error
}

// MockPaymentProvider approves every charge and issues synthetic payment
// IDs. FailAmounts lists amounts that should be declined, for tests.
// Collected charges and voided payment IDs are recorded so tests can
// assert on them.
type MockPaymentProvider struct {
	FailAmounts map[int]bool
	Charges     []ChargeRequest
	Voided      []string
}

// Charge implements PaymentProvider
func (p *MockPaymentProvider) Charge(_ context.Context, req ChargeRequest) (*ChargeResult, error) {
	if req.AmountCents < 0 {
		return nil, fmt.Errorf("invalid charge amount %d", req.AmountCents)
	}
	if p.FailAmounts[req.AmountCents] {
		return nil, fmt.Errorf("payment declined")
	}
	p.Charges = append(p.Charges, req)
	return &ChargeResult{
		PaymentID: "mock_" + uuid.New().String(),
		Status:    "approved",
	}, nil
}

// Void implements PaymentProvider
func (p *MockPaymentProvider) Void(_ context.Context, paymentID string) error {
	p.Voided = append(p.Voided, paymentID)
	return nil
}
