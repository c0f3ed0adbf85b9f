package models

import (
	"testing"
	"time"
)

func TestTicketTierCreateRequest_Validate(t *testing.T) {
	saleStart := time.Now().Add(1 * time.Hour)
	saleEnd := saleStart.Add(48 * time.Hour)

	tests := []struct {
		name    string
		req     TicketTierCreateRequest
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid tier",
			req: TicketTierCreateRequest{
				EventID:    1,
				Name:       "General Admission",
				PriceCents: 2500,
				Total:      100,
				SaleStart:  saleStart,
				SaleEnd:    saleEnd,
			},
			wantErr: false,
		},
		{
			name: "missing event",
			req: TicketTierCreateRequest{
				Name:       "General Admission",
				PriceCents: 2500,
				Total:      100,
				SaleStart:  saleStart,
				SaleEnd:    saleEnd,
			},
			wantErr: true,
			errMsg:  "event id is required",
		},
		{
			name: "empty name",
			req: TicketTierCreateRequest{
				EventID:    1,
				Name:       "  ",
				PriceCents: 2500,
				Total:      100,
				SaleStart:  saleStart,
				SaleEnd:    saleEnd,
			},
			wantErr: true,
			errMsg:  "ticket tier name is required",
		},
		{
			name: "negative price",
			req: TicketTierCreateRequest{
				EventID:    1,
				Name:       "General Admission",
				PriceCents: -100,
				Total:      100,
				SaleStart:  saleStart,
				SaleEnd:    saleEnd,
			},
			wantErr: true,
			errMsg:  "ticket price cannot be negative",
		},
		{
			name: "zero quantity",
			req: TicketTierCreateRequest{
				EventID:    1,
				Name:       "General Admission",
				PriceCents: 2500,
				Total:      0,
				SaleStart:  saleStart,
				SaleEnd:    saleEnd,
			},
			wantErr: true,
			errMsg:  "ticket quantity must be greater than 0",
		},
		{
			name: "sale start after end",
			req: TicketTierCreateRequest{
				EventID:    1,
				Name:       "General Admission",
				PriceCents: 2500,
				Total:      100,
				SaleStart:  saleEnd,
				SaleEnd:    saleStart,
			},
			wantErr: true,
			errMsg:  "sale start date must be before sale end date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && err.Error() != tt.errMsg {
				t.Errorf("Validate() error = %v, want %v", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestTicketTier_CountersConsistent(t *testing.T) {
	tests := []struct {
		name string
		tier TicketTier
		want bool
	}{
		{
			name: "fresh tier",
			tier: TicketTier{Total: 100, Available: 100, Reserved: 0, Sold: 0},
			want: true,
		},
		{
			name: "partially sold with holds",
			tier: TicketTier{Total: 100, Available: 60, Reserved: 10, Sold: 30},
			want: true,
		},
		{
			name: "drifted counters",
			tier: TicketTier{Total: 100, Available: 70, Reserved: 10, Sold: 30},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tier.CountersConsistent(); got != tt.want {
				t.Errorf("CountersConsistent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTicketTier_IsOnSale(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		tier TicketTier
		want bool
	}{
		{
			name: "on sale with inventory",
			tier: TicketTier{
				Total: 100, Available: 50, Reserved: 20, Sold: 30,
				SaleStart: now.Add(-1 * time.Hour),
				SaleEnd:   now.Add(1 * time.Hour),
			},
			want: true,
		},
		{
			name: "sold out",
			tier: TicketTier{
				Total: 100, Available: 0, Reserved: 0, Sold: 100,
				SaleStart: now.Add(-1 * time.Hour),
				SaleEnd:   now.Add(1 * time.Hour),
			},
			want: false,
		},
		{
			name: "sale not started",
			tier: TicketTier{
				Total: 100, Available: 100,
				SaleStart: now.Add(1 * time.Hour),
				SaleEnd:   now.Add(2 * time.Hour),
			},
			want: false,
		},
		{
			name: "sale ended",
			tier: TicketTier{
				Total: 100, Available: 100,
				SaleStart: now.Add(-2 * time.Hour),
				SaleEnd:   now.Add(-1 * time.Hour),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tier.IsOnSale(); got != tt.want {
				t.Errorf("IsOnSale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTicketHold_IsExpired(t *testing.T) {
	now := time.Now()

	hold := TicketHold{ExpiresAt: now.Add(10 * time.Minute)}
	if hold.IsExpired(now) {
		t.Error("hold expiring in the future should not be expired")
	}

	// Expiry instant itself is still valid
	hold = TicketHold{ExpiresAt: now}
	if hold.IsExpired(now) {
		t.Error("hold expiring exactly now should not be expired")
	}

	hold = TicketHold{ExpiresAt: now.Add(-1 * time.Second)}
	if !hold.IsExpired(now) {
		t.Error("hold with past expiry should be expired")
	}
}
