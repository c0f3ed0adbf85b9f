package models

import (
	"testing"
	"time"
)

func TestPromoCode_IsRedeemable(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name  string
		promo PromoCode
		want  bool
	}{
		{
			name:  "active unlimited code",
			promo: PromoCode{IsActive: true, PercentOff: 10},
			want:  true,
		},
		{
			name:  "inactive code",
			promo: PromoCode{IsActive: false, PercentOff: 10},
			want:  false,
		},
		{
			name:  "uses remaining",
			promo: PromoCode{IsActive: true, PercentOff: 10, MaxUses: 5, Uses: 4},
			want:  true,
		},
		{
			name:  "uses exhausted",
			promo: PromoCode{IsActive: true, PercentOff: 10, MaxUses: 5, Uses: 5},
			want:  false,
		},
		{
			name:  "not yet expired",
			promo: PromoCode{IsActive: true, PercentOff: 10, ExpiresAt: &future},
			want:  true,
		},
		{
			name:  "expired",
			promo: PromoCode{IsActive: true, PercentOff: 10, ExpiresAt: &past},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.promo.IsRedeemable(now); got != tt.want {
				t.Errorf("IsRedeemable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPromoCode_DiscountFor(t *testing.T) {
	tests := []struct {
		name     string
		promo    PromoCode
		subtotal int
		want     int
	}{
		{name: "flat percent", promo: PromoCode{PercentOff: 10}, subtotal: 5000, want: 500},
		{name: "percent rounds down", promo: PromoCode{PercentOff: 15}, subtotal: 999, want: 149},
		{name: "fixed amount", promo: PromoCode{AmountOffCents: 1000}, subtotal: 5000, want: 1000},
		{name: "amount capped at subtotal", promo: PromoCode{AmountOffCents: 9000}, subtotal: 5000, want: 5000},
		{name: "full discount", promo: PromoCode{PercentOff: 100}, subtotal: 5000, want: 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.promo.DiscountFor(tt.subtotal); got != tt.want {
				t.Errorf("DiscountFor(%d) = %d, want %d", tt.subtotal, got, tt.want)
			}
		})
	}
}
