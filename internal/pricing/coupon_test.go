package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rimae/rimae-backend/pkg/enums"
)

var now = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func percentCoupon(value int64) *Coupon {
	return &Coupon{
		Code:          "rimaenew",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: dec(value),
		IsActive:      true,
	}
}

func TestApplyCouponPercentageCappedByMaxDiscount(t *testing.T) {
	c := percentCoupon(50)
	c.MaxDiscount = decPtr(100)

	res := ApplyCoupon(dec(1000), c, now)
	if !res.Applied {
		t.Fatalf("expected coupon to apply, got %+v", res)
	}
	mustEqual(t, "discount", res.DiscountApplied, 100)
	mustEqual(t, "final", res.FinalTotal, 900)
	if res.Code != "RIMAENEW" {
		t.Fatalf("expected normalized code, got %q", res.Code)
	}
}

func TestApplyCouponFixedNeverExceedsPayable(t *testing.T) {
	c := &Coupon{Code: "WINTER50", DiscountType: enums.DiscountTypeFixed, DiscountValue: dec(50), IsActive: true}

	res := ApplyCoupon(dec(30), c, now)
	if !res.Applied {
		t.Fatalf("expected coupon to apply, got %+v", res)
	}
	mustEqual(t, "discount", res.DiscountApplied, 30)
	mustEqual(t, "final", res.FinalTotal, 0)
}

func TestApplyCouponPercentageKeepsFractions(t *testing.T) {
	res := ApplyCoupon(decimal.RequireFromString("999.99"), percentCoupon(10), now)
	if !res.DiscountApplied.Equal(decimal.RequireFromString("99.999")) {
		t.Fatalf("expected unrounded discount, got %s", res.DiscountApplied)
	}
}

func TestApplyCouponBelowMinimum(t *testing.T) {
	c := &Coupon{Code: "WINTER50", DiscountType: enums.DiscountTypeFixed, DiscountValue: dec(50), MinOrderAmount: dec(500), IsActive: true}

	res := ApplyCoupon(dec(300), c, now)
	if res.Applied {
		t.Fatalf("expected rejection, got %+v", res)
	}
	if res.Reason != ReasonBelowMinimum {
		t.Fatalf("expected below-minimum reason, got %q", res.Reason)
	}
	mustEqual(t, "final", res.FinalTotal, 300)
	mustEqual(t, "discount", res.DiscountApplied, 0)
	if res.Message != "Minimum order amount is 500.00" {
		t.Fatalf("unexpected message %q", res.Message)
	}
}

func TestApplyCouponMinimumIsInclusive(t *testing.T) {
	c := percentCoupon(10)
	c.MinOrderAmount = dec(500)
	if res := ApplyCoupon(dec(500), c, now); !res.Applied {
		t.Fatalf("payable equal to the minimum should qualify, got %+v", res)
	}
}

func TestValidateCouponOrder(t *testing.T) {
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	cases := []struct {
		name   string
		coupon *Coupon
		want   RejectionReason
	}{
		{name: "missing", coupon: nil, want: ReasonNotFound},
		{
			name:   "inactive wins over expiry",
			coupon: &Coupon{IsActive: false, ValidUntil: timePtr(past)},
			want:   ReasonInactive,
		},
		{
			name:   "not yet valid",
			coupon: &Coupon{IsActive: true, ValidFrom: timePtr(future)},
			want:   ReasonNotYetValid,
		},
		{
			name:   "expired wins over usage",
			coupon: &Coupon{IsActive: true, ValidUntil: timePtr(past), UsageLimit: intPtr(1), UsedCount: 1},
			want:   ReasonExpired,
		},
		{
			name:   "usage exhausted wins over minimum",
			coupon: &Coupon{IsActive: true, UsageLimit: intPtr(5), UsedCount: 5, MinOrderAmount: dec(10000)},
			want:   ReasonUsageExhausted,
		},
		{
			name:   "below minimum",
			coupon: &Coupon{IsActive: true, MinOrderAmount: dec(10000)},
			want:   ReasonBelowMinimum,
		},
		{
			name:   "window bounds are inclusive",
			coupon: &Coupon{IsActive: true, ValidFrom: timePtr(now), ValidUntil: timePtr(now)},
			want:   "",
		},
		{
			name:   "usage below limit",
			coupon: &Coupon{IsActive: true, UsageLimit: intPtr(5), UsedCount: 4},
			want:   "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidateCoupon(dec(1000), tc.coupon, now); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestRejectedCouponLeavesTotalUnchanged(t *testing.T) {
	for _, c := range []*Coupon{nil, {IsActive: false}, {IsActive: true, ValidUntil: timePtr(now.Add(-time.Second))}} {
		res := ApplyCoupon(dec(750), c, now)
		if res.Applied {
			t.Fatalf("expected rejection for %+v", c)
		}
		mustEqual(t, "final", res.FinalTotal, 750)
		if res.Message == "" {
			t.Fatalf("rejections must carry a message")
		}
	}
}

func TestCouponMonotonicity(t *testing.T) {
	coupons := []*Coupon{
		percentCoupon(100),
		percentCoupon(20),
		{Code: "FLAT", DiscountType: enums.DiscountTypeFixed, DiscountValue: dec(5000), IsActive: true},
		{Code: "CAPPED", DiscountType: enums.DiscountTypePercentage, DiscountValue: dec(30), MaxDiscount: decPtr(0), IsActive: true},
	}
	for _, payable := range []int64{0, 1, 299, 1000, 25000} {
		for _, c := range coupons {
			res := ApplyCoupon(dec(payable), c, now)
			if res.FinalTotal.GreaterThan(dec(payable)) {
				t.Fatalf("final %s exceeds payable %d", res.FinalTotal, payable)
			}
			if res.FinalTotal.IsNegative() || res.DiscountApplied.IsNegative() {
				t.Fatalf("negative amounts for payable %d: %+v", payable, res)
			}
			if !res.FinalTotal.Add(res.DiscountApplied).Equal(dec(payable)) {
				t.Fatalf("final + discount != payable for %d: %+v", payable, res)
			}
		}
	}
}

func TestCouponDiscountUnknownTypeIsZero(t *testing.T) {
	got := CouponDiscount(dec(100), Coupon{DiscountType: "bogo", DiscountValue: dec(10)})
	if !got.IsZero() {
		t.Fatalf("expected zero discount for unknown type, got %s", got)
	}
}

func TestNormalizeCode(t *testing.T) {
	if got := NormalizeCode("  winter50 "); got != "WINTER50" {
		t.Fatalf("unexpected normalized code %q", got)
	}
}
