package coupons

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rimae/rimae-backend/pkg/db/models"
	"github.com/rimae/rimae-backend/pkg/enums"
	pkgerrors "github.com/rimae/rimae-backend/pkg/errors"
	"github.com/rimae/rimae-backend/pkg/pagination"
)

type fakeRepo struct {
	byCode     map[string]*models.Coupon
	err        error
	listParams pagination.Params
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byCode: map[string]*models.Coupon{}}
}

func (f *fakeRepo) Create(_ context.Context, c *models.Coupon) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byCode[c.Code]; ok {
		return pkgerrors.New(pkgerrors.CodeConflict, "coupon code already exists")
	}
	copied := *c
	f.byCode[c.Code] = &copied
	return nil
}

func (f *fakeRepo) FindByCode(_ context.Context, code string) (*models.Coupon, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.byCode[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeRepo) List(_ context.Context, params pagination.Params) ([]models.Coupon, string, error) {
	f.listParams = params
	out := make([]models.Coupon, 0, len(f.byCode))
	for _, c := range f.byCode {
		out = append(out, *c)
	}
	return out, "", f.err
}

func (f *fakeRepo) Update(_ context.Context, c *models.Coupon) error {
	copied := *c
	f.byCode[c.Code] = &copied
	return nil
}

func (f *fakeRepo) DeleteByCode(_ context.Context, code string) error {
	if _, ok := f.byCode[code]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.byCode, code)
	return nil
}

func validInput() CreateCouponInput {
	maxDiscount := decimal.NewFromInt(500)
	return CreateCouponInput{
		Code:           " rimaenew ",
		DiscountType:   "Percentage",
		DiscountValue:  decimal.NewFromInt(20),
		MinOrderAmount: decimal.NewFromInt(500),
		MaxDiscount:    &maxDiscount,
		IsActive:       true,
	}
}

func newTestService(t *testing.T) (Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	svc, err := NewService(repo, 25)
	require.NoError(t, err)
	return svc, repo
}

func TestCreateNormalizesCode(t *testing.T) {
	svc, repo := newTestService(t)

	dto, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "RIMAENEW", dto.Code)
	assert.Equal(t, enums.DiscountTypePercentage, dto.DiscountType)
	assert.Contains(t, repo.byCode, "RIMAENEW")
}

func TestCreateValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateCouponInput)
		field  string
	}{
		{"short code", func(in *CreateCouponInput) { in.Code = "ab" }, "code"},
		{"bad characters", func(in *CreateCouponInput) { in.Code = "SAVE 10" }, "code"},
		{"unknown type", func(in *CreateCouponInput) { in.DiscountType = "bogo" }, "discount_type"},
		{"zero value", func(in *CreateCouponInput) { in.DiscountValue = decimal.Zero }, "discount_value"},
		{"over 100 percent", func(in *CreateCouponInput) { in.DiscountValue = decimal.NewFromInt(101) }, "discount_value"},
		{"negative minimum", func(in *CreateCouponInput) { in.MinOrderAmount = decimal.NewFromInt(-1) }, "min_order_amount"},
		{"zero max discount", func(in *CreateCouponInput) { z := decimal.Zero; in.MaxDiscount = &z }, "max_discount"},
		{"zero usage limit", func(in *CreateCouponInput) { z := 0; in.UsageLimit = &z }, "usage_limit"},
		{"inverted window", func(in *CreateCouponInput) {
			from := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
			until := from.Add(-time.Hour)
			in.ValidFrom, in.ValidUntil = &from, &until
		}, "valid_until"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			input := validInput()
			tc.mutate(&input)

			_, err := svc.Create(context.Background(), input)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed, "expected typed error")
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
			details, ok := typed.Details().(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tc.field, details["field"])
		})
	}
}

func TestCreateAllowsExactlyHundredPercentAndLargeFixed(t *testing.T) {
	svc, _ := newTestService(t)

	input := validInput()
	input.DiscountValue = decimal.NewFromInt(100)
	_, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	fixed := validInput()
	fixed.Code = "BIGFIXED"
	fixed.DiscountType = "fixed"
	fixed.DiscountValue = decimal.NewFromInt(5000)
	_, err = svc.Create(context.Background(), fixed)
	require.NoError(t, err)
}

func TestCreateDuplicateKeepsConflict(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validInput())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestGetUpdateDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	dto, err := svc.Get(ctx, "rimaenew")
	require.NoError(t, err)
	assert.Equal(t, "RIMAENEW", dto.Code)

	inactive := false
	limit := 5
	updated, err := svc.Update(ctx, "RIMAENEW", UpdateCouponInput{
		IsActive:         &inactive,
		UsageLimit:       &limit,
		ClearMaxDiscount: true,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Nil(t, updated.MaxDiscount)
	require.NotNil(t, updated.UsageLimit)
	assert.Equal(t, 5, *updated.UsageLimit)

	tooHigh := decimal.NewFromInt(150)
	_, err = svc.Update(ctx, "RIMAENEW", UpdateCouponInput{DiscountValue: &tooHigh})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	require.NoError(t, svc.Delete(ctx, "rimaenew"))
	assert.True(t, pkgerrors.IsCode(svc.Delete(ctx, "RIMAENEW"), pkgerrors.CodeNotFound))
	_, err = svc.Get(ctx, "RIMAENEW")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListUsesDefaultLimit(t *testing.T) {
	svc, repo := newTestService(t)
	_, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	page, err := svc.List(context.Background(), pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 25, repo.listParams.Limit)
}

func TestLookup(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	coupon, err := svc.Lookup(ctx, "  rimaenew")
	require.NoError(t, err)
	require.NotNil(t, coupon)
	assert.Equal(t, "RIMAENEW", coupon.Code)
	assert.True(t, coupon.DiscountValue.Equal(decimal.NewFromInt(20)))

	missing, err := svc.Lookup(ctx, "NOPE")
	require.NoError(t, err)
	assert.Nil(t, missing)

	empty, err := svc.Lookup(ctx, " ")
	require.NoError(t, err)
	assert.Nil(t, empty)

	repo.err = errors.New("connection refused")
	_, err = svc.Lookup(ctx, "RIMAENEW")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}
