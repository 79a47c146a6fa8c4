package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rimae/rimae-backend/internal/coupons"
	"github.com/rimae/rimae-backend/internal/pricing"
	pkgerrors "github.com/rimae/rimae-backend/pkg/errors"
	"github.com/rimae/rimae-backend/pkg/pagination"
)

type stubCouponService struct {
	created    coupons.CreateCouponInput
	updated    coupons.UpdateCouponInput
	listParams pagination.Params
	deleted    string
	err        error
}

func (s *stubCouponService) Create(_ context.Context, input coupons.CreateCouponInput) (coupons.CouponDTO, error) {
	s.created = input
	return coupons.CouponDTO{Code: input.Code, IsActive: input.IsActive}, s.err
}

func (s *stubCouponService) Get(_ context.Context, code string) (coupons.CouponDTO, error) {
	return coupons.CouponDTO{Code: code}, s.err
}

func (s *stubCouponService) List(_ context.Context, params pagination.Params) (coupons.CouponPage, error) {
	s.listParams = params
	return coupons.CouponPage{Items: []coupons.CouponDTO{}}, s.err
}

func (s *stubCouponService) Update(_ context.Context, code string, input coupons.UpdateCouponInput) (coupons.CouponDTO, error) {
	s.updated = input
	return coupons.CouponDTO{Code: code}, s.err
}

func (s *stubCouponService) Delete(_ context.Context, code string) error {
	s.deleted = code
	return s.err
}

func (s *stubCouponService) Lookup(context.Context, string) (*pricing.Coupon, error) {
	return nil, nil
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestAdminCouponCreateDefaultsActive(t *testing.T) {
	svc := &stubCouponService{}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/coupons",
		strings.NewReader(`{"code":"winter50","discount_type":"percentage","discount_value":"50","max_discount":"100"}`))
	rec := httptest.NewRecorder()

	AdminCouponCreate(svc, nil).ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, svc.created.IsActive)
	require.NotNil(t, svc.created.MaxDiscount)
	assert.Equal(t, "100", svc.created.MaxDiscount.String())
}

func TestAdminCouponCreateConflict(t *testing.T) {
	svc := &stubCouponService{err: pkgerrors.New(pkgerrors.CodeConflict, "coupon code already exists")}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/coupons",
		strings.NewReader(`{"code":"FIRST10","discount_type":"fixed","discount_value":"10","is_active":false}`))
	rec := httptest.NewRecorder()

	AdminCouponCreate(svc, nil).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, svc.created.IsActive)
}

func TestAdminCouponUpdateAndDelete(t *testing.T) {
	svc := &stubCouponService{}

	req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/admin/v1/coupons/FIRST10",
		strings.NewReader(`{"is_active":false,"clear_usage_limit":true}`)), "code", "FIRST10")
	rec := httptest.NewRecorder()
	AdminCouponUpdate(svc, nil).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.updated.IsActive)
	assert.False(t, *svc.updated.IsActive)
	assert.True(t, svc.updated.ClearUsageLimit)

	req = withURLParam(httptest.NewRequest(http.MethodDelete, "/api/admin/v1/coupons/FIRST10", nil), "code", "FIRST10")
	rec = httptest.NewRecorder()
	AdminCouponDelete(svc, nil).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "FIRST10", svc.deleted)
}

func TestAdminCouponsListParsesPaging(t *testing.T) {
	svc := &stubCouponService{}
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/coupons?limit=5&cursor=abc", nil)
	rec := httptest.NewRecorder()

	AdminCouponsList(svc, nil).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pagination.Params{Limit: 5, Cursor: "abc"}, svc.listParams)
}
