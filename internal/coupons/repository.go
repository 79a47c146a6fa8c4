package coupons

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rimae/rimae-backend/internal/repo"
	"github.com/rimae/rimae-backend/pkg/db"
	"github.com/rimae/rimae-backend/pkg/db/models"
	pkgerrors "github.com/rimae/rimae-backend/pkg/errors"
	"github.com/rimae/rimae-backend/pkg/pagination"
)

const (
	codeConstraint = "coupons_code_key"
	// sqlite names the column instead of the constraint.
	codeColumn = "coupons.code"
)

// Repository persists coupons.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(conn)}
}

// Create inserts coupon. A duplicate code is reported as CONFLICT.
func (r *Repository) Create(ctx context.Context, coupon *models.Coupon) error {
	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}
	if err := r.DB(ctx).Create(coupon).Error; err != nil {
		if db.IsUniqueViolation(err, codeConstraint) || db.IsUniqueViolation(err, codeColumn) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "coupon code already exists").
				WithDetails(map[string]any{"code": coupon.Code})
		}
		return err
	}
	return nil
}

// FindByCode returns gorm.ErrRecordNotFound when no coupon has code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.DB(ctx).Where("code = ?", code).First(&coupon).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

// List pages coupons newest first. The returned cursor is empty on the last page.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Coupon, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	query := r.DB(ctx).Model(&models.Coupon{})
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Coupon
	if err := query.Order("created_at DESC").Order("id DESC").Limit(pagination.LimitWithBuffer(params.Limit)).Find(&rows).Error; err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}

// Update writes every column of coupon.
func (r *Repository) Update(ctx context.Context, coupon *models.Coupon) error {
	coupon.UpdatedAt = time.Now().UTC()
	return r.DB(ctx).Save(coupon).Error
}

// DeleteByCode removes the coupon and reports gorm.ErrRecordNotFound when
// nothing matched.
func (r *Repository) DeleteByCode(ctx context.Context, code string) error {
	res := r.DB(ctx).Where("code = ?", code).Delete(&models.Coupon{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
