package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qrtag/qrtag-api/internal/apperr"
	"github.com/qrtag/qrtag-api/internal/db"
	"github.com/qrtag/qrtag-api/internal/utils/pagination"
)

// TimeWindow optionally bounds a visit listing by creation time.
// Zero values mean unbounded.
type TimeWindow struct {
	After  time.Time
	Before time.Time
}

// VisitRepository provides data access for the append-only VisitLog.
// Rows are never deleted; the only updates are the two hide flags.
type VisitRepository struct {
	db *gorm.DB
}

// NewVisitRepository creates a new repository bound to the given DB connection.
func NewVisitRepository(database *gorm.DB) *VisitRepository {
	return &VisitRepository{db: database}
}

// Create appends a visit row. Both hide flags start false.
func (r *VisitRepository) Create(ctx context.Context, visit *db.VisitLog) error {
	visit.HideFromVisitor = false
	visit.HideFromProfile = false
	return r.db.WithContext(ctx).Create(visit).Error
}

// GetByID returns a single visit row.
func (r *VisitRepository) GetByID(ctx context.Context, id uint64) (*db.VisitLog, error) {
	var visit db.VisitLog
	err := r.db.WithContext(ctx).First(&visit, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &visit, nil
}

// HideFromVisitor marks the row hidden on the visitor's side.
// Idempotent: a single-column UPDATE, last write wins.
func (r *VisitRepository) HideFromVisitor(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Model(&db.VisitLog{}).
		Where("id = ?", id).
		Update("hide_from_visitor", true).Error
}

// HideFromProfile marks the row hidden on the profile owner's side.
func (r *VisitRepository) HideFromProfile(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Model(&db.VisitLog{}).
		Where("id = ?", id).
		Update("hide_from_profile", true).Error
}

// ListByVisitor returns visits the user made, newest first, excluding
// rows the visitor hid.
//
// Behavior:
//   - Ordered by created_at DESC, id DESC (id breaks timestamp ties).
//   - Optional time window on created_at (before/after filters).
//   - Cursor-based pagination via paginationToken.
func (r *VisitRepository) ListByVisitor(
	ctx context.Context,
	visitorID uint64,
	window TimeWindow,
	paginationToken *string,
	limit int,
) ([]db.VisitLog, *string, error) {
	query := r.db.WithContext(ctx).
		Where("visitor_id = ? AND hide_from_visitor = ?", visitorID, false)

	return r.list(query, window, paginationToken, limit)
}

// ListByProfile returns visits made to the given profile, newest
// first, excluding rows the profile owner hid.
func (r *VisitRepository) ListByProfile(
	ctx context.Context,
	profileID uint64,
	window TimeWindow,
	paginationToken *string,
	limit int,
) ([]db.VisitLog, *string, error) {
	query := r.db.WithContext(ctx).
		Where("profile_id = ? AND hide_from_profile = ?", profileID, false)

	return r.list(query, window, paginationToken, limit)
}

func (r *VisitRepository) list(
	query *gorm.DB,
	window TimeWindow,
	paginationToken *string,
	limit int,
) ([]db.VisitLog, *string, error) {
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, apperr.Invalid("invalid pagination token")
	}

	if !window.After.IsZero() {
		query = query.Where("created_at >= ?", window.After)
	}
	if !window.Before.IsZero() {
		query = query.Where("created_at <= ?", window.Before)
	}

	if cursor.ID > 0 && cursor.CreatedUnix > 0 {
		ts := time.UnixMilli(cursor.CreatedUnix)
		query = query.Where(
			"(created_at < ? OR (created_at = ? AND id < ?))",
			ts, ts, cursor.ID,
		)
	}

	var visits []db.VisitLog
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&visits).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(visits) > limit {
		last := visits[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			ID:          last.ID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		visits = visits[:limit]
	}

	return visits, nextToken, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
