package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/qrtag/qrtag-api/internal/apperr"
	"github.com/qrtag/qrtag-api/internal/db"
)

// maxCodeRetries bounds the allocator's retry loop. The unique index
// on profiles.code is the source of truth; a retry only happens when
// a concurrent creation claimed the same candidate first.
const maxCodeRetries = 5

// ProfileRepository provides data access for the Profile model,
// including unique code allocation at creation time.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new repository bound to the given DB connection.
func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// CreateWithCode inserts the profile with a freshly allocated unique code.
//
// Behavior:
//   - Each attempt runs in its own transaction: read max(code), set
//     candidate = max+1 (1 when the table is empty), insert.
//   - A duplicate-key rejection from the code index means a concurrent
//     creation won the candidate; the attempt is rolled back and
//     retried with a fresh read.
//   - A duplicate-key rejection from the owner index means the user
//     already has a profile; that fails immediately with
//     apperr.ErrProfileExists, never a retry.
//   - After maxCodeRetries failed attempts the allocation fails with
//     apperr.ErrCodeExhausted. No profile row is left behind.
//
// Example:
//
//	p := &db.Profile{UserID: user.ID}
//	err := repo.CreateWithCode(ctx, p) // p.Code now set and unique
func (r *ProfileRepository) CreateWithCode(ctx context.Context, profile *db.Profile) error {
	for attempt := 0; attempt < maxCodeRetries; attempt++ {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var maxCode uint64
			row := tx.Model(&db.Profile{}).Select("COALESCE(MAX(code), 0)").Row()
			if err := row.Scan(&maxCode); err != nil {
				return fmt.Errorf("failed to read max code: %w", err)
			}

			profile.Code = maxCode + 1
			return tx.Create(profile).Error
		})

		if err == nil {
			return nil
		}
		if !isDuplicateKey(err) {
			return err
		}
		if strings.Contains(err.Error(), "user_id") {
			// the 1:1 owner index fired, not the code index
			return apperr.ErrProfileExists
		}

		// lost the code race, clear autoassigned fields before the next try
		profile.ID = 0
	}

	return apperr.ErrCodeExhausted
}

// isDuplicateKey reports whether err is a unique constraint rejection.
// Covers gorm's translated error plus the raw MySQL (1062) and SQLite
// messages, since error translation depends on the dialector.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// GetByID returns a profile with its owning user preloaded.
func (r *ProfileRepository) GetByID(ctx context.Context, id uint64) (*db.Profile, error) {
	var profile db.Profile
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&profile, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByUserID returns the profile owned by the given user.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uint64) (*db.Profile, error) {
	var profile db.Profile
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByCode resolves a profile from its QR code.
func (r *ProfileRepository) GetByCode(ctx context.Context, code uint64) (*db.Profile, error) {
	var profile db.Profile
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("code = ?", code).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update persists owner-editable profile fields. ID, UserID, Code and
// timestamps are never touched here.
func (r *ProfileRepository) Update(ctx context.Context, profile *db.Profile) error {
	return r.db.WithContext(ctx).
		Model(&db.Profile{ID: profile.ID}).
		Select("position", "bio", "phone_number1", "phone_number2",
			"city", "country", "address", "image", "cover",
			"gender", "date_of_birth", "public").
		Updates(profile).Error
}

// ListPublic returns public profiles of active users, newest first.
func (r *ProfileRepository) ListPublic(ctx context.Context) ([]db.Profile, error) {
	var profiles []db.Profile
	err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN users ON users.id = profiles.user_id AND users.active = ?", true).
		Where("profiles.public = ?", true).
		Order("profiles.created_at DESC, profiles.id DESC").
		Find(&profiles).Error
	return profiles, err
}
