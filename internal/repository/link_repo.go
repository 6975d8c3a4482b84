package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/qrtag/qrtag-api/internal/apperr"
	"github.com/qrtag/qrtag-api/internal/db"
)

// SocialLinkRepository provides data access for profile-owned links.
type SocialLinkRepository struct {
	db *gorm.DB
}

// NewSocialLinkRepository creates a new repository bound to the given DB connection.
func NewSocialLinkRepository(database *gorm.DB) *SocialLinkRepository {
	return &SocialLinkRepository{db: database}
}

func (r *SocialLinkRepository) Create(ctx context.Context, link *db.SocialLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *SocialLinkRepository) GetByID(ctx context.Context, id uint64) (*db.SocialLink, error) {
	var link db.SocialLink
	err := r.db.WithContext(ctx).Preload("Profile").First(&link, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// Update persists the owner-editable fields (url, active flag).
func (r *SocialLinkRepository) Update(ctx context.Context, link *db.SocialLink) error {
	return r.db.WithContext(ctx).
		Model(&db.SocialLink{ID: link.ID}).
		Select("url", "active").
		Updates(link).Error
}

func (r *SocialLinkRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&db.SocialLink{}, id).Error
}

// ListByProfile returns a profile's links, oldest first (insertion
// order). activeOnly filters to links shown on the public profile.
func (r *SocialLinkRepository) ListByProfile(ctx context.Context, profileID uint64, activeOnly bool) ([]db.SocialLink, error) {
	query := r.db.WithContext(ctx).Where("profile_id = ?", profileID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var links []db.SocialLink
	err := query.Order("id ASC").Find(&links).Error
	return links, err
}
