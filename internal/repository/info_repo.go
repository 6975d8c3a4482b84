package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/qrtag/qrtag-api/internal/db"
)

// InfoRepository provides read access to the informational content
// (FAQs, policies, site info) and stores contact form submissions.
// Content rows are managed out of band by the admin panel.
type InfoRepository struct {
	db *gorm.DB
}

// NewInfoRepository creates a new repository bound to the given DB connection.
func NewInfoRepository(database *gorm.DB) *InfoRepository {
	return &InfoRepository{db: database}
}

// MainInfo returns the site-wide contact block, or nil when unset.
func (r *InfoRepository) MainInfo(ctx context.Context) (*db.MainInfo, error) {
	var info db.MainInfo
	err := r.db.WithContext(ctx).First(&info).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *InfoRepository) ListFAQs(ctx context.Context) ([]db.FAQ, error) {
	var faqs []db.FAQ
	err := r.db.WithContext(ctx).Order("id ASC").Find(&faqs).Error
	return faqs, err
}

func (r *InfoRepository) ListAbout(ctx context.Context) ([]db.AboutUs, error) {
	var entries []db.AboutUs
	err := r.db.WithContext(ctx).Order("id ASC").Find(&entries).Error
	return entries, err
}

func (r *InfoRepository) ListTerms(ctx context.Context) ([]db.TermsOfService, error) {
	var entries []db.TermsOfService
	err := r.db.WithContext(ctx).Order("id ASC").Find(&entries).Error
	return entries, err
}

func (r *InfoRepository) ListCookiePolicies(ctx context.Context) ([]db.CookiePolicy, error) {
	var entries []db.CookiePolicy
	err := r.db.WithContext(ctx).Order("id ASC").Find(&entries).Error
	return entries, err
}

func (r *InfoRepository) ListPrivacyPolicies(ctx context.Context) ([]db.PrivacyPolicy, error) {
	var entries []db.PrivacyPolicy
	err := r.db.WithContext(ctx).Order("id ASC").Find(&entries).Error
	return entries, err
}

// ListHeaderImages returns only the images toggled active.
func (r *InfoRepository) ListHeaderImages(ctx context.Context) ([]db.HeaderImage, error) {
	var images []db.HeaderImage
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("id ASC").Find(&images).Error
	return images, err
}

// CreateContactMessage stores a contact form submission.
func (r *InfoRepository) CreateContactMessage(ctx context.Context, msg *db.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}
