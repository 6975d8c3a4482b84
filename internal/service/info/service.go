// Package info serves the static informational content (FAQs,
// policies, site info) and accepts contact form submissions. All reads
// are open to anonymous callers.
package info

import (
	"context"
	"strings"

	"github.com/qrtag/qrtag-api/internal/access"
	"github.com/qrtag/qrtag-api/internal/apperr"
	"github.com/qrtag/qrtag-api/internal/app"
	"github.com/qrtag/qrtag-api/internal/db"
	"github.com/qrtag/qrtag-api/internal/repository"
)

// Service implements the informational content API.
type Service struct {
	appCtx   *app.AppContext
	infoRepo *repository.InfoRepository
}

// NewService creates the info service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		infoRepo: repository.NewInfoRepository(appCtx.DB),
	}
}

func (s *Service) MainInfo(ctx context.Context) (*db.MainInfo, error) {
	if err := access.Allow(access.ResourceInfo, access.OpRead, nil, access.Target{}); err != nil {
		return nil, err
	}
	return s.infoRepo.MainInfo(ctx)
}

func (s *Service) FAQs(ctx context.Context) ([]db.FAQ, error) {
	return s.infoRepo.ListFAQs(ctx)
}

func (s *Service) About(ctx context.Context) ([]db.AboutUs, error) {
	return s.infoRepo.ListAbout(ctx)
}

func (s *Service) Terms(ctx context.Context) ([]db.TermsOfService, error) {
	return s.infoRepo.ListTerms(ctx)
}

func (s *Service) CookiePolicies(ctx context.Context) ([]db.CookiePolicy, error) {
	return s.infoRepo.ListCookiePolicies(ctx)
}

func (s *Service) PrivacyPolicies(ctx context.Context) ([]db.PrivacyPolicy, error) {
	return s.infoRepo.ListPrivacyPolicies(ctx)
}

func (s *Service) HeaderImages(ctx context.Context) ([]db.HeaderImage, error) {
	return s.infoRepo.ListHeaderImages(ctx)
}

// ContactInput is a contact form submission.
type ContactInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Subject     string
	Message     string
}

// SubmitContact stores a contact message. Open to anonymous callers.
func (s *Service) SubmitContact(ctx context.Context, in ContactInput) (*db.ContactMessage, error) {
	if err := access.Allow(access.ResourceInfo, access.OpCreate, nil, access.Target{}); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.Invalid("a valid email is required")
	}
	if strings.TrimSpace(in.Subject) == "" || strings.TrimSpace(in.Message) == "" {
		return nil, apperr.Invalid("subject and message are required")
	}

	msg := &db.ContactMessage{
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Email:       email,
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Subject:     strings.TrimSpace(in.Subject),
		Message:     in.Message,
	}
	if err := s.infoRepo.CreateContactMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.appCtx.Logger.Info("contact message received", "id", msg.ID, "subject", msg.Subject)
	return msg, nil
}
