// Package profile implements profile reads, the "me" shortcut and
// owner updates. Responses go through the serialization layer so
// expansions and presentation defaults are applied uniformly.
package profile

import (
	"context"
	"time"

	"github.com/qrtag/qrtag-api/internal/access"
	"github.com/qrtag/qrtag-api/internal/apperr"
	"github.com/qrtag/qrtag-api/internal/app"
	"github.com/qrtag/qrtag-api/internal/auth"
	"github.com/qrtag/qrtag-api/internal/db"
	"github.com/qrtag/qrtag-api/internal/repository"
	"github.com/qrtag/qrtag-api/internal/serialize"
)

// Service implements the profile API.
type Service struct {
	appCtx      *app.AppContext
	profileRepo *repository.ProfileRepository
	linkRepo    *repository.SocialLinkRepository
}

// NewService creates the profile service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		linkRepo:    repository.NewSocialLinkRepository(appCtx.DB),
	}
}

func (s *Service) opts() serialize.Options {
	return serialize.Options{BaseURL: s.appCtx.BaseURL}
}

// render builds the profile view, fetching active links only when the
// expansion asks for them.
func (s *Service) render(ctx context.Context, profile *db.Profile, expand serialize.Expansions) (serialize.ProfileView, error) {
	var links []db.SocialLink
	if expand.Has("links") {
		var err error
		links, err = s.linkRepo.ListByProfile(ctx, profile.ID, true)
		if err != nil {
			return serialize.ProfileView{}, err
		}
	}
	return serialize.NewProfileView(profile, links, expand, s.opts()), nil
}

// Get returns one profile, public or owned.
func (s *Service) Get(ctx context.Context, requester *auth.Identity, id uint64, expand serialize.Expansions) (serialize.ProfileView, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return serialize.ProfileView{}, err
	}

	target := access.TargetOf(profile)
	target.Public = profile.Public && profile.User.Active
	if err := access.Allow(access.ResourceProfile, access.OpRead, requester, target); err != nil {
		return serialize.ProfileView{}, err
	}

	return s.render(ctx, profile, expand)
}

// GetByCode resolves a profile from a scanned QR code. Only public
// profiles of active users are resolvable this way.
func (s *Service) GetByCode(ctx context.Context, requester *auth.Identity, code uint64, expand serialize.Expansions) (serialize.ProfileView, error) {
	profile, err := s.profileRepo.GetByCode(ctx, code)
	if err != nil {
		return serialize.ProfileView{}, err
	}

	target := access.TargetOf(profile)
	target.Public = profile.Public && profile.User.Active
	if err := access.Allow(access.ResourceProfile, access.OpRead, requester, target); err != nil {
		return serialize.ProfileView{}, err
	}

	return s.render(ctx, profile, expand)
}

// List returns public profiles of active users.
func (s *Service) List(ctx context.Context, requester *auth.Identity, expand serialize.Expansions) ([]serialize.ProfileView, error) {
	if err := access.Allow(access.ResourceProfile, access.OpList, requester, access.Target{}); err != nil {
		return nil, err
	}

	profiles, err := s.profileRepo.ListPublic(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]serialize.ProfileView, 0, len(profiles))
	for i := range profiles {
		view, err := s.render(ctx, &profiles[i], expand)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Me returns the requester's own profile.
func (s *Service) Me(ctx context.Context, requester *auth.Identity, expand serialize.Expansions) (serialize.ProfileView, error) {
	if requester == nil {
		return serialize.ProfileView{}, apperr.ErrUnauthenticated
	}

	profile, err := s.profileRepo.GetByUserID(ctx, requester.UserID)
	if err != nil {
		return serialize.ProfileView{}, err
	}
	return s.render(ctx, profile, expand)
}

// UpdateInput carries the owner-writable profile fields. Code, user
// reference and timestamps are system-managed and absent on purpose.
type UpdateInput struct {
	Position     string
	Bio          string
	PhoneNumber1 string
	PhoneNumber2 string
	City         string
	Country      string
	Address      string
	Image        string
	Cover        string
	Gender       string
	DateOfBirth  *time.Time
	Public       *bool
}

// UpdateMe applies owner edits to the requester's profile.
func (s *Service) UpdateMe(ctx context.Context, requester *auth.Identity, in UpdateInput) (serialize.ProfileView, error) {
	if requester == nil {
		return serialize.ProfileView{}, apperr.ErrUnauthenticated
	}

	profile, err := s.profileRepo.GetByUserID(ctx, requester.UserID)
	if err != nil {
		return serialize.ProfileView{}, err
	}
	if err := access.Allow(access.ResourceProfile, access.OpUpdate, requester, access.TargetOf(profile)); err != nil {
		return serialize.ProfileView{}, err
	}

	switch in.Gender {
	case "", db.GenderMale, db.GenderFemale, db.GenderOther:
	default:
		return serialize.ProfileView{}, apperr.Invalid("gender must be one of M, F, O")
	}

	profile.Position = in.Position
	profile.Bio = in.Bio
	profile.PhoneNumber1 = in.PhoneNumber1
	profile.PhoneNumber2 = in.PhoneNumber2
	profile.City = in.City
	profile.Country = in.Country
	profile.Address = in.Address
	profile.Image = in.Image
	profile.Cover = in.Cover
	if in.Gender != "" {
		profile.Gender = in.Gender
	}
	profile.DateOfBirth = in.DateOfBirth
	if in.Public != nil {
		profile.Public = *in.Public
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return serialize.ProfileView{}, err
	}

	updated, err := s.profileRepo.GetByUserID(ctx, requester.UserID)
	if err != nil {
		return serialize.ProfileView{}, err
	}
	return s.render(ctx, updated, serialize.Expansions{})
}

// Delete is permanently disabled for the public API.
func (s *Service) Delete(ctx context.Context, requester *auth.Identity, id uint64) error {
	return access.Allow(access.ResourceProfile, access.OpDelete, requester, access.Target{OwnerUserID: id})
}
