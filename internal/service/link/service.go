// Package link implements social link management, always scoped to
// the requester's own profile.
package link

import (
	"context"

	"github.com/qrtag/qrtag-api/internal/access"
	"github.com/qrtag/qrtag-api/internal/apperr"
	"github.com/qrtag/qrtag-api/internal/app"
	"github.com/qrtag/qrtag-api/internal/auth"
	"github.com/qrtag/qrtag-api/internal/db"
	"github.com/qrtag/qrtag-api/internal/linkmeta"
	"github.com/qrtag/qrtag-api/internal/repository"
	"github.com/qrtag/qrtag-api/internal/serialize"
)

// Service implements the social link API.
type Service struct {
	appCtx   *app.AppContext
	linkRepo *repository.SocialLinkRepository
}

// NewService creates the link service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		linkRepo: repository.NewSocialLinkRepository(appCtx.DB),
	}
}

// List returns all of the requester's links, active or not.
func (s *Service) List(ctx context.Context, requester *auth.Identity) ([]serialize.LinkView, error) {
	if err := access.Allow(access.ResourceSocialLink, access.OpList, requester, access.Target{}); err != nil {
		return nil, err
	}

	links, err := s.linkRepo.ListByProfile(ctx, requester.ProfileID, false)
	if err != nil {
		return nil, err
	}
	return serialize.NewLinkViews(links), nil
}

// Input is the writable part of a link.
type Input struct {
	URL    string
	Active *bool
}

// Create adds a link to the requester's profile. The URL must carry a
// resolvable hostname; domain and icon stay derived, never stored.
func (s *Service) Create(ctx context.Context, requester *auth.Identity, in Input) (serialize.LinkView, error) {
	if err := access.Allow(access.ResourceSocialLink, access.OpCreate, requester, access.Target{}); err != nil {
		return serialize.LinkView{}, err
	}
	if _, err := linkmeta.HostnameFromURL(in.URL); err != nil {
		return serialize.LinkView{}, apperr.Invalid("url must include a hostname")
	}

	link := &db.SocialLink{
		ProfileID: requester.ProfileID,
		URL:       in.URL,
		Active:    true,
	}
	if in.Active != nil {
		link.Active = *in.Active
	}

	if err := s.linkRepo.Create(ctx, link); err != nil {
		return serialize.LinkView{}, err
	}
	return serialize.NewLinkView(link), nil
}

// Update edits one of the requester's links.
func (s *Service) Update(ctx context.Context, requester *auth.Identity, id uint64, in Input) (serialize.LinkView, error) {
	link, err := s.linkRepo.GetByID(ctx, id)
	if err != nil {
		return serialize.LinkView{}, err
	}
	if err := access.Allow(access.ResourceSocialLink, access.OpUpdate, requester, access.TargetOf(link)); err != nil {
		return serialize.LinkView{}, err
	}

	if in.URL != "" {
		if _, err := linkmeta.HostnameFromURL(in.URL); err != nil {
			return serialize.LinkView{}, apperr.Invalid("url must include a hostname")
		}
		link.URL = in.URL
	}
	if in.Active != nil {
		link.Active = *in.Active
	}

	if err := s.linkRepo.Update(ctx, link); err != nil {
		return serialize.LinkView{}, err
	}
	return serialize.NewLinkView(link), nil
}

// Delete removes one of the requester's links. Unlike profiles and
// visits, link deletion is a real owner operation.
func (s *Service) Delete(ctx context.Context, requester *auth.Identity, id uint64) error {
	link, err := s.linkRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := access.Allow(access.ResourceSocialLink, access.OpDelete, requester, access.TargetOf(link)); err != nil {
		return err
	}
	return s.linkRepo.Delete(ctx, id)
}
