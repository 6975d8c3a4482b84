// Package visit implements the visit log: recording one user viewing
// another's profile, per-party hiding and the my-visits/my-views
// listings.
package visit

import (
	"context"

	"github.com/qrtag/qrtag-api/internal/access"
	"github.com/qrtag/qrtag-api/internal/apperr"
	"github.com/qrtag/qrtag-api/internal/app"
	"github.com/qrtag/qrtag-api/internal/auth"
	"github.com/qrtag/qrtag-api/internal/db"
	"github.com/qrtag/qrtag-api/internal/repository"
	"github.com/qrtag/qrtag-api/internal/serialize"
)

const defaultPageSize = 20

// Service implements the visit log API.
type Service struct {
	appCtx      *app.AppContext
	visitRepo   *repository.VisitRepository
	profileRepo *repository.ProfileRepository
	userRepo    *repository.UserRepository
}

// NewService creates the visit service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		visitRepo:   repository.NewVisitRepository(appCtx.DB),
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		userRepo:    repository.NewUserRepository(appCtx.DB),
	}
}

func (s *Service) opts() serialize.Options {
	return serialize.Options{BaseURL: s.appCtx.BaseURL}
}

// Record logs a visit to the given profile.
//
// Behavior:
//   - Requires an authenticated identity with a profile.
//   - Visiting your own profile is rejected with ErrInvalidVisit and
//     no row is created.
//   - The new row starts with both hide flags false.
func (s *Service) Record(ctx context.Context, requester *auth.Identity, profileID uint64, scanned bool) (serialize.VisitView, error) {
	if err := access.Allow(access.ResourceVisitLog, access.OpCreate, requester, access.Target{}); err != nil {
		return serialize.VisitView{}, err
	}

	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return serialize.VisitView{}, err
	}
	if profile.UserID == requester.UserID {
		return serialize.VisitView{}, apperr.ErrInvalidVisit
	}

	visit := &db.VisitLog{
		VisitorID: &requester.UserID,
		ProfileID: &profile.ID,
		Scanned:   scanned,
	}
	if err := s.visitRepo.Create(ctx, visit); err != nil {
		return serialize.VisitView{}, err
	}

	s.appCtx.Logger.Debug("visit recorded",
		"visit_id", visit.ID, "visitor", requester.UserID, "profile", profile.ID, "scanned", scanned)

	return serialize.NewVisitView(visit, nil, nil, serialize.Expansions{}, s.opts()), nil
}

// RecordByCode logs a QR-scan visit, resolving the profile from its code.
func (s *Service) RecordByCode(ctx context.Context, requester *auth.Identity, code uint64) (serialize.VisitView, error) {
	if err := access.Allow(access.ResourceVisitLog, access.OpCreate, requester, access.Target{}); err != nil {
		return serialize.VisitView{}, err
	}

	profile, err := s.profileRepo.GetByCode(ctx, code)
	if err != nil {
		return serialize.VisitView{}, err
	}
	return s.Record(ctx, requester, profile.ID, true)
}

// Hide sets the requester's hide flag on a visit row.
//
// Behavior:
//   - The visitor hides their own trace (hide_from_visitor).
//   - The visited profile's owner hides the row from their views
//     listing (hide_from_profile).
//   - Anyone else gets ErrPermissionDenied.
//   - Idempotent: re-hiding an already hidden row is a no-op.
func (s *Service) Hide(ctx context.Context, requester *auth.Identity, visitID uint64) error {
	if requester == nil {
		return apperr.ErrUnauthenticated
	}

	visit, err := s.visitRepo.GetByID(ctx, visitID)
	if err != nil {
		return err
	}

	target := access.Target{}
	if visit.VisitorID != nil {
		target.VisitorUserID = *visit.VisitorID
	}
	if visit.ProfileID != nil {
		profile, err := s.profileRepo.GetByID(ctx, *visit.ProfileID)
		if err == nil {
			target.OwnerUserID = profile.UserID
		}
	}
	if err := access.Allow(access.ResourceVisitLog, access.OpUpdate, requester, target); err != nil {
		return err
	}

	if visit.VisitorID != nil && *visit.VisitorID == requester.UserID {
		return s.visitRepo.HideFromVisitor(ctx, visitID)
	}
	return s.visitRepo.HideFromProfile(ctx, visitID)
}

// Page is one page of visit views with an optional continuation token.
type Page struct {
	Visits    []serialize.VisitView
	NextToken *string
}

// MyVisits lists visits the requester made, newest first, excluding
// rows they hid.
func (s *Service) MyVisits(
	ctx context.Context,
	requester *auth.Identity,
	window repository.TimeWindow,
	paginationToken *string,
	expand serialize.Expansions,
) (Page, error) {
	if err := access.Allow(access.ResourceVisitLog, access.OpList, requester, access.Target{}); err != nil {
		return Page{}, err
	}

	visits, next, err := s.visitRepo.ListByVisitor(ctx, requester.UserID, window, paginationToken, defaultPageSize)
	if err != nil {
		return Page{}, err
	}
	return s.renderPage(ctx, visits, next, expand)
}

// MyViews lists visits made to the requester's profile, newest first,
// excluding rows the owner hid.
func (s *Service) MyViews(
	ctx context.Context,
	requester *auth.Identity,
	window repository.TimeWindow,
	paginationToken *string,
	expand serialize.Expansions,
) (Page, error) {
	if err := access.Allow(access.ResourceVisitLog, access.OpList, requester, access.Target{}); err != nil {
		return Page{}, err
	}

	visits, next, err := s.visitRepo.ListByProfile(ctx, requester.ProfileID, window, paginationToken, defaultPageSize)
	if err != nil {
		return Page{}, err
	}
	return s.renderPage(ctx, visits, next, expand)
}

// renderPage serializes a listing, resolving the expanded parties row
// by row. Pages are small (defaultPageSize) so per-row lookups are fine.
func (s *Service) renderPage(ctx context.Context, visits []db.VisitLog, next *string, expand serialize.Expansions) (Page, error) {
	page := Page{
		Visits:    make([]serialize.VisitView, 0, len(visits)),
		NextToken: next,
	}

	for i := range visits {
		v := &visits[i]

		var visitor *db.User
		if expand.Has("visitor") && v.VisitorID != nil {
			visitor, _ = s.userRepo.GetByID(ctx, *v.VisitorID)
		}

		var profile *db.Profile
		if expand.Has("profile") && v.ProfileID != nil {
			profile, _ = s.profileRepo.GetByID(ctx, *v.ProfileID)
		}

		page.Visits = append(page.Visits, serialize.NewVisitView(v, visitor, profile, expand, s.opts()))
	}

	return page, nil
}

// Delete is permanently disabled for the public API.
func (s *Service) Delete(ctx context.Context, requester *auth.Identity, visitID uint64) error {
	return access.Allow(access.ResourceVisitLog, access.OpDelete, requester, access.Target{})
}
