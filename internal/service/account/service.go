// Package account implements registration, login and self-service
// account management. Registration is the explicit "create identity,
// then allocate profile" sequence; there is no implicit creation hook.
package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qrtag/qrtag-api/internal/access"
	"github.com/qrtag/qrtag-api/internal/apperr"
	"github.com/qrtag/qrtag-api/internal/app"
	"github.com/qrtag/qrtag-api/internal/auth"
	"github.com/qrtag/qrtag-api/internal/db"
	"github.com/qrtag/qrtag-api/internal/repository"
)

// Service implements the account API.
type Service struct {
	appCtx      *app.AppContext
	userRepo    *repository.UserRepository
	profileRepo *repository.ProfileRepository

	jwtSecret string
	tokenTTL  time.Duration
	resetTTL  time.Duration
	email     auth.EmailSender
}

// Config carries the auth knobs the service needs.
type Config struct {
	JWTSecret string
	TokenTTL  time.Duration
	ResetTTL  time.Duration
}

// NewService creates the account service with dependencies from AppContext.
func NewService(appCtx *app.AppContext, cfg Config, email auth.EmailSender) *Service {
	if email == nil {
		email = &auth.LogEmailSender{Logger: appCtx.Logger}
	}
	return &Service{
		appCtx:      appCtx,
		userRepo:    repository.NewUserRepository(appCtx.DB),
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		jwtSecret:   cfg.JWTSecret,
		tokenTTL:    cfg.TokenTTL,
		resetTTL:    cfg.ResetTTL,
		email:       email,
	}
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	NickName  string
	Staff     bool // set only by admin tooling, never from the public API
}

// Register creates a user and, for non-staff accounts, allocates its
// profile with a fresh unique code.
//
// Behavior:
//   - User creation and profile allocation run in one transaction: a
//     failed allocation never leaves a user row behind.
//   - Email uniqueness is enforced by the DB index (ErrEmailTaken).
//   - Profile creation goes through ProfileRepository.CreateWithCode,
//     which owns the code-allocation retry loop (its per-attempt
//     transactions nest as savepoints).
//   - Staff/superuser accounts get no profile.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*db.User, *db.Profile, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, nil, apperr.Invalid("a valid email is required")
	}
	if len(in.Password) < 8 {
		return nil, nil, apperr.Invalid("password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &db.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		NickName:     strings.TrimSpace(in.NickName),
		Active:       true,
		Staff:        in.Staff,
	}
	var profile *db.Profile
	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewUserRepository(tx).Create(ctx, user); err != nil {
			return err
		}
		if user.Staff || user.Superuser {
			return nil
		}

		profile = &db.Profile{UserID: user.ID, Public: true, Gender: db.GenderMale}
		if err := repository.NewProfileRepository(tx).CreateWithCode(ctx, profile); err != nil {
			s.appCtx.Logger.Error("profile allocation failed", "user_id", user.ID, "err", err)
			profile = nil
			return err
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if profile == nil {
		s.appCtx.Logger.Info("registered staff account without profile", "user_id", user.ID)
		return user, nil, nil
	}
	profile.User = *user

	s.appCtx.Logger.Info("registered user", "user_id", user.ID, "code", profile.Code)
	return user, profile, nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *db.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, apperr.ErrNotFound) {
		return "", nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if !user.Active || !auth.CheckPassword(user.PasswordHash, password) {
		return "", nil, apperr.ErrInvalidCredentials
	}

	token, err := auth.SignJWT(s.jwtSecret, user.ID, user.Staff || user.Superuser, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}

	_ = s.userRepo.TouchLastLogin(ctx, user.ID)
	return token, user, nil
}

// Identify resolves a verified token into the request identity used by
// the access layer.
func (s *Service) Identify(ctx context.Context, userID uint64) (auth.Identity, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return auth.Identity{}, apperr.ErrInvalidToken
	}
	if !user.Active {
		return auth.Identity{}, apperr.ErrInvalidToken
	}

	id := auth.Identity{UserID: user.ID, Staff: user.Staff, Superuser: user.Superuser}
	if profile, err := s.profileRepo.GetByUserID(ctx, user.ID); err == nil {
		id.ProfileID = profile.ID
	}
	return id, nil
}

// Get returns an account, self or admin only.
func (s *Service) Get(ctx context.Context, requester *auth.Identity, userID uint64) (*db.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := access.Allow(access.ResourceAccount, access.OpRead, requester, access.TargetOf(user)); err != nil {
		return nil, err
	}
	return user, nil
}

// List returns active accounts, excluding the requester's own row.
func (s *Service) List(ctx context.Context, requester *auth.Identity, search string) ([]db.User, error) {
	if err := access.Allow(access.ResourceAccount, access.OpList, requester, access.Target{}); err != nil {
		return nil, err
	}
	return s.userRepo.List(ctx, search, requester.UserID)
}

// UpdateInput is the self-service account update payload.
type UpdateInput struct {
	FirstName string
	LastName  string
	NickName  string
}

// UpdateMe updates the requester's own editable fields.
func (s *Service) UpdateMe(ctx context.Context, requester *auth.Identity, in UpdateInput) (*db.User, error) {
	if requester == nil {
		return nil, apperr.ErrUnauthenticated
	}

	user := &db.User{
		ID:        requester.UserID,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		NickName:  strings.TrimSpace(in.NickName),
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, requester.UserID)
}

// ChangeEmail switches the login email, deactivates the account and
// triggers an activation email so the new address is proven before the
// account is usable again. The two account updates commit together: a
// failed deactivation rolls the email switch back.
func (s *Service) ChangeEmail(ctx context.Context, requester *auth.Identity, newEmail string) error {
	if requester == nil {
		return apperr.ErrUnauthenticated
	}
	email := strings.ToLower(strings.TrimSpace(newEmail))
	if email == "" || !strings.Contains(email, "@") {
		return apperr.Invalid("a valid email is required")
	}

	if err := s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		if err := users.SetEmail(ctx, requester.UserID, email); err != nil {
			return err
		}
		return users.SetActive(ctx, requester.UserID, false)
	}); err != nil {
		return err
	}

	token := uuid.NewString()
	if err := s.appCtx.RedisCache.StoreToken(ctx, auth.EmailActivation, token, requester.UserID, s.resetTTL); err != nil {
		return err
	}
	return s.email.Send(ctx, auth.EmailActivation, email, token)
}

// Activate re-enables an account from an activation token.
func (s *Service) Activate(ctx context.Context, token string) error {
	userID, ok, err := s.appCtx.RedisCache.ConsumeToken(ctx, auth.EmailActivation, token)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrInvalidToken
	}
	return s.userRepo.SetActive(ctx, userID, true)
}

// RequestPasswordReset issues a one-shot reset token. Unknown emails
// are not revealed: the call succeeds without sending anything.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	token := uuid.NewString()
	if err := s.appCtx.RedisCache.StoreToken(ctx, auth.EmailPasswordReset, token, user.ID, s.resetTTL); err != nil {
		return err
	}
	return s.email.Send(ctx, auth.EmailPasswordReset, user.Email, token)
}

// ConfirmPasswordReset redeems a reset token and sets the new password.
func (s *Service) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return apperr.Invalid("password must be at least 8 characters")
	}

	userID, ok, err := s.appCtx.RedisCache.ConsumeToken(ctx, auth.EmailPasswordReset, token)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrInvalidToken
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.SetPasswordHash(ctx, userID, hash)
}

// Delete is permanently disabled for the public API.
func (s *Service) Delete(ctx context.Context, requester *auth.Identity, userID uint64) error {
	return access.Allow(access.ResourceAccount, access.OpDelete, requester, access.Target{OwnerUserID: userID})
}
