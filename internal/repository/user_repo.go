package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qrtag/qrtag-api/internal/apperr"
	"github.com/qrtag/qrtag-api/internal/db"
)

// UserRepository provides data access for account rows.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Create inserts a new user. A duplicate email is reported as
// apperr.ErrEmailTaken (the unique index is the guard).
func (r *UserRepository) Create(ctx context.Context, user *db.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil && isDuplicateKey(err) {
		return apperr.ErrEmailTaken
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update persists self-editable account fields.
func (r *UserRepository) Update(ctx context.Context, user *db.User) error {
	return r.db.WithContext(ctx).
		Model(&db.User{ID: user.ID}).
		Select("first_name", "last_name", "nick_name").
		Updates(user).Error
}

// SetEmail changes the login email. Duplicates map to ErrEmailTaken.
func (r *UserRepository) SetEmail(ctx context.Context, id uint64, email string) error {
	err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Update("email", email).Error
	if err != nil && isDuplicateKey(err) {
		return apperr.ErrEmailTaken
	}
	return err
}

// SetActive toggles the account's active flag.
func (r *UserRepository) SetActive(ctx context.Context, id uint64, active bool) error {
	return r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Update("active", active).Error
}

// SetPasswordHash replaces the stored credential hash.
func (r *UserRepository) SetPasswordHash(ctx context.Context, id uint64, hash string) error {
	return r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}

// TouchLastLogin stamps a successful login.
func (r *UserRepository) TouchLastLogin(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Update("last_login_at", time.Now().UTC()).Error
}

// List returns active users, optionally filtered by a search term over
// names and email, excluding the requesting user when excludeID > 0.
func (r *UserRepository) List(ctx context.Context, search string, excludeID uint64) ([]db.User, error) {
	query := r.db.WithContext(ctx).Where("active = ?", true)

	if search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"first_name LIKE ? OR last_name LIKE ? OR nick_name LIKE ? OR email LIKE ?",
			like, like, like, like,
		)
	}
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var users []db.User
	err := query.Order("id ASC").Find(&users).Error
	return users, err
}
