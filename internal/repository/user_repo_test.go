package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrtag/qrtag-api/internal/apperr"
	"github.com/qrtag/qrtag-api/internal/db"
	"github.com/qrtag/qrtag-api/internal/repository"
)

func TestCreateUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewUserRepository(dbase)

	require.NoError(t, repo.Create(ctx, &db.User{Email: "dup@test.com", PasswordHash: "x", Active: true}))

	err := repo.Create(ctx, &db.User{Email: "dup@test.com", PasswordHash: "y", Active: true})
	assert.ErrorIs(t, err, apperr.ErrEmailTaken)
}

func TestUserListSearchAndExclusion(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewUserRepository(dbase)

	alice := &db.User{Email: "alice@test.com", PasswordHash: "x", FirstName: "Alice", Active: true}
	bob := &db.User{Email: "bob@test.com", PasswordHash: "x", FirstName: "Bob", Active: true}
	gone := &db.User{Email: "gone@test.com", PasswordHash: "x", FirstName: "Alicia", Active: false}
	require.NoError(t, repo.Create(ctx, alice))
	require.NoError(t, repo.Create(ctx, bob))
	require.NoError(t, repo.Create(ctx, gone))

	// search matches alice only: inactive is out, bob does not match
	users, err := repo.List(ctx, "Ali", 0)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, alice.ID, users[0].ID)

	// requester never sees their own row
	users, err = repo.List(ctx, "", alice.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, bob.ID, users[0].ID)
}

func TestSocialLinkListActiveOnly(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	linkRepo := repository.NewSocialLinkRepository(dbase)
	profileRepo := repository.NewProfileRepository(dbase)

	user := createUser(t, dbase, "links@test.com", true)
	profile := &db.Profile{UserID: user.ID}
	require.NoError(t, profileRepo.CreateWithCode(ctx, profile))

	require.NoError(t, linkRepo.Create(ctx, &db.SocialLink{ProfileID: profile.ID, URL: "https://github.com/a", Active: true}))
	require.NoError(t, linkRepo.Create(ctx, &db.SocialLink{ProfileID: profile.ID, URL: "https://x.com/a", Active: false}))

	all, err := linkRepo.ListByProfile(ctx, profile.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := linkRepo.ListByProfile(ctx, profile.ID, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "https://github.com/a", active[0].URL)
}
