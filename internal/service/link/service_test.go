package link_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/qrtag/qrtag-api/internal/apperr"
	"github.com/qrtag/qrtag-api/internal/app"
	"github.com/qrtag/qrtag-api/internal/auth"
	"github.com/qrtag/qrtag-api/internal/cache"
	"github.com/qrtag/qrtag-api/internal/config"
	"github.com/qrtag/qrtag-api/internal/db"
	"github.com/qrtag/qrtag-api/internal/service/link"
)

type fixture struct {
	svc   *link.Service
	owner auth.Identity
	other auth.Identity
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, dbase.AutoMigrate(&db.User{}, &db.Profile{}, &db.SocialLink{}))

	owner := &db.User{Email: "owner@test.com", PasswordHash: "x", Active: true}
	other := &db.User{Email: "other@test.com", PasswordHash: "x", Active: true}
	require.NoError(t, dbase.Create(owner).Error)
	require.NoError(t, dbase.Create(other).Error)

	ownerProfile := &db.Profile{UserID: owner.ID, Code: 1, Public: true}
	otherProfile := &db.Profile{UserID: other.ID, Code: 2, Public: true}
	require.NoError(t, dbase.Create(ownerProfile).Error)
	require.NoError(t, dbase.Create(otherProfile).Error)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	redisCache := cache.NewRedisCache(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // discard logs in tests

	appCtx := app.New(dbase, redisCache, logger, "https://api.test")
	return &fixture{
		svc:   link.NewService(appCtx),
		owner: auth.Identity{UserID: owner.ID, ProfileID: ownerProfile.ID},
		other: auth.Identity{UserID: other.ID, ProfileID: otherProfile.ID},
	}
}

func TestCreateLinkDerivesMetadata(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	view, err := f.svc.Create(ctx, &f.owner, link.Input{URL: "https://www.instagram.com/me"})
	require.NoError(t, err)
	assert.Equal(t, "instagram.com", view.Domain)
	assert.Equal(t, "instagram", view.Icon)
	assert.True(t, view.Active) // active by default

	_, err = f.svc.Create(ctx, &f.owner, link.Input{URL: "not a url"})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestListReturnsOwnLinksOnly(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	_, err := f.svc.Create(ctx, &f.owner, link.Input{URL: "https://github.com/me"})
	require.NoError(t, err)
	inactive := false
	_, err = f.svc.Create(ctx, &f.owner, link.Input{URL: "https://x.com/me", Active: &inactive})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, &f.other, link.Input{URL: "https://t.me/them"})
	require.NoError(t, err)

	// the owner listing includes inactive links, but never other users'
	views, err := f.svc.List(ctx, &f.owner)
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestUpdateAndDeleteScopedToOwner(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	created, err := f.svc.Create(ctx, &f.owner, link.Input{URL: "https://github.com/me"})
	require.NoError(t, err)

	// a non-owner cannot even tell the link exists
	_, err = f.svc.Update(ctx, &f.other, created.ID, link.Input{URL: "https://github.com/hijack"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, &f.other, created.ID), apperr.ErrNotFound)

	inactive := false
	updated, err := f.svc.Update(ctx, &f.owner, created.ID, link.Input{Active: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Equal(t, "github.com", updated.Domain) // url untouched

	require.NoError(t, f.svc.Delete(ctx, &f.owner, created.ID))
	views, err := f.svc.List(ctx, &f.owner)
	require.NoError(t, err)
	assert.Empty(t, views)
}
