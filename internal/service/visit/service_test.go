package visit_test

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
	"github.com/qrtag/qrtag-api/internal/repository"
	"github.com/qrtag/qrtag-api/internal/serialize"
	"github.com/qrtag/qrtag-api/internal/service/visit"
)

//
// Test helpers
//

type fixture struct {
	svc      *visit.Service
	db       *gorm.DB
	alice    auth.Identity // profile owner and frequent visitor
	bob      auth.Identity
	aliceQR  uint64 // alice's profile code
	alicePID uint64
	bobPID   uint64
}

// setupFixture spins up an in-memory SQLite DB, applies migrations,
// seeds two users with profiles, starts a miniredis, and wires
// everything into a visit Service instance.
//
// Each test gets its own isolated DB + Redis.
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

	require.NoError(t, dbase.AutoMigrate(&db.User{}, &db.Profile{}, &db.SocialLink{}, &db.VisitLog{}))

	alice := &db.User{Email: "alice@test.com", PasswordHash: "x", FirstName: "Alice", Active: true}
	bob := &db.User{Email: "bob@test.com", PasswordHash: "x", FirstName: "Bob", Active: true}
	require.NoError(t, dbase.Create(alice).Error)
	require.NoError(t, dbase.Create(bob).Error)

	aliceProfile := &db.Profile{UserID: alice.ID, Code: 1, Public: true}
	bobProfile := &db.Profile{UserID: bob.ID, Code: 2, Public: true}
	require.NoError(t, dbase.Create(aliceProfile).Error)
	require.NoError(t, dbase.Create(bobProfile).Error)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	redisCache := cache.NewRedisCache(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // discard logs in tests

	appCtx := app.New(dbase, redisCache, logger, "https://api.test")
	return &fixture{
		svc:      visit.NewService(appCtx),
		db:       dbase,
		alice:    auth.Identity{UserID: alice.ID, ProfileID: aliceProfile.ID},
		bob:      auth.Identity{UserID: bob.ID, ProfileID: bobProfile.ID},
		aliceQR:  aliceProfile.Code,
		alicePID: aliceProfile.ID,
		bobPID:   bobProfile.ID,
	}
}

func visitIDs(page visit.Page) []uint64 {
	ids := make([]uint64, 0, len(page.Visits))
	for _, v := range page.Visits {
		ids = append(ids, v.ID)
	}
	return ids
}

//
// Tests
//

func TestRecordVisit(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	view, err := f.svc.Record(ctx, &f.alice, f.bobPID, false)
	require.NoError(t, err)
	assert.NotZero(t, view.ID)
	assert.False(t, view.Scanned)

	// without expansion the parties render as plain IDs
	assert.Equal(t, f.alice.UserID, view.Visitor)
	assert.Equal(t, f.bobPID, view.Profile)
}

func TestRecordSelfVisitRejected(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	_, err := f.svc.Record(ctx, &f.alice, f.alicePID, false)
	assert.ErrorIs(t, err, apperr.ErrInvalidVisit)

	var count int64
	f.db.Model(&db.VisitLog{}).Count(&count)
	assert.Zero(t, count) // nothing was logged
}

func TestRecordByCodeMarksScanned(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	view, err := f.svc.RecordByCode(ctx, &f.bob, f.aliceQR)
	require.NoError(t, err)
	assert.True(t, view.Scanned)
	assert.Equal(t, f.alicePID, view.Profile)

	_, err = f.svc.RecordByCode(ctx, &f.bob, 99999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRecordRequiresProfile(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	// staff accounts have no profile and cannot generate visits
	staff := auth.Identity{UserID: 42, Staff: true}
	_, err := f.svc.Record(ctx, &staff, f.bobPID, false)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	_, err = f.svc.Record(ctx, nil, f.bobPID, false)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

// TestHideByOwner covers the visited side: after the profile owner
// hides the row it disappears from their views listing but stays in
// the visitor's own history.
func TestHideByOwner(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	view, err := f.svc.Record(ctx, &f.alice, f.bobPID, false)
	require.NoError(t, err)

	require.NoError(t, f.svc.Hide(ctx, &f.bob, view.ID))
	// hiding twice is a no-op
	require.NoError(t, f.svc.Hide(ctx, &f.bob, view.ID))

	views, err := f.svc.MyViews(ctx, &f.bob, repository.TimeWindow{}, nil, serialize.Expansions{})
	require.NoError(t, err)
	assert.Empty(t, views.Visits)

	visits, err := f.svc.MyVisits(ctx, &f.alice, repository.TimeWindow{}, nil, serialize.Expansions{})
	require.NoError(t, err)
	assert.Equal(t, []uint64{view.ID}, visitIDs(visits))
}

func TestHideByVisitor(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	view, err := f.svc.Record(ctx, &f.alice, f.bobPID, false)
	require.NoError(t, err)

	require.NoError(t, f.svc.Hide(ctx, &f.alice, view.ID))

	visits, err := f.svc.MyVisits(ctx, &f.alice, repository.TimeWindow{}, nil, serialize.Expansions{})
	require.NoError(t, err)
	assert.Empty(t, visits.Visits)

	// the visited side still sees the row
	views, err := f.svc.MyViews(ctx, &f.bob, repository.TimeWindow{}, nil, serialize.Expansions{})
	require.NoError(t, err)
	assert.Equal(t, []uint64{view.ID}, visitIDs(views))
}

func TestHideByStrangerDenied(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	view, err := f.svc.Record(ctx, &f.alice, f.bobPID, false)
	require.NoError(t, err)

	stranger := auth.Identity{UserID: 9999, ProfileID: 9999}
	err = f.svc.Hide(ctx, &stranger, view.ID)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
}

func TestListingsWithExpansion(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	_, err := f.svc.Record(ctx, &f.alice, f.bobPID, false)
	require.NoError(t, err)

	views, err := f.svc.MyViews(ctx, &f.bob, repository.TimeWindow{}, nil, serialize.ParseExpansions("visitor"))
	require.NoError(t, err)
	require.Len(t, views.Visits, 1)

	visitor, ok := views.Visits[0].Visitor.(*serialize.UserView)
	require.True(t, ok, "visitor should be inlined")
	assert.Equal(t, "Alice", visitor.FirstName)
}

func TestDeleteDisabledForEveryone(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	view, err := f.svc.Record(ctx, &f.alice, f.bobPID, false)
	require.NoError(t, err)

	admin := auth.Identity{UserID: 1, Staff: true, Superuser: true}
	assert.ErrorIs(t, f.svc.Delete(ctx, &f.alice, view.ID), apperr.ErrMethodNotAllowed)
	assert.ErrorIs(t, f.svc.Delete(ctx, &admin, view.ID), apperr.ErrMethodNotAllowed)
	assert.ErrorIs(t, f.svc.Delete(ctx, nil, view.ID), apperr.ErrMethodNotAllowed)
}
