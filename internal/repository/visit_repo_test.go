package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qrtag/qrtag-api/internal/apperr"
	"github.com/qrtag/qrtag-api/internal/db"
	"github.com/qrtag/qrtag-api/internal/repository"
)

func seedVisit(t *testing.T, gdb *gorm.DB, visitorID, profileID uint64, at time.Time) *db.VisitLog {
	t.Helper()
	visit := &db.VisitLog{VisitorID: &visitorID, ProfileID: &profileID, CreatedAt: at}
	require.NoError(t, gdb.Create(visit).Error)
	return visit
}

func TestVisitCreateStartsVisible(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewVisitRepository(dbase)

	visitorID, profileID := uint64(1), uint64(2)
	visit := &db.VisitLog{
		VisitorID:       &visitorID,
		ProfileID:       &profileID,
		HideFromVisitor: true, // must be reset on create
	}
	require.NoError(t, repo.Create(ctx, visit))

	got, err := repo.GetByID(ctx, visit.ID)
	require.NoError(t, err)
	assert.False(t, got.HideFromVisitor)
	assert.False(t, got.HideFromProfile)
}

func TestVisitOrderingNewestFirstWithIDTieBreak(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewVisitRepository(dbase)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	old := seedVisit(t, dbase, 1, 9, base.Add(-time.Hour))
	tie1 := seedVisit(t, dbase, 1, 9, base)
	tie2 := seedVisit(t, dbase, 1, 9, base) // same instant, higher id

	visits, next, err := repo.ListByVisitor(ctx, 1, repository.TimeWindow{}, nil, 10)
	require.NoError(t, err)
	require.Len(t, visits, 3)
	assert.Nil(t, next)

	assert.Equal(t, tie2.ID, visits[0].ID)
	assert.Equal(t, tie1.ID, visits[1].ID)
	assert.Equal(t, old.ID, visits[2].ID)
}

func TestVisitHideIsPerSide(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewVisitRepository(dbase)

	visit := seedVisit(t, dbase, 1, 2, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, repo.HideFromProfile(ctx, visit.ID))
	// second call is a no-op, not an error
	require.NoError(t, repo.HideFromProfile(ctx, visit.ID))

	views, _, err := repo.ListByProfile(ctx, 2, repository.TimeWindow{}, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, views)

	// the visitor still sees their own trip
	visits, _, err := repo.ListByVisitor(ctx, 1, repository.TimeWindow{}, nil, 10)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, visit.ID, visits[0].ID)
}

func TestVisitTimeWindow(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewVisitRepository(dbase)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedVisit(t, dbase, 1, 9, base.Add(-2*time.Hour))
	mid := seedVisit(t, dbase, 1, 9, base.Add(-time.Hour))
	seedVisit(t, dbase, 1, 9, base)

	window := repository.TimeWindow{
		After:  base.Add(-90 * time.Minute),
		Before: base.Add(-30 * time.Minute),
	}
	visits, _, err := repo.ListByVisitor(ctx, 1, window, nil, 10)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, mid.ID, visits[0].ID)
}

func TestVisitPagination(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewVisitRepository(dbase)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []uint64
	for i := 0; i < 5; i++ {
		v := seedVisit(t, dbase, 1, 9, base.Add(time.Duration(i)*time.Minute))
		ids = append(ids, v.ID)
	}

	var got []uint64
	var token *string
	for {
		visits, next, err := repo.ListByVisitor(ctx, 1, repository.TimeWindow{}, token, 2)
		require.NoError(t, err)
		for _, v := range visits {
			got = append(got, v.ID)
		}
		if next == nil {
			break
		}
		token = next
	}

	// all five, newest first, no duplicates across pages
	require.Len(t, got, 5)
	for i, id := range got {
		assert.Equal(t, ids[4-i], id)
	}
}

func TestVisitInvalidPaginationToken(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewVisitRepository(dbase)

	bad := "not-a-token"
	_, _, err := repo.ListByVisitor(ctx, 1, repository.TimeWindow{}, &bad, 10)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}
