package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qrtag/qrtag-api/internal/access"
	"github.com/qrtag/qrtag-api/internal/apperr"
	"github.com/qrtag/qrtag-api/internal/auth"
	"github.com/qrtag/qrtag-api/internal/db"
)

func ident(userID, profileID uint64) *auth.Identity {
	return &auth.Identity{UserID: userID, ProfileID: profileID}
}

func TestDeleteAlwaysDisabled(t *testing.T) {
	owner := ident(1, 10)
	admin := &auth.Identity{UserID: 2, Staff: true}

	for _, res := range []access.Resource{
		access.ResourceProfile, access.ResourceVisitLog, access.ResourceAccount,
	} {
		for _, requester := range []*auth.Identity{nil, owner, admin} {
			err := access.Allow(res, access.OpDelete, requester, access.Target{OwnerUserID: 1})
			assert.ErrorIs(t, err, apperr.ErrMethodNotAllowed)
		}
	}
}

func TestProfileRead(t *testing.T) {
	// public profile readable by anyone, including anonymous
	err := access.Allow(access.ResourceProfile, access.OpRead, nil, access.Target{OwnerUserID: 1, Public: true})
	assert.NoError(t, err)

	// non-public profile hidden from strangers, indistinguishable from absent
	err = access.Allow(access.ResourceProfile, access.OpRead, ident(2, 20), access.Target{OwnerUserID: 1, Public: false})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// owner always reads their own
	err = access.Allow(access.ResourceProfile, access.OpRead, ident(1, 10), access.Target{OwnerUserID: 1, Public: false})
	assert.NoError(t, err)
}

func TestProfileUpdateOwnerOnly(t *testing.T) {
	err := access.Allow(access.ResourceProfile, access.OpUpdate, ident(2, 20), access.Target{OwnerUserID: 1})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = access.Allow(access.ResourceProfile, access.OpUpdate, nil, access.Target{OwnerUserID: 1})
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	err = access.Allow(access.ResourceProfile, access.OpUpdate, ident(1, 10), access.Target{OwnerUserID: 1})
	assert.NoError(t, err)
}

func TestSocialLinkScopedToOwner(t *testing.T) {
	link := &db.SocialLink{ProfileID: 10, Profile: db.Profile{ID: 10, UserID: 1}}
	target := access.TargetOf(link)

	assert.NoError(t, access.Allow(access.ResourceSocialLink, access.OpUpdate, ident(1, 10), target))
	assert.NoError(t, access.Allow(access.ResourceSocialLink, access.OpDelete, ident(1, 10), target))

	err := access.Allow(access.ResourceSocialLink, access.OpRead, ident(2, 20), target)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestVisitLogParties(t *testing.T) {
	target := access.Target{OwnerUserID: 2, VisitorUserID: 1}

	// both the visitor and the visited profile's owner may act
	assert.NoError(t, access.Allow(access.ResourceVisitLog, access.OpUpdate, ident(1, 10), target))
	assert.NoError(t, access.Allow(access.ResourceVisitLog, access.OpUpdate, ident(2, 20), target))

	// a third party may not
	err := access.Allow(access.ResourceVisitLog, access.OpUpdate, ident(3, 30), target)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
}

func TestVisitCreateRequiresProfile(t *testing.T) {
	// staff accounts have no profile and cannot record visits
	staff := &auth.Identity{UserID: 5, Staff: true}
	err := access.Allow(access.ResourceVisitLog, access.OpCreate, staff, access.Target{})
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	err = access.Allow(access.ResourceVisitLog, access.OpCreate, nil, access.Target{})
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	assert.NoError(t, access.Allow(access.ResourceVisitLog, access.OpCreate, ident(1, 10), access.Target{}))
}

func TestAccountSelfOrAdmin(t *testing.T) {
	admin := &auth.Identity{UserID: 9, Staff: true}

	assert.NoError(t, access.Allow(access.ResourceAccount, access.OpRead, ident(1, 10), access.Target{OwnerUserID: 1}))
	assert.NoError(t, access.Allow(access.ResourceAccount, access.OpRead, admin, access.Target{OwnerUserID: 1}))

	err := access.Allow(access.ResourceAccount, access.OpRead, ident(2, 20), access.Target{OwnerUserID: 1})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestInfoOpenToAnonymous(t *testing.T) {
	assert.NoError(t, access.Allow(access.ResourceInfo, access.OpList, nil, access.Target{}))
	assert.NoError(t, access.Allow(access.ResourceInfo, access.OpCreate, nil, access.Target{}))
}
