// Package access implements the per-resource, per-operation
// authorization table. Every handler consults Allow before touching
// storage; disabled operations (deletes on accounts, profiles and
// visit logs) are rejected here and never reach a repository.
package access

import (
	"github.com/qrtag/qrtag-api/internal/apperr"
	"github.com/qrtag/qrtag-api/internal/auth"
)

type Resource int

const (
	ResourceProfile Resource = iota
	ResourceSocialLink
	ResourceVisitLog
	ResourceAccount
	ResourceInfo
)

type Operation int

const (
	OpRead Operation = iota
	OpList
	OpCreate
	OpUpdate
	OpDelete
)

// Ownable exposes the owning account of a resource row. Profile,
// SocialLink and User implement it; VisitLog is dual-party and its
// hide operation resolves the requester's side in the visit service.
type Ownable interface {
	OwnerUserID() uint64
}

// Target describes the resource instance under evaluation. For list
// and create operations the zero Target is used.
type Target struct {
	OwnerUserID   uint64 // owning account, 0 when not applicable
	VisitorUserID uint64 // visit logs only
	Public        bool   // profile visibility
}

// TargetOf builds a Target from any Ownable row.
func TargetOf(o Ownable) Target {
	return Target{OwnerUserID: o.OwnerUserID()}
}

type rule func(requester *auth.Identity, target Target) error

// table is the closed permission matrix. Missing entries deny.
var table = map[Resource]map[Operation]rule{
	ResourceProfile: {
		OpRead:   publicOrOwner,
		OpList:   anyone, // listings expose public profiles only
		OpUpdate: ownerOnly,
		OpDelete: disabled,
	},
	ResourceSocialLink: {
		OpRead:   ownerOnly,
		OpList:   requireProfile,
		OpCreate: requireProfile,
		OpUpdate: ownerOnly,
		OpDelete: ownerOnly,
	},
	ResourceVisitLog: {
		OpRead:   visitParty,
		OpList:   requireProfile,
		OpCreate: requireProfile,
		OpUpdate: visitParty, // hide flags only
		OpDelete: disabled,
	},
	ResourceAccount: {
		OpRead:   selfOrAdmin,
		OpList:   requireProfile,
		OpUpdate: selfOrAdmin,
		OpDelete: disabled,
	},
	ResourceInfo: {
		OpRead:   anyone,
		OpList:   anyone,
		OpCreate: anyone, // contact form
	},
}

// Allow evaluates the table for one operation. requester is nil for
// anonymous callers.
func Allow(res Resource, op Operation, requester *auth.Identity, target Target) error {
	ops, ok := table[res]
	if !ok {
		return apperr.ErrPermissionDenied
	}
	r, ok := ops[op]
	if !ok {
		return apperr.ErrMethodNotAllowed
	}
	return r(requester, target)
}

func anyone(_ *auth.Identity, _ Target) error { return nil }

func disabled(_ *auth.Identity, _ Target) error {
	// permanently closed, regardless of role
	return apperr.ErrMethodNotAllowed
}

func requireProfile(requester *auth.Identity, _ Target) error {
	if requester == nil {
		return apperr.ErrUnauthenticated
	}
	if !requester.HasProfile() {
		return apperr.ErrPermissionDenied
	}
	return nil
}

func ownerOnly(requester *auth.Identity, target Target) error {
	if requester == nil {
		return apperr.ErrUnauthenticated
	}
	if requester.UserID != target.OwnerUserID {
		// indistinguishable from a missing resource
		return apperr.ErrNotFound
	}
	return nil
}

func publicOrOwner(requester *auth.Identity, target Target) error {
	if target.Public {
		return nil
	}
	return ownerOnly(requester, target)
}

func visitParty(requester *auth.Identity, target Target) error {
	if requester == nil {
		return apperr.ErrUnauthenticated
	}
	if requester.UserID == target.OwnerUserID || requester.UserID == target.VisitorUserID {
		return nil
	}
	return apperr.ErrPermissionDenied
}

func selfOrAdmin(requester *auth.Identity, target Target) error {
	if requester == nil {
		return apperr.ErrUnauthenticated
	}
	if requester.Admin() || requester.UserID == target.OwnerUserID {
		return nil
	}
	return apperr.ErrNotFound
}
