// Package serialize builds the client-facing representations of stored
// entities. Related entities are inlined only when explicitly
// requested via expansions; system-computed fields (ids, owner refs,
// code, age, timestamps) exist only here, never on update payloads.
package serialize

import (
	"strings"
	"time"

	"github.com/qrtag/qrtag-api/internal/db"
	"github.com/qrtag/qrtag-api/internal/linkmeta"
)

// Default image paths substituted when a profile has none uploaded.
const (
	defaultImageMale    = "/static/defaults/avatar-male.png"
	defaultImageFemale  = "/static/defaults/avatar-female.png"
	defaultImageGeneric = "/static/defaults/avatar.png"
	defaultCover        = "/static/defaults/cover.png"
)

// Options carries per-request serialization context.
type Options struct {
	BaseURL string    // absolute base for default asset URLs
	Now     time.Time // age reference; zero means time.Now
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now().UTC()
	}
	return o.Now
}

// UserView is the client representation of an account.
type UserView struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	NickName  string `json:"nick_name"`
	Active    bool   `json:"active"`
	// Profile is the profile ID, or an inlined ProfileView when the
	// `profile` expansion was requested.
	Profile   any       `json:"profile"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileView is the client representation of a profile.
type ProfileView struct {
	ID           uint64 `json:"id"`
	Position     string `json:"position"`
	Bio          string `json:"bio"`
	PhoneNumber1 string `json:"phone_number_1"`
	PhoneNumber2 string `json:"phone_number_2"`
	City         string `json:"city"`
	Country      string `json:"country"`
	Address      string `json:"address"`
	Image        string `json:"image"`
	Cover        string `json:"cover"`
	Code         uint64 `json:"code"`
	Gender       string `json:"gender"`
	Age          int    `json:"age"`
	Public       bool   `json:"public"`
	// User is the owning account ID, or an inlined UserView when the
	// `user` expansion was requested.
	User any `json:"user"`
	// Links is present only with the `links` expansion; inactive links
	// are never included.
	Links     []LinkView `json:"links,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// LinkView is the client representation of a social link. Domain and
// icon are derived from the URL, never stored.
type LinkView struct {
	ID     uint64 `json:"id"`
	URL    string `json:"url"`
	Domain string `json:"domain"`
	Icon   string `json:"icon"`
	Active bool   `json:"active"`
}

// VisitView is the client representation of a visit log row.
type VisitView struct {
	ID uint64 `json:"id"`
	// Visitor/Profile are IDs (null when anonymized), or inlined views
	// with the `visitor`/`profile` expansions.
	Visitor   any       `json:"visitor"`
	Profile   any       `json:"profile"`
	Scanned   bool      `json:"is_scanned"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserView builds the account representation. profile may be nil
// (staff accounts); it is inlined only with the `profile` expansion.
func NewUserView(user *db.User, profile *db.Profile, expand Expansions, opts Options) UserView {
	view := UserView{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		NickName:  user.NickName,
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
	}

	if profile != nil {
		if expand.Has("profile") {
			pv := NewProfileView(profile, nil, Expansions{}, opts)
			view.Profile = &pv
		} else {
			view.Profile = profile.ID
		}
	}

	return view
}

// NewProfileView builds the profile representation.
//
// Behavior:
//   - Unset image/cover get gender-appropriate default URLs, absolute
//     against opts.BaseURL.
//   - Age is derived from the birth date at opts.Now.
//   - `user` expansion inlines the owning account; otherwise the
//     account renders as its ID.
//   - links are attached only when the caller fetched them for the
//     `links` expansion.
func NewProfileView(profile *db.Profile, links []db.SocialLink, expand Expansions, opts Options) ProfileView {
	view := ProfileView{
		ID:           profile.ID,
		Position:     profile.Position,
		Bio:          profile.Bio,
		PhoneNumber1: profile.PhoneNumber1,
		PhoneNumber2: profile.PhoneNumber2,
		City:         profile.City,
		Country:      profile.Country,
		Address:      profile.Address,
		Image:        imageOrDefault(profile.Image, defaultImageFor(profile.Gender), opts),
		Cover:        imageOrDefault(profile.Cover, defaultCover, opts),
		Code:         profile.Code,
		Gender:       profile.Gender,
		Age:          profile.Age(opts.now()),
		Public:       profile.Public,
		User:         profile.UserID,
		CreatedAt:    profile.CreatedAt,
		UpdatedAt:    profile.UpdatedAt,
	}

	if expand.Has("user") && profile.User.ID != 0 {
		uv := NewUserView(&profile.User, nil, Expansions{}, opts)
		view.User = &uv
	}

	if expand.Has("links") {
		view.Links = NewLinkViews(links)
	}

	return view
}

// NewLinkView derives domain and icon for one link.
func NewLinkView(link *db.SocialLink) LinkView {
	domain, err := linkmeta.HostnameFromURL(link.URL)
	if err != nil {
		domain = ""
	}
	return LinkView{
		ID:     link.ID,
		URL:    link.URL,
		Domain: domain,
		Icon:   linkmeta.IconForDomain(domain),
		Active: link.Active,
	}
}

// NewLinkViews maps a slice of links. Always returns a non-nil slice
// so expanded responses render [] rather than null.
func NewLinkViews(links []db.SocialLink) []LinkView {
	views := make([]LinkView, 0, len(links))
	for i := range links {
		views = append(views, NewLinkView(&links[i]))
	}
	return views
}

// NewVisitView builds the visit representation. visitor/profile are
// the preloaded parties, used only when their expansion is requested.
func NewVisitView(visit *db.VisitLog, visitor *db.User, profile *db.Profile, expand Expansions, opts Options) VisitView {
	view := VisitView{
		ID:        visit.ID,
		Scanned:   visit.Scanned,
		CreatedAt: visit.CreatedAt,
	}

	if visit.VisitorID != nil {
		if expand.Has("visitor") && visitor != nil {
			uv := NewUserView(visitor, nil, Expansions{}, opts)
			view.Visitor = &uv
		} else {
			view.Visitor = *visit.VisitorID
		}
	}

	if visit.ProfileID != nil {
		if expand.Has("profile") && profile != nil {
			pv := NewProfileView(profile, nil, Expansions{}, opts)
			view.Profile = &pv
		} else {
			view.Profile = *visit.ProfileID
		}
	}

	return view
}

// imageOrDefault substitutes the default asset path, made absolute
// against the request base URL, when no image is set. Uploaded images
// are stored as absolute URLs already.
func imageOrDefault(image, fallback string, opts Options) string {
	if image != "" {
		return image
	}
	return strings.TrimRight(opts.BaseURL, "/") + fallback
}

func defaultImageFor(gender string) string {
	switch gender {
	case db.GenderMale:
		return defaultImageMale
	case db.GenderFemale:
		return defaultImageFemale
	default:
		return defaultImageGeneric
	}
}
