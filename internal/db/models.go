package db

import (
	"time"
)

// Gender values stored on Profile. Mirrors the single-letter codes the
// mobile clients already send.
const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderOther  = "O"
)

// User table. Email is the login credential. Staff/superuser accounts
// never get a profile.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	FirstName    string `gorm:"size:150"`
	LastName     string `gorm:"size:150"`
	NickName     string `gorm:"size:150"`
	Active       bool
	Staff        bool
	Superuser    bool
	LastLoginAt  time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Profile is the public persona bound 1:1 to a User.
//
// Code is the QR identifier. The unique index on it is the source of
// truth for uniqueness; the allocator in the repository layer only
// proposes candidates and retries on conflict.
type Profile struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	UserID       uint64 `gorm:"uniqueIndex;not null"`
	User         User   `gorm:"constraint:OnDelete:CASCADE"`
	Position     string `gorm:"size:100"`
	Bio          string `gorm:"type:text"`
	PhoneNumber1 string `gorm:"size:32"`
	PhoneNumber2 string `gorm:"size:32"`
	City         string `gorm:"size:200"`
	Country      string `gorm:"size:200"`
	Address      string `gorm:"size:200"`
	Image        string `gorm:"size:500"`
	Cover        string `gorm:"size:500"`
	Code         uint64 `gorm:"uniqueIndex;not null"`
	Gender       string `gorm:"size:1;default:M"`
	DateOfBirth  *time.Time
	Public       bool
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Age derives the profile owner's age at the given date. Zero when no
// birth date is set.
func (p *Profile) Age(at time.Time) int {
	if p.DateOfBirth == nil {
		return 0
	}
	dob := *p.DateOfBirth
	age := at.Year() - dob.Year()
	if at.Month() < dob.Month() || (at.Month() == dob.Month() && at.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// OwnerUserID implements the access layer's Ownable contract.
func (p *Profile) OwnerUserID() uint64 { return p.UserID }

// SocialLink is an external link owned by a profile. Domain and icon
// are derived from URL at serialization time, never stored.
type SocialLink struct {
	ID        uint64  `gorm:"primaryKey;autoIncrement"`
	ProfileID uint64  `gorm:"index;not null"`
	Profile   Profile `gorm:"constraint:OnDelete:CASCADE"`
	URL       string  `gorm:"size:500;not null"`
	Active    bool
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// OwnerUserID implements the access layer's Ownable contract.
// Requires Profile to be preloaded.
func (l *SocialLink) OwnerUserID() uint64 { return l.Profile.UserID }

// VisitLog records one user viewing another's profile.
//
// Rows are immutable except for the two hide flags, each settable only
// by the party it belongs to. Visitor/profile references are nullable
// so logs survive account anonymization.
//
// Indexes:
//   - idx_visits_visitor_created(visitor_id, created_at DESC)
//     "my visits" listing.
//   - idx_visits_profile_created(profile_id, created_at DESC)
//     "my views" listing.
type VisitLog struct {
	ID              uint64  `gorm:"primaryKey;autoIncrement"`
	VisitorID       *uint64 `gorm:"index:idx_visits_visitor_created,priority:1"`
	ProfileID       *uint64 `gorm:"index:idx_visits_profile_created,priority:1"`
	Scanned         bool
	HideFromVisitor bool
	HideFromProfile bool
	CreatedAt       time.Time `gorm:"autoCreateTime;index:idx_visits_visitor_created,priority:2,sort:desc;index:idx_visits_profile_created,priority:2,sort:desc"`
}

// OwnerUserID implements the access layer's Ownable contract.
func (u *User) OwnerUserID() uint64 { return u.ID }

// --- informational content (admin-managed, no interaction with the core) ---

type MainInfo struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Facebook  string `gorm:"size:500"`
	Instagram string `gorm:"size:500"`
	Twitter   string `gorm:"size:500"`
	Telegram  string `gorm:"size:500"`
	Email     string `gorm:"size:128"`
	Whatsapp  string `gorm:"size:32"`
	WhyUs     string `gorm:"type:text"`
}

type FAQ struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	Quote  string `gorm:"size:1000;not null"`
	Answer string `gorm:"type:text;not null"`
}

type AboutUs struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	Title       string `gorm:"size:500;not null"`
	Description string `gorm:"type:text;not null"`
}

type TermsOfService struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	Title       string `gorm:"size:500;not null"`
	Description string `gorm:"type:text;not null"`
}

type CookiePolicy struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	Title       string `gorm:"size:500;not null"`
	Description string `gorm:"type:text;not null"`
}

type PrivacyPolicy struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	Title       string `gorm:"size:500;not null"`
	Description string `gorm:"type:text;not null"`
}

type ContactMessage struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	FirstName   string `gorm:"size:120"`
	LastName    string `gorm:"size:120"`
	Email       string `gorm:"size:128;not null"`
	PhoneNumber string `gorm:"size:32"`
	Subject     string `gorm:"size:250;not null"`
	Message     string `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

type HeaderImage struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Alt       string `gorm:"size:250"`
	Image     string `gorm:"size:500;not null"`
	Active    bool
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
