package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedTestData resets the database and populates it with demo users,
// profiles, links and visits.
//
// Behavior:
//  1. Clears existing rows in reverse dependency order.
//  2. Creates 12 users with sequential profile codes, plus one staff
//     account without a profile.
//  3. Gives every third profile a couple of social links.
//  4. Generates ~60 visits, roughly a quarter of them QR scans.
func SeedTestData(gdb *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, table := range []string{"visit_logs", "social_links", "profiles", "users"} {
		if err := gdb.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	log.Println("Cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	genders := []string{GenderMale, GenderFemale, GenderOther}

	var profiles []Profile
	for i := 1; i <= 12; i++ {
		user := User{
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			FirstName:    fmt.Sprintf("First%d", i),
			LastName:     fmt.Sprintf("Last%d", i),
			NickName:     fmt.Sprintf("nick%d", i),
			Active:       true,
			LastLoginAt:  time.Now().Add(-time.Duration(r.Intn(500)) * time.Hour),
		}
		if err := gdb.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}

		dob := time.Date(1980+r.Intn(25), time.Month(1+r.Intn(12)), 1+r.Intn(28), 0, 0, 0, 0, time.UTC)
		profile := Profile{
			UserID:      user.ID,
			Code:        uint64(i),
			Gender:      genders[i%len(genders)],
			Bio:         fmt.Sprintf("Demo bio for user %d", i),
			City:        "Cairo",
			Country:     "Egypt",
			DateOfBirth: &dob,
			Public:      i%5 != 0, // a few non-public profiles
		}
		if err := gdb.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to seed profile: %w", err)
		}
		profiles = append(profiles, profile)

		if i%3 == 0 {
			links := []SocialLink{
				{ProfileID: profile.ID, URL: fmt.Sprintf("https://www.github.com/user%d", i), Active: true},
				{ProfileID: profile.ID, URL: fmt.Sprintf("https://www.instagram.com/user%d", i), Active: i%2 == 0},
			}
			if err := gdb.Create(&links).Error; err != nil {
				return fmt.Errorf("failed to seed links: %w", err)
			}
		}
	}

	staff := User{
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		FirstName:    "Admin",
		Active:       true,
		Staff:        true,
		Superuser:    true,
	}
	if err := gdb.Create(&staff).Error; err != nil {
		return fmt.Errorf("failed to seed staff user: %w", err)
	}
	log.Println("Seeded 13 users (1 staff, no profile).")

	for n := 0; n < 60; n++ {
		visitor := profiles[r.Intn(len(profiles))]
		visited := profiles[r.Intn(len(profiles))]
		if visitor.UserID == visited.UserID {
			continue
		}

		visit := VisitLog{
			VisitorID: &visitor.UserID,
			ProfileID: &visited.ID,
			Scanned:   r.Intn(4) == 0,
		}
		if err := gdb.Create(&visit).Error; err != nil {
			return fmt.Errorf("failed to seed visit: %w", err)
		}
	}
	log.Println("Seeded visits.")

	return nil
}
