// Package user holds marketplace accounts and their credential rules.
package user

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kailas-cloud/gigmarket/internal/domain"
)

// User is a marketplace account. PasswordHash never leaves the service layer.
type User struct {
	ID             uint
	Email          string
	PasswordHash   string
	Username       string
	FullName       string
	Description    string
	ProfileImage   string
	ProfileInfoSet bool
	EmailConfirmed bool
	CreatedAt      time.Time
}

// DisplayName prefers the full name, then the username.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

var (
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,30}$`)
)

// Password rule messages are shown to clients as is.
const (
	msgEmailPasswordRequired = "Email and Password Required."
	msgInvalidEmail          = "Please provide a valid email address."
	msgWeakPassword          = "Your password must be at least 8 characters long, containing at least one letter and one number."
)

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateCredentials checks sign-up input. email must already be normalized.
func ValidateCredentials(email, password string) error {
	if email == "" || password == "" {
		return domain.NewValidation(msgEmailPasswordRequired)
	}
	if !emailRegex.MatchString(email) {
		return domain.NewValidation(msgInvalidEmail)
	}
	if !StrongPassword(password) {
		return domain.NewValidation(msgWeakPassword)
	}
	return nil
}

// StrongPassword reports whether password has at least 8 characters, a letter
// and a digit, and only letters, digits and @$!%*?&.
func StrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var letter, digit bool
	for _, c := range password {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			letter = true
		case c >= '0' && c <= '9':
			digit = true
		case strings.ContainsRune("@$!%*?&", c):
		default:
			return false
		}
	}
	return letter && digit
}

// Profile is the public part of an account a user edits.
type Profile struct {
	username     string
	fullName     string
	description  string
	profileImage string
}

// NewProfile validates profile input.
// Username: 3-30 of [a-zA-Z0-9_.]. Full name: required, max 100 characters.
// Description: max 2000 characters.
func NewProfile(username, fullName, description, profileImage string) (Profile, error) {
	username = strings.TrimSpace(username)
	fullName = strings.TrimSpace(fullName)
	description = strings.TrimSpace(description)

	if !usernameRegex.MatchString(username) {
		return Profile{}, domain.NewValidation("username must be 3-30 letters, digits, underscores or dots")
	}
	if fullName == "" {
		return Profile{}, domain.NewValidation("full name is required")
	}
	if utf8.RuneCountInString(fullName) > 100 {
		return Profile{}, domain.NewValidation("full name too long (max 100)")
	}
	if utf8.RuneCountInString(description) > 2000 {
		return Profile{}, domain.NewValidation("description too long (max 2000)")
	}
	return Profile{
		username:     username,
		fullName:     fullName,
		description:  description,
		profileImage: strings.TrimSpace(profileImage),
	}, nil
}

// Username returns the unique handle.
func (p Profile) Username() string { return p.username }

// FullName returns the display name.
func (p Profile) FullName() string { return p.fullName }

// Description returns the bio.
func (p Profile) Description() string { return p.description }

// ProfileImage returns the image reference.
func (p Profile) ProfileImage() string { return p.profileImage }
