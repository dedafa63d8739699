package user

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/gigmarket/internal/domain"
)

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ada@Example.COM "); got != "ada@example.com" {
		t.Errorf("got %q", got)
	}
}

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantMsg  string
	}{
		{"ok", "ada@example.com", "abcdef12", ""},
		{"ok with specials", "ada@example.com", "abc@def$12", ""},
		{"missing email", "", "abcdef12", msgEmailPasswordRequired},
		{"missing password", "ada@example.com", "", msgEmailPasswordRequired},
		{"bad email", "ada.example.com", "abcdef12", msgInvalidEmail},
		{"email with space", "ada @example.com", "abcdef12", msgInvalidEmail},
		{"short password", "ada@example.com", "abc12", msgWeakPassword},
		{"no digit", "ada@example.com", "abcdefgh", msgWeakPassword},
		{"no letter", "ada@example.com", "12345678", msgWeakPassword},
		{"disallowed char", "ada@example.com", "abcdef12#", msgWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCredentials(tt.email, tt.password)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Msg != tt.wantMsg {
				t.Errorf("message = %q, want %q", ve.Msg, tt.wantMsg)
			}
		})
	}
}

func TestNewProfile(t *testing.T) {
	p, err := NewProfile(" ada_l ", " Ada Lovelace ", "Engines.", "img/ada.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Username() != "ada_l" || p.FullName() != "Ada Lovelace" {
		t.Errorf("fields not trimmed: %q %q", p.Username(), p.FullName())
	}
	if p.ProfileImage() != "img/ada.png" {
		t.Errorf("image = %q", p.ProfileImage())
	}
}

func TestNewProfile_Invalid(t *testing.T) {
	tests := []struct {
		name                string
		username, full, bio string
		wantSubstr          string
	}{
		{"short username", "ad", "Ada", "", "username"},
		{"username with space", "ada l", "Ada", "", "username"},
		{"missing full name", "ada", " ", "", "full name is required"},
		{"long full name", "ada", strings.Repeat("a", 101), "", "full name too long"},
		{"long bio", "ada", "Ada", strings.Repeat("b", 2001), "description too long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProfile(tt.username, tt.full, tt.bio, "")
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantSubstr) {
				t.Errorf("error %q does not mention %q", err, tt.wantSubstr)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	if got := (User{Username: "ada", FullName: "Ada L"}).DisplayName(); got != "Ada L" {
		t.Errorf("got %q", got)
	}
	if got := (User{Username: "ada"}).DisplayName(); got != "ada" {
		t.Errorf("got %q", got)
	}
}
