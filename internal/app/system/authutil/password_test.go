package authutil

import (
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid", "mySecurePassword", nil},
		{"valid at max", strings.Repeat("a", 72), nil},
		{"valid with spaces", "my secret password", nil},

		{"too short", "abc1234", ErrPasswordTooShort},
		{"empty", "", ErrPasswordTooShort},
		{"too long", strings.Repeat("a", 73), ErrPasswordTooLong},

		{"common", "password1", ErrPasswordCommon},
		{"common uppercase", "PASSWORD1", ErrPasswordCommon},
		{"common changeme", "changeme", ErrPasswordCommon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if err != tt.wantErr {
				t.Errorf("ValidatePassword(%q) = %v, want %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestHashPassword(t *testing.T) {
	password := "mySecurePassword123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == password {
		t.Error("HashPassword() returned the plaintext")
	}
	if !IsHash(hash) {
		t.Errorf("IsHash(%q) = false, want true", hash)
	}
	if !CheckPassword(password, hash) {
		t.Error("CheckPassword() with correct password = false")
	}
	if CheckPassword("wrong", hash) {
		t.Error("CheckPassword() with wrong password = true")
	}

	hash2, _ := HashPassword(password)
	if hash == hash2 {
		t.Error("HashPassword() should salt each hash")
	}
}

func TestHashPassword_Empty(t *testing.T) {
	if _, err := HashPassword(""); err != ErrPasswordEmpty {
		t.Errorf("HashPassword(\"\") error = %v, want %v", err, ErrPasswordEmpty)
	}
}

func TestIsHash(t *testing.T) {
	for _, s := range []string{"", "plaintext", "$2a$"} {
		if IsHash(s) {
			t.Errorf("IsHash(%q) = true, want false", s)
		}
	}
}
