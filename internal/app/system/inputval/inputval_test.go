package inputval

import (
	"errors"
	"strings"
	"testing"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"user.name@example.com", true},
		{"user+tag@example.com", true},
		{"user@subdomain.example.com", true},

		{"", false},
		{"   ", false},
		{"notanemail", false},
		{"@example.com", false},
		{"user@", false},
		{"user example.com", false},
		{"Name <user@example.com>", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got := IsValidEmail(tt.email)
			if got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsToken(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"jane", true},
		{"Jane_Doe42", true},
		{"_", true},

		{"", false},
		{"jane doe", false},
		{"jane-doe", false},
		{"jane.doe", false},
		{".*", false},
		{"$where", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := IsToken(tt.in); got != tt.want {
				t.Errorf("IsToken(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsValidObjectID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"507f1f77bcf86cd799439011", true},
		{"000000000000000000000000", true},

		{"", false},
		{"507f1f77bcf86cd79943901", false},
		{"507f1f77bcf86cd79943901g", false},
		{"not-an-object-id", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := IsValidObjectID(tt.id)
			if got != tt.want {
				t.Errorf("IsValidObjectID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	type input struct {
		Username string `json:"username" validate:"required,token" label:"Username"`
		Email    string `json:"email" validate:"required,email" label:"Email"`
	}

	tests := []struct {
		name      string
		in        input
		wantError bool
	}{
		{"valid", input{Username: "jane", Email: "jane@example.com"}, false},
		{"missing username", input{Email: "jane@example.com"}, true},
		{"username not a token", input{Username: "jane doe", Email: "jane@example.com"}, true},
		{"missing email", input{Username: "jane"}, true},
		{"invalid email", input{Username: "jane", Email: "nope"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.in)
			if tt.wantError && !result.HasErrors() {
				t.Errorf("Validate() expected errors, got none")
			}
			if !tt.wantError && result.HasErrors() {
				t.Errorf("Validate() expected no errors, got: %s", result.First())
			}
		})
	}
}

func TestValidate_OptionalToken(t *testing.T) {
	type query struct {
		Username string `json:"username" validate:"token" label:"Username"`
	}
	if r := Validate(query{}); r.HasErrors() {
		t.Errorf("Validate() empty optional token should pass, got: %s", r.First())
	}
	if r := Validate(query{Username: "a.b"}); !r.HasErrors() {
		t.Error("Validate() non-token username should fail")
	}
}

func TestValidate_NonBlank(t *testing.T) {
	type input struct {
		Name string `json:"name" validate:"required,nonblank" label:"Name"`
	}
	tests := []struct {
		name    string
		value   string
		wantMsg string
	}{
		{"text", "Open", ""},
		{"padded text", "  Open ", ""},
		{"markup characters", "a<b", ""},
		{"spaces only", "   ", "Name is required."},
		{"tabs and newlines", "\t\n", "Name is required."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(input{Name: tt.value}).First(); got != tt.wantMsg {
				t.Errorf("Validate(%q) = %q, want %q", tt.value, got, tt.wantMsg)
			}
		})
	}
}

func TestValidate_BcryptLen(t *testing.T) {
	type input struct {
		Password string `json:"password" validate:"required,bcryptlen" label:"Password"`
	}
	tests := []struct {
		name    string
		value   string
		wantMsg string
	}{
		{"72 ascii bytes", strings.Repeat("a", 72), ""},
		{"73 ascii bytes", strings.Repeat("a", 73), "Password must be at most 72 bytes."},
		// 36 runes, 72 bytes
		{"72 bytes of two-byte runes", strings.Repeat("é", 36), ""},
		// 40 runes, 80 bytes
		{"80 bytes of two-byte runes", strings.Repeat("é", 40), "Password must be at most 72 bytes."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(input{Password: tt.value}).First(); got != tt.wantMsg {
				t.Errorf("Validate() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestValidate_Label(t *testing.T) {
	type input struct {
		Name string `json:"name" validate:"required" label:"Name"`
	}
	result := Validate(input{})
	if result.First() != "Name is required." {
		t.Errorf("Validate() error message = %q, want %q", result.First(), "Name is required.")
	}
}

func TestResult_Err(t *testing.T) {
	r := &Result{}
	if err := r.Err(); err != nil {
		t.Errorf("Err() on empty result = %v, want nil", err)
	}

	r.Add("email", "Email", "Email is required.")
	err := r.Err()
	if err == nil {
		t.Fatal("Err() = nil, want error")
	}
	var got *Result
	if !errors.As(err, &got) {
		t.Fatalf("Err() type = %T, want *Result", err)
	}
	if got.FieldMessages()["email"] != "Email is required." {
		t.Errorf("FieldMessages() = %v", got.FieldMessages())
	}
}

func TestResult_All(t *testing.T) {
	r := &Result{
		Errors: []FieldError{
			{Field: "name", Label: "Name", Message: "Name is required."},
			{Field: "email", Label: "Email", Message: "Email is required."},
		},
	}
	want := "Name is required.; Email is required."
	if got := r.All(); got != want {
		t.Errorf("All() = %q, want %q", got, want)
	}
	if got := r.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
