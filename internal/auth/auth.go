// Package auth validates the demo sign-up and login forms. No account is
// created and no credential is checked: the forms only report field errors.
package auth

import (
	"net/url"
	"strings"
)

// Mode selects which form the auth page shows.
type Mode string

const (
	ModeSignup Mode = "signup"
	ModeLogin  Mode = "login"
)

// ParseMode returns ModeLogin for "login" and ModeSignup for anything else.
func ParseMode(s string) Mode {
	if Mode(s) == ModeLogin {
		return ModeLogin
	}
	return ModeSignup
}

// Header is the heading shown above the form.
func (m Mode) Header() string {
	if m == ModeLogin {
		return "Login"
	}
	return "Sign-Up"
}

const (
	MsgFixErrors     = "Please fix the errors above."
	MsgSignupSuccess = "Sign-up successful (demo). You can log in now."
	MsgLoginSuccess  = "Login successful (demo). Redirecting…"
)

type SignupForm struct {
	Username        string `json:"username" validate:"required,name_pattern,min=3"`
	DateOfBirth     string `json:"dob" validate:"required,datetime=2006-01-02"`
	Email           string `json:"email" validate:"required,email_pattern"`
	Password        string `json:"password" validate:"required,password_strength"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

func (SignupForm) ValidationMessages() map[string]string {
	return map[string]string{
		"username.required":          "username is required",
		"username.name_pattern":      "username is not valid",
		"username.min":               "Username must be at least 3 characters long",
		"dob.required":               "Please enter a valid Date of Birth",
		"dob.datetime":               "Please enter a valid Date of Birth",
		"email.required":             "Email is required",
		"email.email_pattern":        "Email is not valid",
		"password.required":          "Password is required",
		"password.password_strength": "Password must be 8+ chars and include upper, lower, number, and special character",
		"confirm_password.required":  "Confirm Password is required",
		"confirm_password.eqfield":   "Passwords do not match",
	}
}

func (f *SignupForm) Normalize() {
	f.Username = strings.TrimSpace(f.Username)
	f.DateOfBirth = strings.TrimSpace(f.DateOfBirth)
	f.Email = strings.TrimSpace(f.Email)
	f.Password = strings.TrimSpace(f.Password)
	f.ConfirmPassword = strings.TrimSpace(f.ConfirmPassword)
}

type LoginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (LoginForm) ValidationMessages() map[string]string {
	return map[string]string{
		"username.required": "Username is required",
		"password.required": "Password is required",
	}
}

func (f *LoginForm) Normalize() {
	f.Username = strings.TrimSpace(f.Username)
	f.Password = strings.TrimSpace(f.Password)
}

// SearchRedirect returns the catalog URL that applies query, or "" when the
// trimmed query is empty.
func SearchRedirect(catalogPath, query string) string {
	q := strings.TrimSpace(query)
	if q == "" {
		return ""
	}
	return catalogPath + "?" + url.Values{"q": {q}}.Encode()
}
