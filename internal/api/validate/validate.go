package validate

import (
	"fmt"
	"regexp"

	"github.com/ReplicantCoder9000/projectSoulSync/internal/model"
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func Username(v string) error {
	if v == "" {
		return fmt.Errorf("username is required")
	}
	if len(v) < 3 {
		return fmt.Errorf("username must be at least 3 characters")
	}
	if len(v) > 50 {
		return fmt.Errorf("username exceeds 50 characters")
	}
	return nil
}

func Email(v string) error {
	if v == "" {
		return fmt.Errorf("email is required")
	}
	if len(v) > 320 || !emailRx.MatchString(v) {
		return fmt.Errorf("invalid email")
	}
	return nil
}

func Password(v string) error {
	if v == "" {
		return fmt.Errorf("password is required")
	}
	if len(v) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	return nil
}

func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func Mood(v model.Mood) error {
	if v == "" {
		return fmt.Errorf("mood is required")
	}
	if !v.Valid() {
		return fmt.Errorf("invalid mood: %s", v)
	}
	return nil
}

// -------- Request specific helpers ----------

// Register validates input for creating a new account.
func Register(username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return fmt.Errorf("all fields are required")
	}
	if err := Username(username); err != nil {
		return err
	}
	if err := Email(email); err != nil {
		return err
	}
	return Password(password)
}

// Login only requires presence; credential checking is the service's job.
func Login(email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("email and password are required")
	}
	return nil
}

// CreateEntry validates input for a new journal entry.
func CreateEntry(title, content string, mood model.Mood) error {
	if err := NonEmpty("title", title); err != nil {
		return err
	}
	if err := NonEmpty("content", content); err != nil {
		return err
	}
	return Mood(mood)
}
