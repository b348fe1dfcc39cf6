package types

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxMessageLength bounds Message in characters.
const MaxMessageLength = 5000

// Submission is the contact form as posted.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Message is a stored contact submission.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

var ErrInvalidSubmission = errors.New("invalid contact submission")

// Normalize trims every field and validates the result.
func (s Submission) Normalize() (Submission, error) {
	out := Submission{
		Name:    strings.TrimSpace(s.Name),
		Email:   strings.TrimSpace(s.Email),
		Subject: strings.TrimSpace(s.Subject),
		Message: strings.TrimSpace(s.Message),
	}
	for _, f := range []struct{ name, value string }{
		{"name", out.Name}, {"email", out.Email}, {"subject", out.Subject}, {"message", out.Message},
	} {
		if f.value == "" {
			return Submission{}, fmt.Errorf("%w: %s is required", ErrInvalidSubmission, f.name)
		}
	}
	addr, err := mail.ParseAddress(out.Email)
	if err != nil || addr.Address != out.Email {
		return Submission{}, fmt.Errorf("%w: email %q is not a valid address", ErrInvalidSubmission, out.Email)
	}
	if n := utf8.RuneCountInString(out.Message); n > MaxMessageLength {
		return Submission{}, fmt.Errorf("%w: message is %d characters, limit is %d", ErrInvalidSubmission, n, MaxMessageLength)
	}
	return out, nil
}
