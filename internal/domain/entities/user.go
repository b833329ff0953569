package entities

import (
	"time"
)

const (
	// UserSourceContactForm marks users created from the contact form
	UserSourceContactForm = "contact_form"
	// UserSourceOrder marks users created while booking
	UserSourceOrder = "order"

	// MessageSeparator joins successive contact messages from the same email
	MessageSeparator = "\n\n--- New Message ---\n"
)

// User is a customer contact keyed by email
type User struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Message   string    `json:"message" db:"message"`
	Source    string    `json:"source" db:"source"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ContactSubmission is an inbound contact-form or booking contact
type ContactSubmission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

// AppendMessage adds msg to the stored history without overwriting it
func (u *User) AppendMessage(msg string) {
	if msg == "" {
		return
	}
	if u.Message == "" {
		u.Message = msg
		return
	}
	u.Message = u.Message + MessageSeparator + msg
}
