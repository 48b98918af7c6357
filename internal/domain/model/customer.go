package model

import (
	"regexp"
	"time"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain"
)

// Kenyan local mobile format: leading 0, then 7, then 8 more digits.
var phonePattern = regexp.MustCompile(`^07\d{8}$`)

// ValidPhoneNumber reports whether s is an acceptable customer phone number.
func ValidPhoneNumber(s string) bool { return phonePattern.MatchString(s) }

// Customer wraps the phone number a purchase is tied to. Name and email are
// optional; walk-in voucher customers are identified by phone alone.
type Customer struct {
	ID          string
	Name        string
	PhoneNumber string
	Email       string
	Status      string
	CreatedAt   time.Time
}

// NewCustomer validates the phone number and constructs a customer.
func NewCustomer(id, name, phoneNumber string) (*Customer, error) {
	if !ValidPhoneNumber(phoneNumber) {
		return nil, domain.ErrInvalidPhoneNumber
	}
	if name == "" {
		name = phoneNumber
	}
	return &Customer{
		ID:          id,
		Name:        name,
		PhoneNumber: phoneNumber,
		Status:      "active",
		CreatedAt:   time.Now(),
	}, nil
}
