package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type LeadKind string

const (
	LeadContact    LeadKind = "contact"
	LeadRenovation LeadKind = "renovation"
)

// Placeholders stored when a form field is left empty.
const (
	NoName    = "Sin nombre"
	NoEmail   = "Sin email"
	NoPhone   = "Sin teléfono"
	NoMessage = "Sin mensaje"
	NoAddress = "Sin dirección"

	DefaultSource = "web"
)

// Lead is a prospective client captured by one of the site's forms.
type Lead struct {
	ID              string    `json:"id" gorm:"primaryKey;size:36"`
	Kind            LeadKind  `json:"kind" gorm:"index;size:16;not null"`
	Name            string    `json:"name"`
	Email           string    `json:"email,omitempty"`
	Phone           string    `json:"phone"`
	Message         string    `json:"message,omitempty"`
	Source          string    `json:"source,omitempty"`
	PropertyAddress string    `json:"property_address,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ContactRequest is the body of the contact form.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

// RenovationRequest is the body of the "reforma sin pagar" proposal form.
type RenovationRequest struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	PropertyAddress string `json:"property_address"`
}

func NewContactLead(req ContactRequest, now time.Time) Lead {
	return Lead{
		ID:        uuid.NewString(),
		Kind:      LeadContact,
		Name:      orDefault(req.Name, NoName),
		Email:     orDefault(req.Email, NoEmail),
		Phone:     orDefault(req.Phone, NoPhone),
		Message:   orDefault(req.Message, NoMessage),
		Source:    orDefault(req.Source, DefaultSource),
		CreatedAt: now.UTC(),
	}
}

func NewRenovationLead(req RenovationRequest, now time.Time) Lead {
	return Lead{
		ID:              uuid.NewString(),
		Kind:            LeadRenovation,
		Name:            orDefault(req.Name, NoName),
		Phone:           orDefault(req.Phone, NoPhone),
		PropertyAddress: orDefault(req.PropertyAddress, NoAddress),
		CreatedAt:       now.UTC(),
	}
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
