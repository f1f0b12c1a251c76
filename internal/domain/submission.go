package domain

import (
	"context"
	"fmt"
	"strings"
)

// Kind tags which public form a submission came from.
type Kind string

const (
	KindContact      Kind = "contact"
	KindVolunteer    Kind = "volunteer"
	KindItemDonation Kind = "item-donation"
)

// Kinds lists every supported form kind.
var Kinds = []Kind{KindContact, KindVolunteer, KindItemDonation}

// Submission is a form payload relayed as email. Implementations are plain
// request records; validation runs against their `validate` tags.
type Submission interface {
	Kind() Kind
	// Normalize trims surrounding whitespace from every field.
	Normalize()
	// Submitter returns who the acknowledgment email goes to.
	Submitter() (name, email string)
}

// NewSubmission returns an empty record for kind, ready for JSON binding.
func NewSubmission(kind Kind) (Submission, error) {
	switch kind {
	case KindContact:
		return &ContactSubmission{}, nil
	case KindVolunteer:
		return &VolunteerSubmission{}, nil
	case KindItemDonation:
		return &ItemDonationSubmission{}, nil
	default:
		return nil, fmt.Errorf("unknown form kind %q", kind)
	}
}

// ContactSubmission represents a contact form submission
type ContactSubmission struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

func (s *ContactSubmission) Kind() Kind { return KindContact }

func (s *ContactSubmission) Normalize() {
	trim(&s.Name, &s.Email, &s.Subject, &s.Message)
}

func (s *ContactSubmission) Submitter() (string, string) { return s.Name, s.Email }

// VolunteerSubmission represents a volunteer sign-up. Message is optional.
type VolunteerSubmission struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required"`
	Role         string `json:"role" validate:"required"`
	Availability string `json:"availability" validate:"required"`
	Message      string `json:"message"`
}

func (s *VolunteerSubmission) Kind() Kind { return KindVolunteer }

func (s *VolunteerSubmission) Normalize() {
	trim(&s.Name, &s.Email, &s.Phone, &s.Role, &s.Availability, &s.Message)
}

func (s *VolunteerSubmission) Submitter() (string, string) { return s.Name, s.Email }

// DeliveryRequiredTypes are the item types that need delivery logistics.
// Keep in sync with the required_if_oneof tags on ItemDonationSubmission.
var DeliveryRequiredTypes = []string{"medical", "educational", "care"}

// ItemDonationSubmission represents an offer to donate goods or skills.
type ItemDonationSubmission struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Contact      string `json:"contact" validate:"required"`
	ItemType     string `json:"itemType" validate:"required"`
	Description  string `json:"description" validate:"required"`
	DeliveryMode string `json:"deliveryMode" validate:"required_if_oneof=ItemType medical educational care"`
	DeliveryTime string `json:"deliveryTime" validate:"required_if_oneof=ItemType medical educational care"`
}

func (s *ItemDonationSubmission) Kind() Kind { return KindItemDonation }

func (s *ItemDonationSubmission) Normalize() {
	trim(&s.Name, &s.Email, &s.Contact, &s.ItemType, &s.Description, &s.DeliveryMode, &s.DeliveryTime)
}

func (s *ItemDonationSubmission) Submitter() (string, string) { return s.Name, s.Email }

// DeliveryRequired reports whether the item type needs delivery mode and time.
func (s *ItemDonationSubmission) DeliveryRequired() bool {
	for _, t := range DeliveryRequiredTypes {
		if s.ItemType == t {
			return true
		}
	}
	return false
}

// RelayResult is returned for a successfully relayed submission.
type RelayResult struct {
	Message string
}

// FormRelayUsecase validates a submission and sends the admin notification
// and the submitter acknowledgment.
type FormRelayUsecase interface {
	Submit(ctx context.Context, sub Submission) (*RelayResult, error)
	// MissingFieldsMessage is the 400 text for kind, used when the body
	// cannot be decoded at all.
	MissingFieldsMessage(kind Kind) string
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
