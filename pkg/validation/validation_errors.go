package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-friendly labels
var FieldLabels = map[string]string{
	// Shared submitter fields
	"Name":    "Name",
	"Email":   "Email",
	"Message": "Message",

	// Contact
	"Subject": "Subject",

	// Volunteer
	"Phone":        "Phone",
	"Role":         "Volunteer Role",
	"Availability": "Availability",

	// Item donation
	"Contact":      "Contact Number",
	"ItemType":     "Donation Type",
	"Description":  "Description",
	"DeliveryMode": "Delivery Mode",
	"DeliveryTime": "Preferred Delivery Time",

	// Donation intent
	"Amount":     "Amount",
	"DonorName":  "Name",
	"DonorEmail": "Email",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// HasTag reports whether any field in err failed the given validation tag.
func HasTag(err error, tag string) bool {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return false
	}
	for _, e := range validationErrors {
		if e.Tag() == tag {
			return true
		}
	}
	return false
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.StructField())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", label)
	case "email":
		return fmt.Sprintf("%s: is not a valid email address", label)
	case TagRequiredIfOneOf:
		return fmt.Sprintf("%s: is required for this type of donation", label)
	case "max":
		return fmt.Sprintf("%s: must be at most %s characters", label, e.Param())
	default:
		return fmt.Sprintf("%s: failed validation (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
