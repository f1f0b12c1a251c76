package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type delivery struct {
	ItemType     string `json:"itemType" validate:"required"`
	DeliveryMode string `json:"deliveryMode" validate:"required_if_oneof=ItemType medical care"`
}

func TestRequiredIfOneOf(t *testing.T) {
	v := New()

	t.Run("Should require the field for a listed value", func(t *testing.T) {
		err := v.Struct(&delivery{ItemType: "medical"})
		require.Error(t, err)
		assert.True(t, HasTag(err, TagRequiredIfOneOf))
		assert.False(t, HasTag(err, "required"))
	})

	t.Run("Should treat whitespace as empty", func(t *testing.T) {
		err := v.Struct(delivery{ItemType: "care", DeliveryMode: "   "})
		assert.True(t, HasTag(err, TagRequiredIfOneOf))
	})

	t.Run("Should pass when provided", func(t *testing.T) {
		assert.NoError(t, v.Struct(delivery{ItemType: "care", DeliveryMode: "Pickup"}))
	})

	t.Run("Should ignore other values", func(t *testing.T) {
		assert.NoError(t, v.Struct(delivery{ItemType: "clothing"}))
	})
}

func TestFormatValidationErrors(t *testing.T) {
	v := New()

	type contact struct {
		Email    string `json:"email" validate:"required,email"`
		ItemType string `json:"itemType" validate:"required"`
	}
	err := v.Struct(contact{Email: "nope"})
	require.Error(t, err)

	msgs := FormatValidationErrors(err)
	assert.Contains(t, msgs, "Email: is not a valid email address")
	assert.Contains(t, msgs, "Donation Type: is required")
}

func TestFormatCamelCase(t *testing.T) {
	assert.Equal(t, "Preferred Contact Time", formatCamelCase("PreferredContactTime"))
	assert.Equal(t, "Delivery Mode", getFieldLabel("DeliveryMode"))
}

func TestHasTagIgnoresOtherErrors(t *testing.T) {
	assert.False(t, HasTag(assert.AnError, "required"))
	assert.Equal(t, []string{assert.AnError.Error()}, FormatValidationErrors(assert.AnError))
}
