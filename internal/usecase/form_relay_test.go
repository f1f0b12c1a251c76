package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"brittlebones-backend/internal/domain"
	"brittlebones-backend/internal/usecase"
	"brittlebones-backend/pkg/apperror"
	"brittlebones-backend/pkg/email"
	"brittlebones-backend/pkg/validation"
)

const (
	testFrom  = "noreply@brittlebones.example"
	testAdmin = "admin@brittlebones.example"
)

func newRelay(t *testing.T, sender email.Sender, timeout time.Duration) domain.FormRelayUsecase {
	t.Helper()
	renderer, err := email.NewRenderer()
	require.NoError(t, err)

	return usecase.NewFormRelayUsecase(sender, renderer, validation.New(), usecase.RelayOptions{
		FromEmail:  testFrom,
		AdminEmail: testAdmin,
		Branding: email.Branding{
			OrgName: "Brittle Bones SA",
			SiteURL: "https://brittlebones.example/",
			LogoURL: "https://brittlebones.example/logo.png",
		},
		Timeout: timeout,
	})
}

func configuredSender() *MockSender {
	sender := new(MockSender)
	sender.On("IsConfigured").Return(true)
	return sender
}

func messageTo(msgs []*email.Message, to string) *email.Message {
	for _, m := range msgs {
		if m.To == to {
			return m
		}
	}
	return nil
}

func assertAppError(t *testing.T, err error, kind apperror.Kind, code int, message string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, kind, appErr.Kind)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, message, appErr.Message)
}

func TestContactRelay(t *testing.T) {
	t.Run("Should reject a blank subject without sending", func(t *testing.T) {
		sender := configuredSender()
		uc := newRelay(t, sender, 0)

		_, err := uc.Submit(context.Background(), &domain.ContactSubmission{
			Name: "A", Email: "a@b.com", Subject: "", Message: "hi",
		})

		assertAppError(t, err, apperror.KindValidation, 400, "All fields required")
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("Should treat whitespace-only fields as missing", func(t *testing.T) {
		sender := configuredSender()
		uc := newRelay(t, sender, 0)

		_, err := uc.Submit(context.Background(), &domain.ContactSubmission{
			Name: "   ", Email: "a@b.com", Subject: "Hi", Message: "hi",
		})

		assertAppError(t, err, apperror.KindValidation, 400, "All fields required")
		assert.Empty(t, sender.Sent())
	})

	t.Run("Should reject a malformed email", func(t *testing.T) {
		sender := configuredSender()
		uc := newRelay(t, sender, 0)

		_, err := uc.Submit(context.Background(), &domain.ContactSubmission{
			Name: "A", Email: "not-an-email", Subject: "Hi", Message: "hi",
		})

		assertAppError(t, err, apperror.KindValidation, 400, "Please provide a valid email address.")
		assert.Empty(t, sender.Sent())
	})

	t.Run("Should send the admin summary and the acknowledgment", func(t *testing.T) {
		sender := configuredSender()
		sender.On("Send", mock.Anything, mock.Anything).Return(nil)
		uc := newRelay(t, sender, time.Second)

		result, err := uc.Submit(context.Background(), &domain.ContactSubmission{
			Name: " Jane ", Email: "jane@example.com", Subject: "Hello", Message: "Hi <script>alert(1)</script>",
		})

		require.NoError(t, err)
		assert.Equal(t, "Email sent successfully!", result.Message)
		sender.AssertNumberOfCalls(t, "Send", 2)

		sent := sender.Sent()
		admin := messageTo(sent, testAdmin)
		require.NotNil(t, admin)
		assert.Equal(t, "New Contact Form Submission: Hello", admin.Subject)
		assert.Equal(t, "Contact Form", admin.FromName)
		assert.Equal(t, testFrom, admin.From)
		assert.Equal(t, "jane@example.com", admin.ReplyTo)
		assert.Contains(t, admin.HTML, "Jane")
		assert.Contains(t, admin.HTML, "&lt;script&gt;")
		assert.NotContains(t, admin.HTML, "<script>")

		ack := messageTo(sent, "jane@example.com")
		require.NotNil(t, ack)
		assert.Equal(t, "We've received your message!", ack.Subject)
		assert.Equal(t, "Brittle Bones SA", ack.FromName)
		assert.Equal(t, "Jane", ack.ToName)
		assert.Contains(t, ack.HTML, "Jane")
	})

	t.Run("Should fail as a relay error when one send fails", func(t *testing.T) {
		sender := configuredSender()
		sender.On("Send", mock.Anything, mock.MatchedBy(func(m *email.Message) bool {
			return m.To == testAdmin
		})).Return(errors.New("535 authentication failed"))
		sender.On("Send", mock.Anything, mock.Anything).Return(nil)
		uc := newRelay(t, sender, time.Second)

		_, err := uc.Submit(context.Background(), &domain.ContactSubmission{
			Name: "Jane", Email: "jane@example.com", Subject: "Hello", Message: "hi",
		})

		assertAppError(t, err, apperror.KindRelay, 500, "Failed to send email.")
		assert.ErrorContains(t, errors.Unwrap(err), "535")
		// Both sends are still attempted
		sender.AssertNumberOfCalls(t, "Send", 2)
	})

	t.Run("Should fail as a configuration error when the relay is not configured", func(t *testing.T) {
		sender := new(MockSender)
		sender.On("IsConfigured").Return(false)
		uc := newRelay(t, sender, 0)

		_, err := uc.Submit(context.Background(), &domain.ContactSubmission{
			Name: "Jane", Email: "jane@example.com", Subject: "Hello", Message: "hi",
		})

		assertAppError(t, err, apperror.KindConfiguration, 500, "Failed to send email.")
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("Should fail as a relay error when sends exceed the timeout", func(t *testing.T) {
		sender := configuredSender()
		sender.On("Send", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				<-args.Get(0).(context.Context).Done()
			}).
			Return(context.DeadlineExceeded)
		uc := newRelay(t, sender, 20*time.Millisecond)

		_, err := uc.Submit(context.Background(), &domain.ContactSubmission{
			Name: "Jane", Email: "jane@example.com", Subject: "Hello", Message: "hi",
		})

		assertAppError(t, err, apperror.KindRelay, 500, "Failed to send email.")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestVolunteerRelay(t *testing.T) {
	t.Run("Should accept a signup without a message", func(t *testing.T) {
		sender := configuredSender()
		sender.On("Send", mock.Anything, mock.Anything).Return(nil)
		uc := newRelay(t, sender, time.Second)

		result, err := uc.Submit(context.Background(), &domain.VolunteerSubmission{
			Name: "Sam", Email: "sam@example.com", Phone: "0821234567", Role: "Events", Availability: "Weekends",
		})

		require.NoError(t, err)
		assert.Equal(t, "Volunteer form submitted successfully!", result.Message)

		sent := sender.Sent()
		admin := messageTo(sent, testAdmin)
		require.NotNil(t, admin)
		assert.Equal(t, "New Volunteer Signup: Sam", admin.Subject)
		assert.Contains(t, admin.HTML, "N/A")

		ack := messageTo(sent, "sam@example.com")
		require.NotNil(t, ack)
		assert.Equal(t, "Volunteer Signup Confirmation", ack.Subject)
		assert.Contains(t, ack.HTML, "Events")
	})

	t.Run("Should reject a signup without availability", func(t *testing.T) {
		sender := configuredSender()
		uc := newRelay(t, sender, 0)

		_, err := uc.Submit(context.Background(), &domain.VolunteerSubmission{
			Name: "Sam", Email: "sam@example.com", Phone: "0821234567", Role: "Events",
		})

		assertAppError(t, err, apperror.KindValidation, 400, "All required fields must be filled.")
		assert.Empty(t, sender.Sent())
	})
}

func TestItemDonationRelay(t *testing.T) {
	base := func(itemType string) *domain.ItemDonationSubmission {
		return &domain.ItemDonationSubmission{
			Name: "Lee", Email: "lee@example.com", Contact: "0821234567",
			ItemType: itemType, Description: "Two wheelchairs",
		}
	}

	t.Run("Should require delivery details for medical items", func(t *testing.T) {
		sender := configuredSender()
		uc := newRelay(t, sender, 0)

		_, err := uc.Submit(context.Background(), base("medical"))

		assertAppError(t, err, apperror.KindValidation, 400,
			"Delivery mode and time are required for this type of donation.")
		assert.Empty(t, sender.Sent())
	})

	t.Run("Should report missing fields before delivery details", func(t *testing.T) {
		sender := configuredSender()
		uc := newRelay(t, sender, 0)

		sub := base("care")
		sub.Description = ""
		_, err := uc.Submit(context.Background(), sub)

		assertAppError(t, err, apperror.KindValidation, 400, "All fields are required.")
	})

	t.Run("Should not require delivery details for other items", func(t *testing.T) {
		sender := configuredSender()
		sender.On("Send", mock.Anything, mock.Anything).Return(nil)
		uc := newRelay(t, sender, time.Second)

		result, err := uc.Submit(context.Background(), base("skills"))

		require.NoError(t, err)
		assert.Equal(t, "Donation email sent.", result.Message)

		admin := messageTo(sender.Sent(), testAdmin)
		require.NotNil(t, admin)
		assert.Equal(t, "New Item Donation from Lee", admin.Subject)
		assert.NotContains(t, admin.HTML, "Delivery Mode")
	})

	t.Run("Should include delivery details when required", func(t *testing.T) {
		sender := configuredSender()
		sender.On("Send", mock.Anything, mock.Anything).Return(nil)
		uc := newRelay(t, sender, time.Second)

		sub := base("educational")
		sub.DeliveryMode = "Drop-off"
		sub.DeliveryTime = "Saturday morning"
		_, err := uc.Submit(context.Background(), sub)
		require.NoError(t, err)

		sent := sender.Sent()
		admin := messageTo(sent, testAdmin)
		require.NotNil(t, admin)
		assert.Contains(t, admin.HTML, "Drop-off")
		assert.Contains(t, admin.HTML, "Saturday morning")

		ack := messageTo(sent, "lee@example.com")
		require.NotNil(t, ack)
		assert.Equal(t, "Thank You for Your Donation!", ack.Subject)
	})
}

func TestMissingFieldsMessage(t *testing.T) {
	uc := newRelay(t, configuredSender(), 0)

	assert.Equal(t, "All fields required", uc.MissingFieldsMessage(domain.KindContact))
	assert.Equal(t, "All required fields must be filled.", uc.MissingFieldsMessage(domain.KindVolunteer))
	assert.Equal(t, "All fields are required.", uc.MissingFieldsMessage(domain.KindItemDonation))
}
