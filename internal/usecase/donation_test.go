package usecase_test

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brittlebones-backend/internal/domain"
	"brittlebones-backend/internal/usecase"
	"brittlebones-backend/pkg/apperror"
	"brittlebones-backend/pkg/payfast"
	"brittlebones-backend/pkg/validation"
)

func newDonation(cfg payfast.Config) domain.DonationUsecase {
	builder := payfast.NewBuilder(cfg, payfast.WithClock(func() time.Time {
		return time.Date(2025, 7, 4, 22, 30, 0, 0, time.UTC)
	}))
	return usecase.NewDonationUsecase(builder, validation.New())
}

func TestDonationLink(t *testing.T) {
	uc := newDonation(testPayFastConfig())

	t.Run("Should build a once-off link", func(t *testing.T) {
		link, err := uc.BuildLink(context.Background(), &domain.DonationIntent{
			Amount: "100", DonorName: "Jane Doe", DonorEmail: "jane@example.com",
		})
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(link.URL, payfast.LiveURL+"?"))
		assert.Contains(t, link.URL, "amount=100.00")
		assert.Contains(t, link.URL, "name_first=Jane%20Doe")
		assert.Contains(t, link.URL, "email_address=jane%40example.com")
		assert.NotContains(t, link.URL, "subscription_type")
	})

	t.Run("Should build a monthly subscription link", func(t *testing.T) {
		link, err := uc.BuildLink(context.Background(), &domain.DonationIntent{
			Amount: "50.5", DonorName: "Jane", DonorEmail: "jane@example.com", IsRecurring: true,
		})
		require.NoError(t, err)

		u, err := url.Parse(link.URL)
		require.NoError(t, err)
		q := u.Query()
		assert.Equal(t, "50.50", q.Get("amount"))
		assert.Equal(t, "50.50", q.Get("recurring_amount"))
		assert.Equal(t, "1", q.Get("subscription_type"))
		assert.Equal(t, "3", q.Get("frequency"))
		assert.Equal(t, "0", q.Get("cycles"))
		assert.Equal(t, "2025-07-04", q.Get("billing_date"))
		assert.Equal(t, payfast.ItemNameMonthly, q.Get("item_name"))
	})

	t.Run("Should reject missing fields", func(t *testing.T) {
		_, err := uc.BuildLink(context.Background(), &domain.DonationIntent{
			Amount: "100", DonorEmail: "jane@example.com",
		})
		assertAppError(t, err, apperror.KindValidation, 400, "Missing required fields")
	})

	t.Run("Should reject a non-positive amount", func(t *testing.T) {
		for _, amount := range []domain.Amount{"0", "-5", "0.001"} {
			_, err := uc.BuildLink(context.Background(), &domain.DonationIntent{
				Amount: amount, DonorName: "Jane", DonorEmail: "jane@example.com",
			})
			assertAppError(t, err, apperror.KindValidation, 400, "Amount must be greater than zero")
		}
	})

	t.Run("Should reject a non-numeric amount", func(t *testing.T) {
		_, err := uc.BuildLink(context.Background(), &domain.DonationIntent{
			Amount: "ten", DonorName: "Jane", DonorEmail: "jane@example.com",
		})
		assertAppError(t, err, apperror.KindValidation, 400, "Amount must be a valid number")
	})

	t.Run("Should fail as a configuration error without merchant settings", func(t *testing.T) {
		unconfigured := newDonation(payfast.Config{})
		_, err := unconfigured.BuildLink(context.Background(), &domain.DonationIntent{
			Amount: "100", DonorName: "Jane", DonorEmail: "jane@example.com",
		})
		assertAppError(t, err, apperror.KindConfiguration, 500, "Failed to create PayFast URL")
	})
}

func TestDonationQRCode(t *testing.T) {
	uc := newDonation(testPayFastConfig())

	t.Run("Should render a PNG", func(t *testing.T) {
		png, err := uc.BuildQRCode(context.Background(), &domain.DonationIntent{
			Amount: "100", DonorName: "Jane", DonorEmail: "jane@example.com",
		}, 0)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")))
	})

	t.Run("Should validate like the link", func(t *testing.T) {
		_, err := uc.BuildQRCode(context.Background(), &domain.DonationIntent{Amount: "100"}, 256)
		assertAppError(t, err, apperror.KindValidation, 400, "Missing required fields")
	})
}
