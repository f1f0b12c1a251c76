package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"brittlebones-backend/internal/domain"
	"brittlebones-backend/pkg/apperror"
	"brittlebones-backend/pkg/logger"
	"brittlebones-backend/pkg/payfast"
	"brittlebones-backend/pkg/qrcode"
	"brittlebones-backend/pkg/validation"
)

const (
	MsgDonationMissingFields = "Missing required fields"
	MsgDonationFailed        = "Failed to create PayFast URL"

	msgAmountNotPositive = "Amount must be greater than zero"
	msgAmountInvalid     = "Amount must be a valid number"
	msgAmountTooLarge    = "Amount is too large"
)

type donationUsecase struct {
	builder  *payfast.Builder
	validate *validator.Validate
}

// NewDonationUsecase creates the PayFast link builder usecase.
func NewDonationUsecase(builder *payfast.Builder, validate *validator.Validate) domain.DonationUsecase {
	return &donationUsecase{
		builder:  builder,
		validate: validate,
	}
}

// BuildLink validates the intent and returns the PayFast redirect URL.
func (uc *donationUsecase) BuildLink(ctx context.Context, intent *domain.DonationIntent) (*domain.DonationLink, error) {
	payment, err := uc.payment(intent)
	if err != nil {
		return nil, err
	}

	if !uc.builder.IsConfigured() {
		return nil, apperror.Configuration(MsgDonationFailed, payfast.ErrNotConfigured)
	}

	link, err := uc.builder.URL(payment)
	if err != nil {
		return nil, apperror.New(500, MsgDonationFailed, err)
	}

	logger.Log.Info("PayFast link created",
		zap.Bool("recurring", payment.Recurring),
		zap.String("amount", payment.Amount),
		zap.String("donor", logger.MaskEmail(payment.Email)),
	)

	return &domain.DonationLink{URL: link}, nil
}

// BuildQRCode renders the PayFast redirect as a PNG QR code.
func (uc *donationUsecase) BuildQRCode(ctx context.Context, intent *domain.DonationIntent, size int) ([]byte, error) {
	link, err := uc.BuildLink(ctx, intent)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.PNG(link.URL, size)
	if err != nil {
		return nil, apperror.New(500, MsgDonationFailed, fmt.Errorf("failed to render QR code: %w", err))
	}
	return png, nil
}

// payment validates the intent and converts it into a PayFast payment.
func (uc *donationUsecase) payment(intent *domain.DonationIntent) (payfast.Payment, error) {
	intent.Normalize()
	if err := uc.validate.Struct(intent); err != nil {
		if validation.HasTag(err, "required") {
			return payfast.Payment{}, apperror.Validation(MsgDonationMissingFields, err)
		}
		return payfast.Payment{}, apperror.Validation(msgInvalidEmail, err)
	}

	cents, err := intent.Amount.Cents()
	if err != nil {
		msg := msgAmountInvalid
		switch {
		case errors.Is(err, domain.ErrAmountNotPositive):
			msg = msgAmountNotPositive
		case errors.Is(err, domain.ErrAmountTooLarge):
			msg = msgAmountTooLarge
		}
		return payfast.Payment{}, apperror.Validation(msg, err)
	}

	return payfast.Payment{
		Amount:    domain.FormatCents(cents),
		FirstName: intent.DonorName,
		Email:     intent.DonorEmail,
		Recurring: intent.IsRecurring,
	}, nil
}
