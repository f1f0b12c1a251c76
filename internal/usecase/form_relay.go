package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"brittlebones-backend/internal/domain"
	"brittlebones-backend/pkg/apperror"
	"brittlebones-backend/pkg/email"
	"brittlebones-backend/pkg/logger"
	"brittlebones-backend/pkg/validation"
)

const (
	msgInvalidEmail     = "Please provide a valid email address."
	msgDeliveryRequired = "Delivery mode and time are required for this type of donation."
)

// formKind describes everything that differs between the public forms.
type formKind struct {
	missingFields string
	success       string
	failure       string

	adminFromName string
	adminTemplate string
	adminSubject  func(domain.Submission) string
	ackSubject    string
	ackTemplate   string
}

var formKinds = map[domain.Kind]formKind{
	domain.KindContact: {
		missingFields: "All fields required",
		success:       "Email sent successfully!",
		failure:       "Failed to send email.",
		adminFromName: "Contact Form",
		adminTemplate: email.TemplateContactAdmin,
		adminSubject: func(s domain.Submission) string {
			return "New Contact Form Submission: " + s.(*domain.ContactSubmission).Subject
		},
		ackSubject:  "We've received your message!",
		ackTemplate: email.TemplateContactAck,
	},
	domain.KindVolunteer: {
		missingFields: "All required fields must be filled.",
		success:       "Volunteer form submitted successfully!",
		failure:       "Failed to send volunteer form.",
		adminFromName: "Volunteer Form",
		adminTemplate: email.TemplateVolunteerAdmin,
		adminSubject: func(s domain.Submission) string {
			name, _ := s.Submitter()
			return "New Volunteer Signup: " + name
		},
		ackSubject:  "Volunteer Signup Confirmation",
		ackTemplate: email.TemplateVolunteerAck,
	},
	domain.KindItemDonation: {
		missingFields: "All fields are required.",
		success:       "Donation email sent.",
		failure:       "Failed to send email.",
		adminFromName: "Item Donation",
		adminTemplate: email.TemplateItemDonationAdmin,
		adminSubject: func(s domain.Submission) string {
			name, _ := s.Submitter()
			return "New Item Donation from " + name
		},
		ackSubject:  "Thank You for Your Donation!",
		ackTemplate: email.TemplateItemDonationAck,
	},
}

// RelayOptions configures addresses and limits for the form relay.
type RelayOptions struct {
	FromEmail  string
	AdminEmail string
	Branding   email.Branding
	// Timeout bounds both sends together; zero means no extra bound.
	Timeout time.Duration
}

type formRelayUsecase struct {
	sender   email.Sender
	renderer *email.Renderer
	validate *validator.Validate
	opts     RelayOptions
}

// NewFormRelayUsecase creates the relay for all public forms.
func NewFormRelayUsecase(sender email.Sender, renderer *email.Renderer, validate *validator.Validate, opts RelayOptions) domain.FormRelayUsecase {
	return &formRelayUsecase{
		sender:   sender,
		renderer: renderer,
		validate: validate,
		opts:     opts,
	}
}

func (uc *formRelayUsecase) MissingFieldsMessage(kind domain.Kind) string {
	if k, ok := formKinds[kind]; ok {
		return k.missingFields
	}
	return "All fields are required."
}

// Submit validates sub and sends the admin notification and the submitter
// acknowledgment concurrently. Both sends finish before it returns; if either
// fails the result is a relay error even though the other may have gone out.
func (uc *formRelayUsecase) Submit(ctx context.Context, sub domain.Submission) (*domain.RelayResult, error) {
	kind, ok := formKinds[sub.Kind()]
	if !ok {
		return nil, apperror.Internal(fmt.Errorf("no relay settings for form kind %q", sub.Kind()))
	}

	sub.Normalize()
	if err := uc.validate.Struct(sub); err != nil {
		return nil, apperror.Validation(validationMessage(kind, err), err)
	}

	if uc.sender == nil || !uc.sender.IsConfigured() || uc.opts.AdminEmail == "" || uc.opts.FromEmail == "" {
		return nil, apperror.Configuration(kind.failure, email.ErrNotConfigured)
	}

	msgs, err := uc.compose(kind, sub)
	if err != nil {
		return nil, apperror.Relay(kind.failure, err)
	}

	if uc.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.opts.Timeout)
		defer cancel()
	}

	// Plain group: one failed send must not cancel the other
	var g errgroup.Group
	for _, msg := range msgs {
		msg := msg
		g.Go(func() error {
			return uc.sender.Send(ctx, msg)
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("mail relay timed out after %s: %w", uc.opts.Timeout, err)
		}
		return nil, apperror.Relay(kind.failure, err)
	}

	_, submitterEmail := sub.Submitter()
	logger.Log.Info("Form submission relayed",
		zap.String("kind", string(sub.Kind())),
		zap.String("submitter", logger.MaskEmail(submitterEmail)),
	)

	return &domain.RelayResult{Message: kind.success}, nil
}

// compose renders the admin summary and the submitter acknowledgment.
func (uc *formRelayUsecase) compose(kind formKind, sub domain.Submission) ([]*email.Message, error) {
	data := email.TemplateData{Branding: uc.opts.Branding, Form: sub}
	if item, ok := sub.(*domain.ItemDonationSubmission); ok {
		data.DeliveryRequired = item.DeliveryRequired()
	}

	adminHTML, err := uc.renderer.Render(kind.adminTemplate, data)
	if err != nil {
		return nil, err
	}
	ackHTML, err := uc.renderer.Render(kind.ackTemplate, data)
	if err != nil {
		return nil, err
	}

	name, addr := sub.Submitter()
	return []*email.Message{
		{
			FromName: kind.adminFromName,
			From:     uc.opts.FromEmail,
			To:       uc.opts.AdminEmail,
			ReplyTo:  addr,
			Subject:  kind.adminSubject(sub),
			HTML:     adminHTML,
		},
		{
			FromName: uc.opts.Branding.OrgName,
			From:     uc.opts.FromEmail,
			To:       addr,
			ToName:   name,
			Subject:  kind.ackSubject,
			HTML:     ackHTML,
		},
	}, nil
}

// validationMessage picks the client message for a failed submission:
// missing fields first, then a malformed address, then the delivery rule.
func validationMessage(kind formKind, err error) string {
	switch {
	case validation.HasTag(err, "required"):
		return kind.missingFields
	case validation.HasTag(err, "email"):
		return msgInvalidEmail
	case validation.HasTag(err, validation.TagRequiredIfOneOf):
		return msgDeliveryRequired
	default:
		return kind.missingFields
	}
}
