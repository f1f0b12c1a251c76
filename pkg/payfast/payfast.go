// Package payfast builds redirect URLs for the PayFast hosted payment page.
// It never talks to PayFast; the browser follows the URL.
package payfast

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
	"time"
)

const (
	LiveURL    = "https://www.payfast.co.za/eng/process"
	SandboxURL = "https://sandbox.payfast.co.za/eng/process"

	// SubscriptionTypeSubscription marks a recurring billing agreement.
	SubscriptionTypeSubscription = "1"
	// FrequencyMonthly is PayFast's frequency code for monthly billing.
	FrequencyMonthly = "3"
	// CyclesIndefinite keeps billing until the donor cancels.
	CyclesIndefinite = "0"

	ItemNameOnceOff = "Once-off Donation"
	ItemNameMonthly = "Monthly Donation"
)

// ErrNotConfigured is returned when merchant settings are incomplete.
var ErrNotConfigured = errors.New("payfast: merchant configuration incomplete")

// Config holds the merchant account settings.
type Config struct {
	MerchantID  string
	MerchantKey string
	ReturnURL   string
	CancelURL   string
	NotifyURL   string
	// Passphrase enables request signing when set on the PayFast account.
	Passphrase string
	Sandbox    bool
}

// Payment is one donation to redirect.
type Payment struct {
	// Amount is already formatted with two decimals, e.g. "100.00".
	Amount    string
	FirstName string
	Email     string
	Recurring bool
}

// Param is one query parameter. Order matters for the signature.
type Param struct {
	Key   string
	Value string
}

// Builder turns payments into redirect URLs.
type Builder struct {
	cfg     Config
	baseURL string
	now     func() time.Time
}

type Option func(*Builder)

// WithClock overrides the clock used for the subscription billing date.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithBaseURL overrides the processor URL.
func WithBaseURL(u string) Option {
	return func(b *Builder) { b.baseURL = u }
}

func NewBuilder(cfg Config, opts ...Option) *Builder {
	b := &Builder{
		cfg:     cfg,
		baseURL: LiveURL,
		now:     time.Now,
	}
	if cfg.Sandbox {
		b.baseURL = SandboxURL
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// IsConfigured reports whether every merchant setting is present.
func (b *Builder) IsConfigured() bool {
	for _, v := range []string{b.cfg.MerchantID, b.cfg.MerchantKey, b.cfg.ReturnURL, b.cfg.CancelURL, b.cfg.NotifyURL} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// Params returns the ordered parameter list for p, without a signature.
func (b *Builder) Params(p Payment) []Param {
	itemName := ItemNameOnceOff
	if p.Recurring {
		itemName = ItemNameMonthly
	}

	params := []Param{
		{"merchant_id", b.cfg.MerchantID},
		{"merchant_key", b.cfg.MerchantKey},
		{"return_url", b.cfg.ReturnURL},
		{"cancel_url", b.cfg.CancelURL},
		{"notify_url", b.cfg.NotifyURL},
		{"amount", p.Amount},
		{"item_name", itemName},
		{"name_first", p.FirstName},
		{"email_address", p.Email},
	}

	if p.Recurring {
		params = append(params,
			Param{"subscription_type", SubscriptionTypeSubscription},
			Param{"billing_date", b.now().UTC().Format(time.DateOnly)},
			Param{"recurring_amount", p.Amount},
			Param{"frequency", FrequencyMonthly},
			Param{"cycles", CyclesIndefinite},
		)
	}
	return params
}

// URL builds the redirect for p. When a passphrase is configured the
// parameter set is signed.
func (b *Builder) URL(p Payment) (string, error) {
	if !b.IsConfigured() {
		return "", ErrNotConfigured
	}

	params := b.Params(p)
	if b.cfg.Passphrase != "" {
		params = append(params, Param{"signature", Signature(params, b.cfg.Passphrase)})
	}

	return b.baseURL + "?" + Encode(params), nil
}

// Encode joins params as key=value pairs with every value percent-encoded
// the way browsers' encodeURIComponent does (space becomes %20).
func Encode(params []Param) string {
	var sb strings.Builder
	for i, p := range params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(p.Key)
		sb.WriteByte('=')
		sb.WriteString(EscapeComponent(p.Value))
	}
	return sb.String()
}

// EscapeComponent percent-encodes v for a query value, using %20 for spaces.
func EscapeComponent(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}

// Signature computes PayFast's MD5 request signature: non-empty params in
// order, PHP urlencode'd, joined with '&', with the passphrase appended.
func Signature(params []Param, passphrase string) string {
	var sb strings.Builder
	for _, p := range params {
		v := strings.TrimSpace(p.Value)
		if v == "" || p.Key == "signature" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(p.Key)
		sb.WriteByte('=')
		sb.WriteString(phpURLEncode(v))
	}
	if passphrase != "" {
		sb.WriteString("&passphrase=")
		sb.WriteString(phpURLEncode(strings.TrimSpace(passphrase)))
	}

	sum := md5.Sum([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// phpURLEncode matches PHP's urlencode, which PayFast uses to verify
// signatures: spaces become '+', and '~' is escaped.
func phpURLEncode(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "~", "%7E")
}
