package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxAmountCents bounds donations well below float64 integer precision.
const maxAmountCents = 100_000_000_000

var (
	ErrAmountInvalid     = errors.New("amount is not a valid decimal number")
	ErrAmountNotPositive = errors.New("amount must be greater than zero")
	ErrAmountTooLarge    = errors.New("amount is too large")
)

// Amount is a donation amount as sent by the browser. The site posts it as a
// string, but plain JSON numbers are accepted too.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount must be a number or a numeric string")
	}
	*a = Amount(n.String())
	return nil
}

// Cents parses the amount and rounds it half away from zero to whole cents.
func (a Amount) Cents() (int64, error) {
	s := strings.TrimSpace(string(a))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrAmountInvalid
	}
	cents := math.Round(f * 100)
	if cents <= 0 {
		return 0, ErrAmountNotPositive
	}
	if cents > maxAmountCents {
		return 0, ErrAmountTooLarge
	}
	return int64(cents), nil
}

// FormatCents renders cents as a plain two-decimal amount, e.g. 10000 -> "100.00".
func FormatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// DonationIntent is a request to start a PayFast payment.
type DonationIntent struct {
	Amount      Amount `json:"amount" validate:"required"`
	DonorName   string `json:"donorName" validate:"required"`
	DonorEmail  string `json:"donorEmail" validate:"required,email"`
	IsRecurring bool   `json:"isRecurring"`
}

func (d *DonationIntent) Normalize() {
	d.Amount = Amount(strings.TrimSpace(string(d.Amount)))
	trim(&d.DonorName, &d.DonorEmail)
}

// DonationLink is the hosted payment page the browser is redirected to.
type DonationLink struct {
	URL string `json:"url"`
}

// DonationUsecase turns a donation intent into a hosted payment redirect.
type DonationUsecase interface {
	BuildLink(ctx context.Context, intent *DonationIntent) (*DonationLink, error)
	// BuildQRCode renders the same redirect as a PNG QR code of size pixels.
	BuildQRCode(ctx context.Context, intent *DonationIntent, size int) ([]byte, error)
}
