// Package khqr builds KHQR payment payloads: EMVCo-style tag-length-value
// strings that Cambodian banking apps scan to push a fixed amount to a
// Bakong merchant account under a given bill reference.
package khqr

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is returned when the amount is missing, zero,
	// negative, or carries more than 2 decimal digits.
	ErrInvalidAmount = errors.New("khqr: invalid amount")

	// ErrMerchantConfigMissing is returned when the merchant identity
	// fields are not configured.
	ErrMerchantConfigMissing = errors.New("khqr: merchant configuration missing")

	// ErrUnsupportedCurrency is returned for currencies other than USD/KHR.
	ErrUnsupportedCurrency = errors.New("khqr: unsupported currency")
)

// EMVCo data object tags used by KHQR.
const (
	tagPayloadFormat    = "00"
	tagPointOfInit      = "01"
	tagMerchantAccount  = "29"
	tagMerchantCategory = "52"
	tagCurrency         = "53"
	tagAmount           = "54"
	tagCountryCode      = "58"
	tagMerchantName     = "59"
	tagMerchantCity     = "60"
	tagAdditionalData   = "62"
	tagCRC              = "63"

	subTagAccountID     = "00"
	subTagAcquiringBank = "02"

	subTagBillNumber    = "01"
	subTagStoreLabel    = "03"
	subTagTerminalLabel = "07"
)

// ISO 4217 numeric codes for the currencies Bakong settles.
var currencyCodes = map[string]string{
	"USD": "840",
	"KHR": "116",
}

// Merchant identifies the receiving account encoded into every payload.
type Merchant struct {
	BakongAccountID string
	MerchantName    string
	MerchantCity    string
	AcquiringBank   string
	StoreLabel      string
	TerminalLabel   string
}

// Intent is a generated payment payload plus its fingerprint.
type Intent struct {
	BillNumber string
	Payload    string
	MD5        string
	Amount     decimal.Decimal
	Currency   string
}

// Generate builds the QR payload for one payment attempt. It is a pure
// construction step: recording the intent in the ledger is the caller's job.
func Generate(m Merchant, amount decimal.Decimal, currency, billNumber string) (*Intent, error) {
	if m.BakongAccountID == "" || m.MerchantName == "" {
		return nil, ErrMerchantConfigMissing
	}
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}
	currencyCode, ok := currencyCodes[currency]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, currency)
	}
	if billNumber == "" {
		return nil, errors.New("khqr: bill number is required")
	}

	var b strings.Builder
	b.WriteString(tlv(tagPayloadFormat, "01"))
	b.WriteString(tlv(tagPointOfInit, "12")) // dynamic QR, single use

	account := tlv(subTagAccountID, m.BakongAccountID)
	if m.AcquiringBank != "" {
		account += tlv(subTagAcquiringBank, m.AcquiringBank)
	}
	b.WriteString(tlv(tagMerchantAccount, account))

	b.WriteString(tlv(tagMerchantCategory, "5999"))
	b.WriteString(tlv(tagCurrency, currencyCode))
	b.WriteString(tlv(tagAmount, formatAmount(amount, currency)))
	b.WriteString(tlv(tagCountryCode, "KH"))
	b.WriteString(tlv(tagMerchantName, clamp(m.MerchantName, 25)))
	b.WriteString(tlv(tagMerchantCity, clamp(m.MerchantCity, 15)))

	additional := tlv(subTagBillNumber, clamp(billNumber, 25))
	if m.StoreLabel != "" {
		additional += tlv(subTagStoreLabel, clamp(m.StoreLabel, 25))
	}
	if m.TerminalLabel != "" {
		additional += tlv(subTagTerminalLabel, clamp(m.TerminalLabel, 25))
	}
	b.WriteString(tlv(tagAdditionalData, additional))

	// The CRC covers the whole payload including its own tag and length.
	payload := b.String() + tagCRC + "04"
	payload += fmt.Sprintf("%04X", crc16(payload))

	sum := md5.Sum([]byte(payload))

	return &Intent{
		BillNumber: billNumber,
		Payload:    payload,
		MD5:        hex.EncodeToString(sum[:]),
		Amount:     amount,
		Currency:   currency,
	}, nil
}

// ValidateAmount rejects non-positive amounts and amounts finer than the
// 2-decimal currency precision.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%w: more than 2 decimal digits in %s", ErrInvalidAmount, amount)
	}
	return nil
}

// formatAmount renders the transaction amount field. KHR has no minor unit.
func formatAmount(amount decimal.Decimal, currency string) string {
	if currency == "KHR" {
		return amount.Round(0).String()
	}
	return amount.StringFixed(2)
}

// tlv encodes one tag-length-value data object. EMVCo lengths are two
// decimal digits, so values are capped at 99 characters upstream.
func tlv(tag, value string) string {
	return fmt.Sprintf("%s%02d%s", tag, len(value), value)
}

func clamp(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

// crc16 computes CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF) as required
// by EMVCo for the tag 63 checksum.
func crc16(s string) uint16 {
	crc := uint16(0xFFFF)
	for i := 0; i < len(s); i++ {
		crc ^= uint16(s[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
