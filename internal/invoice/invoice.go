package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how the customer settled the invoice.
type PaymentMethod string

const (
	PaymentTransfer PaymentMethod = "Transferencia bancaria"
	PaymentDeposit  PaymentMethod = "Ingreso en cuenta"
	PaymentBizum    PaymentMethod = "Bizum"
)

// PaymentMethods lists the methods used to fill rows that carry none.
var PaymentMethods = []PaymentMethod{PaymentTransfer, PaymentDeposit, PaymentBizum}

// ParsePaymentMethod matches s against the known methods, ignoring case and
// surrounding spaces.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	s = strings.TrimSpace(s)

	for _, m := range PaymentMethods {
		if strings.EqualFold(s, string(m)) {
			return m, true
		}
	}

	return "", false
}

const (
	// WalkInClient is the client label for anonymous customers.
	WalkInClient = "Consumidor final"

	// DateLayout is the external date representation (DD/MM/YYYY).
	DateLayout = "02/01/2006"

	// CurrencySymbol prefixes every formatted amount.
	CurrencySymbol = "€"
)

// taxDivisor is 1 + the fixed 21% VAT rate.
var taxDivisor = decimal.RequireFromString("1.21")

// Draft is a normalized invoice row that has not been committed to the ledger yet.
type Draft struct {
	Date          time.Time
	Concept       string
	Gross         int64 // Amount in cents, VAT included
	Net           int64 // Amount in cents, VAT excluded
	Number        string
	PaymentMethod PaymentMethod
	Client        string
}

// Invoice is a persisted ledger row.
type Invoice struct {
	ID            uuid.UUID
	Tenant        string
	Number        string
	Date          time.Time
	Concept       string
	Gross         int64 // Amount in cents, VAT included
	Net           int64 // Amount in cents, VAT excluded
	PaymentMethod PaymentMethod
	Client        string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// Draft returns the row values of a persisted invoice.
func (inv *Invoice) Draft() Draft {
	return Draft{
		Date:          inv.Date,
		Concept:       inv.Concept,
		Gross:         inv.Gross,
		Net:           inv.Net,
		Number:        inv.Number,
		PaymentMethod: inv.PaymentMethod,
		Client:        inv.Client,
	}
}

// Cents converts a decimal euro amount into cents.
func Cents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// NetFromGross derives the VAT-exclusive amount in cents.
func NetFromGross(gross decimal.Decimal) int64 {
	return Cents(gross.Div(taxDivisor))
}

// FormatAmount renders cents as "€12.50".
func FormatAmount(cents int64) string {
	return CurrencySymbol + decimal.New(cents, -2).StringFixed(2)
}

// FormatDate renders a date as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Period returns the MM/YYYY key of a date.
func Period(t time.Time) string {
	return fmt.Sprintf("%02d/%04d", int(t.Month()), t.Year())
}

// Drafts returns the row values of persisted invoices, in order.
func Drafts(invs []*Invoice) []Draft {
	out := make([]Draft, len(invs))
	for i, inv := range invs {
		out[i] = inv.Draft()
	}

	return out
}
