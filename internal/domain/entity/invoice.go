package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipo y estado de movimiento para facturas de cliente.
const (
	MoveTypeOutInvoice = "out_invoice"
	MoveStateDraft     = "draft"
)

// Tipos de línea del asiento (account.move.line.display_type).
const (
	LineDisplayProduct     = "product"
	LineDisplayTax         = "tax"
	LineDisplayPaymentTerm = "payment_term"
)

// DraftNumberPlaceholder se devuelve como número mientras la factura no tiene folio asignado.
const DraftNumberPlaceholder = "Borrador"

// Invoice cabecera de factura de cliente (account.move).
// Name queda vacío en borrador; el folio lo asigna la plataforma al publicar.
// Lines contiene el asiento completo: conceptos, impuestos y la contrapartida por cobrar.
type Invoice struct {
	ID                  int64
	Name                string
	MoveType            string
	State               string
	Date                time.Time // fecha contable
	JournalID           int64
	CompanyID           int64
	CurrencyID          int64
	PartnerID           int64
	CommercialPartnerID int64
	InvoiceDate         *time.Time
	InvoiceDateDue      *time.Time
	PaymentTermID       *int64 // invoice_payment_term_id
	PaymentMethodID     *int64 // l10n_mx_edi_payment_method_id
	EDIUsage            string // l10n_mx_edi_usage
	AmountUntaxed       decimal.Decimal
	AmountTax           decimal.Decimal
	AmountTotal         decimal.Decimal
	Lines               []*InvoiceLine
	CreatedAt           time.Time
}

// DisplayNumber devuelve el folio o el marcador de borrador.
func (i *Invoice) DisplayNumber() string {
	if i.Name == "" || i.Name == "/" {
		return DraftNumberPlaceholder
	}
	return i.Name
}

// Balanced indica si la suma de los saldos de las líneas es cero.
func (i *Invoice) Balanced() bool {
	sum := decimal.Zero
	for _, l := range i.Lines {
		sum = sum.Add(l.Balance)
	}
	return sum.IsZero()
}

// LinesOfType filtra las líneas por display_type.
func (i *Invoice) LinesOfType(displayType string) []*InvoiceLine {
	var out []*InvoiceLine
	for _, l := range i.Lines {
		if l.DisplayType == displayType {
			out = append(out, l)
		}
	}
	return out
}

// InvoiceLine línea del asiento (account.move.line).
// Balance positivo es cargo (debit), negativo abono (credit), en la moneda de la compañía.
type InvoiceLine struct {
	ID            int64
	MoveID        int64
	DisplayType   string
	Name          string
	AccountID     int64
	PartnerID     int64
	Quantity      decimal.Decimal
	PriceUnit     decimal.Decimal
	PriceSubtotal decimal.Decimal
	PriceTotal    decimal.Decimal
	Balance       decimal.Decimal
	TaxIDs        []int64 // impuestos aplicados (solo conceptos)
	TaxLineID     *int64  // impuesto que origina la línea (solo líneas de impuesto)
	TaxBaseAmount decimal.Decimal
	DateMaturity  *time.Time
}

// Debit parte deudora del saldo.
func (l *InvoiceLine) Debit() decimal.Decimal {
	if l.Balance.IsPositive() {
		return l.Balance
	}
	return decimal.Zero
}

// Credit parte acreedora del saldo.
func (l *InvoiceLine) Credit() decimal.Decimal {
	if l.Balance.IsNegative() {
		return l.Balance.Neg()
	}
	return decimal.Zero
}
