package entity

import "github.com/shopspring/decimal"

// Tipos de cuenta y de uso de impuesto relevantes para facturas de cliente.
const (
	AccountTypeIncome     = "income"
	AccountTypeReceivable = "asset_receivable"
	TaxUseSale            = "sale"
	JournalTypeSale       = "sale"
)

// Account cuenta contable (account.account).
type Account struct {
	ID          int64
	Code        string
	Name        string
	AccountType string
}

// Journal diario de ventas (account.journal). CurrencyID es la moneda del diario o, si no
// tiene, la de su compañía.
type Journal struct {
	ID         int64
	Code       string
	CompanyID  int64
	CurrencyID int64
}

// Tax impuesto porcentual (account.tax). Amount es el porcentaje, ej. 16.
// AccountID es la cuenta de la línea de impuesto en facturas (reparto tipo "tax"); nil si no tiene.
type Tax struct {
	ID         int64
	Name       string
	TypeTaxUse string
	Amount     decimal.Decimal
	Active     bool
	AccountID  *int64
}

// Rate devuelve la tasa como fracción (16 -> 0.16).
func (t *Tax) Rate() decimal.Decimal {
	return t.Amount.Div(decimal.NewFromInt(100))
}
