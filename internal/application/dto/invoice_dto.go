package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/create_invoice.
type CreateInvoiceRequest struct {
	InvoiceData  InvoiceDataRequest   `json:"invoice_data"`
	InvoiceLines []InvoiceLineRequest `json:"invoice_lines"`
}

// InvoiceDataRequest cabecera; PartnerRef es la ref del cliente.
// Las fechas van en formato YYYY-MM-DD.
type InvoiceDataRequest struct {
	PartnerRef      string `json:"partner_id" validate:"required"`
	InvoiceDate     string `json:"invoice_date" validate:"omitempty,datetime=2006-01-02"`
	InvoiceDateDue  string `json:"invoice_date_due" validate:"omitempty,datetime=2006-01-02"`
	PaymentMethodID *int64 `json:"l10n_mx_edi_payment_method_id"`
	EDIUsage        string `json:"l10n_mx_edi_usage"`
	PaymentTermID   *int64 `json:"invoice_payment_term_id"`
}

// InvoiceLineRequest línea de factura. Los campos nil toman su valor por defecto;
// TaxIDs nil usa el IVA por defecto, una lista vacía deja la línea sin impuestos.
type InvoiceLineRequest struct {
	Description *string          `json:"description"`
	Quantity    *decimal.Decimal `json:"quantity"`
	PriceUnit   *decimal.Decimal `json:"price_unit"`
	TaxIDs      *TaxIDs          `json:"tax_ids"`
}

// TaxIDs acepta un id suelto (16) o una lista ([16, 17]).
type TaxIDs []int64

// UnmarshalJSON implementa json.Unmarshaler.
func (t *TaxIDs) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var ids []int64
		if err := json.Unmarshal(b, &ids); err != nil {
			return fmt.Errorf("tax_ids: %w", err)
		}
		*t = ids
		return nil
	}
	var id int64
	if err := json.Unmarshal(b, &id); err != nil {
		return fmt.Errorf("tax_ids: se esperaba un entero o una lista de enteros")
	}
	*t = TaxIDs{id}
	return nil
}

// InvoiceCreatedResponse respuesta 201 de create_invoice.
type InvoiceCreatedResponse struct {
	Status        string  `json:"status"`
	InvoiceID     int64   `json:"invoice_id"`
	InvoiceNumber string  `json:"invoice_number"`
	Total         float64 `json:"total"`
}
