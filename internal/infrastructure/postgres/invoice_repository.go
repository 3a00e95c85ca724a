package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stings-api/internal/domain/entity"
	"github.com/jhoicas/stings-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository sobre account_move / account_move_line (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera de la factura. name queda NULL mientras sea borrador.
// Los importes *_signed van en positivo (factura de cliente) y el residual es el total.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO account_move (
			name, move_type, state, date, journal_id, company_id, currency_id,
			partner_id, commercial_partner_id, invoice_date, invoice_date_due,
			invoice_payment_term_id, l10n_mx_edi_payment_method_id, l10n_mx_edi_usage,
			amount_untaxed, amount_tax, amount_total, amount_residual,
			amount_untaxed_signed, amount_tax_signed, amount_total_signed, amount_residual_signed,
			payment_state, auto_post, create_date, write_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $17, $15, $16, $17, $17,
			'not_paid', 'no', $18, $18)
		RETURNING id, COALESCE(name, '')`
	err := r.q.QueryRow(ctx, query,
		nullIfEmpty(inv.Name), inv.MoveType, inv.State, inv.Date, inv.JournalID, inv.CompanyID, inv.CurrencyID,
		inv.PartnerID, inv.CommercialPartnerID, inv.InvoiceDate, inv.InvoiceDateDue,
		inv.PaymentTermID, inv.PaymentMethodID, nullIfEmpty(inv.EDIUsage),
		inv.AmountUntaxed, inv.AmountTax, inv.AmountTotal, inv.CreatedAt,
	).Scan(&inv.ID, &inv.Name)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateLine persiste una línea del asiento y, si es concepto, su relación con impuestos.
// Diario, compañía, monedas, fecha y estado se copian de la cabecera (move_id).
// Las líneas de impuesto llevan el reparto "tax" de facturas de su impuesto.
func (r *InvoiceRepo) CreateLine(ctx context.Context, line *entity.InvoiceLine) error {
	query := `
		INSERT INTO account_move_line (
			move_id, journal_id, company_id, company_currency_id, currency_id, date, parent_state,
			display_type, name, account_id, partner_id, quantity, price_unit, price_subtotal, price_total,
			balance, amount_currency, debit, credit, amount_residual, amount_residual_currency,
			tax_line_id, tax_repartition_line_id, tax_base_amount, date_maturity, create_date, write_date)
		SELECT m.id, m.journal_id, m.company_id, c.currency_id, m.currency_id, m.date, m.state,
			$2, $3, $4, $5, $6, $7, $8, $9,
			$10, $10, $11, $12, $13, $13,
			$14::integer,
			(SELECT rl.id FROM account_tax_repartition_line rl
				WHERE rl.tax_id = $14::integer AND rl.repartition_type = 'tax' AND rl.document_type = 'invoice'
				ORDER BY rl.sequence, rl.id LIMIT 1),
			$15, $16, m.create_date, m.create_date
		FROM account_move m
		JOIN res_company c ON c.id = m.company_id
		WHERE m.id = $1
		RETURNING id`
	residual := decimal.Zero
	if line.DisplayType == entity.LineDisplayPaymentTerm {
		residual = line.Balance
	}
	err := r.q.QueryRow(ctx, query,
		line.MoveID,
		line.DisplayType, nullIfEmpty(line.Name), line.AccountID, line.PartnerID,
		line.Quantity, line.PriceUnit, line.PriceSubtotal, line.PriceTotal,
		line.Balance, line.Debit(), line.Credit(), residual,
		line.TaxLineID, line.TaxBaseAmount, line.DateMaturity,
	).Scan(&line.ID)
	if err != nil {
		return fmt.Errorf("insert invoice line (%s): %w", line.DisplayType, err)
	}
	if line.DisplayType != entity.LineDisplayProduct || len(line.TaxIDs) == 0 {
		return nil
	}
	const relQuery = `
		INSERT INTO account_move_line_account_tax_rel (account_move_line_id, account_tax_id)
		SELECT $1, unnest($2::bigint[])`
	if _, err := r.q.Exec(ctx, relQuery, line.ID, line.TaxIDs); err != nil {
		return fmt.Errorf("insert invoice line taxes: %w", err)
	}
	return nil
}
