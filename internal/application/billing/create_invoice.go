package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stings-api/internal/application/auth"
	"github.com/jhoicas/stings-api/internal/application/dto"
	"github.com/jhoicas/stings-api/internal/domain"
	"github.com/jhoicas/stings-api/internal/domain/entity"
	"github.com/jhoicas/stings-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DefaultLineDescription concepto usado cuando la línea no trae descripción.
const DefaultLineDescription = "Concepto General"

const dateLayout = "2006-01-02"

// CreateInvoiceUseCase crea facturas de cliente en borrador a partir del payload de la API.
type CreateInvoiceUseCase struct {
	txRunner       InvoiceTxRunner
	partnerRepo    repository.PartnerRepository
	accountingRepo repository.AccountingRepository
	defaults       *DefaultsResolver
	now            func() time.Time
}

// NewCreateInvoiceUseCase construye el caso de uso.
func NewCreateInvoiceUseCase(
	txRunner InvoiceTxRunner,
	partnerRepo repository.PartnerRepository,
	accountingRepo repository.AccountingRepository,
	defaults *DefaultsResolver,
) *CreateInvoiceUseCase {
	return &CreateInvoiceUseCase{
		txRunner:       txRunner,
		partnerRepo:    partnerRepo,
		accountingRepo: accountingRepo,
		defaults:       defaults,
		now:            time.Now,
	}
}

// CreateInvoice valida el payload, resuelve cliente, cuenta e impuestos, calcula totales
// y guarda cabecera y líneas en una sola transacción.
func (uc *CreateInvoiceUseCase) CreateInvoice(ctx context.Context, sa auth.ServiceAccount, in *dto.CreateInvoiceRequest) (*dto.InvoiceCreatedResponse, error) {
	if err := sa.Require(auth.ScopeInvoicesWrite); err != nil {
		return nil, err
	}
	if in == nil {
		return nil, domain.NewValidationError("payload de factura vacío")
	}
	if err := dto.Validate("datos de factura inválidos", &in.InvoiceData); err != nil {
		return nil, err
	}
	if len(in.InvoiceLines) == 0 {
		return nil, domain.NewValidationError("debe enviar al menos una línea",
			domain.FieldError{Field: "invoice_lines", Message: "es requerido"})
	}

	// 1) Cliente por ref
	partner, err := uc.partnerRepo.FindByRef(ctx, in.InvoiceData.PartnerRef)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, fmt.Errorf("%w: partner con ref %s no existe", domain.ErrNotFound, in.InvoiceData.PartnerRef)
	}

	// 2) Diario (compañía y moneda), cuentas e impuestos de cada línea
	journal, err := uc.defaults.SaleJournal(ctx)
	if err != nil {
		return nil, err
	}
	income, err := uc.defaults.IncomeAccount(ctx)
	if err != nil {
		return nil, err
	}
	receivable, err := uc.defaults.ReceivableAccount(ctx)
	if err != nil {
		return nil, err
	}
	taxesByLine, err := uc.resolveLineTaxes(ctx, in.InvoiceLines)
	if err != nil {
		return nil, err
	}

	// 3) Cabecera y asiento completo (redondeo por línea a 2 decimales)
	now := uc.now()
	inv := &entity.Invoice{
		MoveType:            entity.MoveTypeOutInvoice,
		State:               entity.MoveStateDraft,
		JournalID:           journal.ID,
		CompanyID:           journal.CompanyID,
		CurrencyID:          journal.CurrencyID,
		PartnerID:           partner.ID,
		CommercialPartnerID: partner.CommercialID(),
		PaymentTermID:       in.InvoiceData.PaymentTermID,
		PaymentMethodID:     in.InvoiceData.PaymentMethodID,
		EDIUsage:            in.InvoiceData.EDIUsage,
		CreatedAt:           now,
	}
	if inv.InvoiceDate, err = parseDate(in.InvoiceData.InvoiceDate); err != nil {
		return nil, err
	}
	if inv.InvoiceDateDue, err = parseDate(in.InvoiceData.InvoiceDateDue); err != nil {
		return nil, err
	}
	inv.Date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if inv.InvoiceDate != nil {
		inv.Date = *inv.InvoiceDate
	}
	if err := buildMove(inv, in.InvoiceLines, taxesByLine, income.ID, receivable.ID); err != nil {
		return nil, err
	}

	// 4) Persistencia atómica
	err = uc.txRunner.RunInvoice(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		for _, line := range inv.Lines {
			line.MoveID = inv.ID
			if err := invoiceRepo.CreateLine(ctx, line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.InvoiceCreatedResponse{
		Status:        dto.StatusSuccess,
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.DisplayNumber(),
		Total:         inv.AmountTotal.InexactFloat64(),
	}, nil
}

// resolveLineTaxes devuelve los impuestos de cada línea. Las líneas sin tax_ids usan el
// impuesto de venta por defecto, que solo se consulta si alguna línea lo necesita.
func (uc *CreateInvoiceUseCase) resolveLineTaxes(ctx context.Context, lines []dto.InvoiceLineRequest) ([][]*entity.Tax, error) {
	var explicit []int64
	needDefault := false
	for _, l := range lines {
		if l.TaxIDs == nil {
			needDefault = true
			continue
		}
		explicit = append(explicit, *l.TaxIDs...)
	}

	var defaultTax *entity.Tax
	if needDefault {
		t, err := uc.defaults.SaleTax(ctx)
		if err != nil {
			return nil, err
		}
		defaultTax = t
	}

	byID := make(map[int64]*entity.Tax)
	if len(explicit) > 0 {
		found, err := uc.accountingRepo.GetTaxesByIDs(ctx, uniqueIDs(explicit))
		if err != nil {
			return nil, fmt.Errorf("consultar impuestos: %w", err)
		}
		for _, t := range found {
			byID[t.ID] = t
		}
	}

	out := make([][]*entity.Tax, len(lines))
	var fieldErrs []domain.FieldError
	for i, l := range lines {
		if l.TaxIDs == nil {
			out[i] = []*entity.Tax{defaultTax}
			continue
		}
		taxes := make([]*entity.Tax, 0, len(*l.TaxIDs))
		for _, id := range *l.TaxIDs {
			t, ok := byID[id]
			switch {
			case !ok:
				fieldErrs = append(fieldErrs, domain.FieldError{
					Field:   fmt.Sprintf("invoice_lines[%d].tax_ids", i),
					Message: fmt.Sprintf("el impuesto %d no existe", id),
				})
			case t.TypeTaxUse != entity.TaxUseSale:
				fieldErrs = append(fieldErrs, domain.FieldError{
					Field:   fmt.Sprintf("invoice_lines[%d].tax_ids", i),
					Message: fmt.Sprintf("el impuesto %d no es de venta", id),
				})
			default:
				taxes = append(taxes, t)
			}
		}
		out[i] = taxes
	}
	if len(fieldErrs) > 0 {
		return nil, domain.NewValidationError("impuestos inválidos", fieldErrs...)
	}
	return out, nil
}

// taxTotal acumula importe y base de un impuesto para su línea de impuesto.
type taxTotal struct {
	tax    *entity.Tax
	amount decimal.Decimal
	base   decimal.Decimal
}

// buildMove agrega a inv las líneas de concepto, una línea por impuesto y la contrapartida por cobrar,
// y calcula los totales. Los conceptos e impuestos van al haber; la cuenta por cobrar al debe.
func buildMove(inv *entity.Invoice, lines []dto.InvoiceLineRequest, taxesByLine [][]*entity.Tax, incomeAccountID, receivableAccountID int64) error {
	var (
		totals []*taxTotal
		byTax  = make(map[int64]*taxTotal)
	)
	for i, l := range lines {
		line, amounts := buildLine(l, incomeAccountID, taxesByLine[i])
		line.PartnerID = inv.PartnerID
		inv.Lines = append(inv.Lines, line)
		inv.AmountUntaxed = inv.AmountUntaxed.Add(line.PriceSubtotal)
		inv.AmountTotal = inv.AmountTotal.Add(line.PriceTotal)
		for j, t := range taxesByLine[i] {
			tt, ok := byTax[t.ID]
			if !ok {
				tt = &taxTotal{tax: t}
				byTax[t.ID] = tt
				totals = append(totals, tt)
			}
			tt.amount = tt.amount.Add(amounts[j])
			tt.base = tt.base.Add(line.PriceSubtotal)
		}
	}
	inv.AmountTax = inv.AmountTotal.Sub(inv.AmountUntaxed)

	for _, tt := range totals {
		if tt.amount.IsZero() {
			continue
		}
		if tt.tax.AccountID == nil {
			return fmt.Errorf("%w: el impuesto %d (%s) no tiene cuenta de impuesto para facturas",
				domain.ErrNoDefaultConfigured, tt.tax.ID, tt.tax.Name)
		}
		taxID := tt.tax.ID
		inv.Lines = append(inv.Lines, &entity.InvoiceLine{
			DisplayType:   entity.LineDisplayTax,
			Name:          tt.tax.Name,
			AccountID:     *tt.tax.AccountID,
			PartnerID:     inv.PartnerID,
			Balance:       tt.amount.Neg(),
			TaxLineID:     &taxID,
			TaxBaseAmount: tt.base,
		})
	}

	maturity := inv.InvoiceDateDue
	if maturity == nil {
		d := inv.Date
		maturity = &d
	}
	inv.Lines = append(inv.Lines, &entity.InvoiceLine{
		DisplayType:  entity.LineDisplayPaymentTerm,
		AccountID:    receivableAccountID,
		PartnerID:    inv.PartnerID,
		Balance:      inv.AmountTotal,
		DateMaturity: maturity,
	})

	if !inv.Balanced() {
		return fmt.Errorf("asiento descuadrado: total %s", inv.AmountTotal)
	}
	return nil
}

// buildLine arma la línea de concepto y devuelve el importe de cada impuesto (mismo orden que taxes).
func buildLine(l dto.InvoiceLineRequest, accountID int64, taxes []*entity.Tax) (*entity.InvoiceLine, []decimal.Decimal) {
	name := DefaultLineDescription
	if l.Description != nil && *l.Description != "" {
		name = *l.Description
	}
	qty := decimal.NewFromInt(1)
	if l.Quantity != nil {
		qty = *l.Quantity
	}
	price := decimal.Zero
	if l.PriceUnit != nil {
		price = *l.PriceUnit
	}
	subtotal := qty.Mul(price).Round(2)
	total := subtotal
	taxIDs := make([]int64, 0, len(taxes))
	amounts := make([]decimal.Decimal, 0, len(taxes))
	for _, t := range taxes {
		amount := subtotal.Mul(t.Rate()).Round(2)
		amounts = append(amounts, amount)
		total = total.Add(amount)
		taxIDs = append(taxIDs, t.ID)
	}
	return &entity.InvoiceLine{
		DisplayType:   entity.LineDisplayProduct,
		Name:          name,
		AccountID:     accountID,
		Quantity:      qty,
		PriceUnit:     price,
		PriceSubtotal: subtotal,
		PriceTotal:    total,
		Balance:       subtotal.Neg(),
		TaxIDs:        taxIDs,
	}, amounts
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, domain.NewValidationError("fecha inválida",
			domain.FieldError{Field: "invoice_data", Message: fmt.Sprintf("%q no tiene formato YYYY-MM-DD", s)})
	}
	return &t, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
