package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/stings-api/internal/domain"
	"github.com/jhoicas/stings-api/internal/domain/entity"
	"github.com/jhoicas/stings-api/internal/domain/repository"
)

// DefaultsConfig diario, cuentas e impuesto de venta usados cuando el payload no los indica.
// En cada par el id tiene prioridad sobre el código / la tasa.
type DefaultsConfig struct {
	SaleJournalID         int64
	SaleJournalCode       string
	IncomeAccountID       int64
	IncomeAccountCode     string
	ReceivableAccountID   int64
	ReceivableAccountCode string
	SaleTaxID             int64
	SaleTaxRate           float64 // porcentaje, ej. 16
}

// DefaultsResolver resuelve los valores por defecto contra la configuración explícita.
// Nunca elige "la primera fila": si no hay configuración o la fila no existe devuelve ErrNoDefaultConfigured.
type DefaultsResolver struct {
	repo repository.AccountingRepository
	cfg  DefaultsConfig
}

// NewDefaultsResolver construye el resolver.
func NewDefaultsResolver(repo repository.AccountingRepository, cfg DefaultsConfig) *DefaultsResolver {
	return &DefaultsResolver{repo: repo, cfg: cfg}
}

// SaleJournal devuelve el diario de ventas; compañía y moneda de la factura salen de él.
func (r *DefaultsResolver) SaleJournal(ctx context.Context) (*entity.Journal, error) {
	var (
		j   *entity.Journal
		err error
	)
	switch {
	case r.cfg.SaleJournalID > 0:
		j, err = r.repo.GetSaleJournalByID(ctx, r.cfg.SaleJournalID)
		if err == nil && j == nil {
			return nil, fmt.Errorf("%w: el diario de ventas con id %d no existe", domain.ErrNoDefaultConfigured, r.cfg.SaleJournalID)
		}
	case r.cfg.SaleJournalCode != "":
		j, err = r.repo.GetSaleJournalByCode(ctx, r.cfg.SaleJournalCode)
		if err == nil && j == nil {
			return nil, fmt.Errorf("%w: no existe diario de ventas con código %s", domain.ErrNoDefaultConfigured, r.cfg.SaleJournalCode)
		}
	default:
		return nil, fmt.Errorf("%w: diario de ventas", domain.ErrNoDefaultConfigured)
	}
	if err != nil {
		return nil, fmt.Errorf("resolver diario de ventas: %w", err)
	}
	return j, nil
}

// IncomeAccount devuelve la cuenta de ingresos configurada.
func (r *DefaultsResolver) IncomeAccount(ctx context.Context) (*entity.Account, error) {
	return r.account(ctx, "cuenta de ingresos", r.cfg.IncomeAccountID, r.cfg.IncomeAccountCode, entity.AccountTypeIncome)
}

// ReceivableAccount devuelve la cuenta por cobrar de la contrapartida.
func (r *DefaultsResolver) ReceivableAccount(ctx context.Context) (*entity.Account, error) {
	return r.account(ctx, "cuenta por cobrar", r.cfg.ReceivableAccountID, r.cfg.ReceivableAccountCode, entity.AccountTypeReceivable)
}

func (r *DefaultsResolver) account(ctx context.Context, label string, id int64, code, accountType string) (*entity.Account, error) {
	var (
		acc *entity.Account
		err error
	)
	switch {
	case id > 0:
		acc, err = r.repo.GetAccountByID(ctx, id)
		if err == nil && acc == nil {
			return nil, fmt.Errorf("%w: la %s con id %d no existe", domain.ErrNoDefaultConfigured, label, id)
		}
	case code != "":
		acc, err = r.repo.GetAccountByCode(ctx, code, accountType)
		if err == nil && acc == nil {
			return nil, fmt.Errorf("%w: no existe %s con código %s", domain.ErrNoDefaultConfigured, label, code)
		}
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrNoDefaultConfigured, label)
	}
	if err != nil {
		return nil, fmt.Errorf("resolver %s: %w", label, err)
	}
	return acc, nil
}

// SaleTax devuelve el impuesto de venta por defecto (IVA 16% salvo configuración distinta).
func (r *DefaultsResolver) SaleTax(ctx context.Context) (*entity.Tax, error) {
	var (
		tax *entity.Tax
		err error
	)
	switch {
	case r.cfg.SaleTaxID > 0:
		tax, err = r.repo.GetTaxByID(ctx, r.cfg.SaleTaxID)
		if err == nil && tax == nil {
			return nil, fmt.Errorf("%w: el impuesto con id %d no existe", domain.ErrNoDefaultConfigured, r.cfg.SaleTaxID)
		}
	case r.cfg.SaleTaxRate > 0:
		tax, err = r.repo.GetSaleTaxByRate(ctx, r.cfg.SaleTaxRate)
		if err == nil && tax == nil {
			return nil, fmt.Errorf("%w: no existe impuesto de venta al %g%%", domain.ErrNoDefaultConfigured, r.cfg.SaleTaxRate)
		}
	default:
		return nil, fmt.Errorf("%w: impuesto de venta", domain.ErrNoDefaultConfigured)
	}
	if err != nil {
		return nil, fmt.Errorf("resolver impuesto de venta: %w", err)
	}
	return tax, nil
}
