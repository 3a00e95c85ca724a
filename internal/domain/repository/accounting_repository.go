package repository

import (
	"context"

	"github.com/jhoicas/stings-api/internal/domain/entity"
)

// AccountingRepository consultas de solo lectura sobre cuentas, diarios e impuestos.
// Todas devuelven nil, nil cuando no hay coincidencia.
type AccountingRepository interface {
	GetAccountByID(ctx context.Context, id int64) (*entity.Account, error)
	// GetAccountByCode busca por código exacto y tipo de cuenta (income, asset_receivable).
	GetAccountByCode(ctx context.Context, code, accountType string) (*entity.Account, error)
	GetSaleJournalByID(ctx context.Context, id int64) (*entity.Journal, error)
	GetSaleJournalByCode(ctx context.Context, code string) (*entity.Journal, error)
	GetTaxByID(ctx context.Context, id int64) (*entity.Tax, error)
	GetSaleTaxByRate(ctx context.Context, amount float64) (*entity.Tax, error)
	// GetTaxesByIDs devuelve los impuestos encontrados; los ids inexistentes se omiten.
	GetTaxesByIDs(ctx context.Context, ids []int64) ([]*entity.Tax, error)
}
