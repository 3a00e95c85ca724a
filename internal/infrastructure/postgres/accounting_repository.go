package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stings-api/internal/domain/entity"
	"github.com/jhoicas/stings-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.AccountingRepository = (*AccountingRepo)(nil)

// AccountingRepo consultas de cuentas (account_account), diarios (account_journal) e impuestos (account_tax).
type AccountingRepo struct {
	q Querier
}

// NewAccountingRepository construye el adaptador.
func NewAccountingRepository(q Querier) *AccountingRepo {
	return &AccountingRepo{q: q}
}

const (
	accountColumns = `id, code, name, account_type`
	journalSelect  = `
		SELECT j.id, j.code, j.company_id, COALESCE(j.currency_id, c.currency_id)
		FROM account_journal j
		JOIN res_company c ON c.id = j.company_id`
	// account_id: cuenta del reparto "tax" en facturas (la línea de impuesto se contabiliza ahí)
	taxSelect = `
		SELECT t.id, t.name, t.type_tax_use, t.amount, COALESCE(t.active, true),
			(SELECT rl.account_id FROM account_tax_repartition_line rl
				WHERE rl.tax_id = t.id AND rl.repartition_type = 'tax' AND rl.document_type = 'invoice'
				ORDER BY rl.sequence, rl.id LIMIT 1)
		FROM account_tax t`
)

func (r *AccountingRepo) GetAccountByID(ctx context.Context, id int64) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM account_account WHERE id = $1`
	acc, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return acc, nil
}

// GetAccountByCode busca una cuenta por código exacto y tipo.
func (r *AccountingRepo) GetAccountByCode(ctx context.Context, code, accountType string) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM account_account
		WHERE code = $1 AND account_type = $2
		ORDER BY id
		LIMIT 1`
	acc, err := scanAccount(r.q.QueryRow(ctx, query, code, accountType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s account by code: %w", accountType, err)
	}
	return acc, nil
}

func (r *AccountingRepo) GetSaleJournalByID(ctx context.Context, id int64) (*entity.Journal, error) {
	query := journalSelect + ` WHERE j.id = $1 AND j.type = $2`
	j, err := scanJournal(r.q.QueryRow(ctx, query, id, entity.JournalTypeSale))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale journal: %w", err)
	}
	return j, nil
}

// GetSaleJournalByCode busca el diario de ventas activo con ese código.
func (r *AccountingRepo) GetSaleJournalByCode(ctx context.Context, code string) (*entity.Journal, error) {
	query := journalSelect + `
		WHERE j.code = $1 AND j.type = $2 AND COALESCE(j.active, true)
		ORDER BY j.sequence, j.id
		LIMIT 1`
	j, err := scanJournal(r.q.QueryRow(ctx, query, code, entity.JournalTypeSale))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale journal by code: %w", err)
	}
	return j, nil
}

func (r *AccountingRepo) GetTaxByID(ctx context.Context, id int64) (*entity.Tax, error) {
	query := taxSelect + ` WHERE t.id = $1`
	tax, err := scanTax(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tax: %w", err)
	}
	return tax, nil
}

// GetSaleTaxByRate busca el impuesto de venta activo con ese porcentaje.
func (r *AccountingRepo) GetSaleTaxByRate(ctx context.Context, amount float64) (*entity.Tax, error) {
	query := taxSelect + `
		WHERE t.type_tax_use = $1 AND t.amount = $2 AND t.active
		ORDER BY t.sequence, t.id
		LIMIT 1`
	tax, err := scanTax(r.q.QueryRow(ctx, query, entity.TaxUseSale, decimal.NewFromFloat(amount)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale tax by rate: %w", err)
	}
	return tax, nil
}

func (r *AccountingRepo) GetTaxesByIDs(ctx context.Context, ids []int64) ([]*entity.Tax, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := taxSelect + ` WHERE t.id = ANY($1) ORDER BY t.id`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list taxes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Tax
	for rows.Next() {
		tax, err := scanTax(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tax: %w", err)
		}
		list = append(list, tax)
	}
	return list, rows.Err()
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	var a entity.Account
	var code, accountType *string
	if err := row.Scan(&a.ID, &code, &a.Name, &accountType); err != nil {
		return nil, err
	}
	a.Code = derefStr(code)
	a.AccountType = derefStr(accountType)
	return &a, nil
}

func scanJournal(row pgx.Row) (*entity.Journal, error) {
	var j entity.Journal
	if err := row.Scan(&j.ID, &j.Code, &j.CompanyID, &j.CurrencyID); err != nil {
		return nil, err
	}
	return &j, nil
}

func scanTax(row pgx.Row) (*entity.Tax, error) {
	var t entity.Tax
	if err := row.Scan(&t.ID, &t.Name, &t.TypeTaxUse, &t.Amount, &t.Active, &t.AccountID); err != nil {
		return nil, err
	}
	return &t, nil
}
