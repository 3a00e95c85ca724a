package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/stings-api/internal/application/auth"
	"github.com/jhoicas/stings-api/internal/application/dto"
	"github.com/jhoicas/stings-api/internal/domain"
	"github.com/jhoicas/stings-api/internal/domain/entity"
	"github.com/jhoicas/stings-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePartners struct {
	partners map[string]*entity.Partner
}

func (f fakePartners) FindByRef(_ context.Context, ref string) (*entity.Partner, error) {
	return f.partners[ref], nil
}
func (f fakePartners) FindByID(_ context.Context, id int64) (*entity.Partner, error) {
	for _, p := range f.partners {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}
func (fakePartners) Create(context.Context, *entity.Partner) error { return nil }
func (fakePartners) Update(context.Context, int64, entity.PartnerChanges) error {
	return nil
}

type fakeAccounting struct {
	accounts  []*entity.Account
	journals  []*entity.Journal
	taxes     []*entity.Tax
	rateCalls int
}

func (f *fakeAccounting) GetAccountByID(_ context.Context, id int64) (*entity.Account, error) {
	for _, a := range f.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAccounting) GetAccountByCode(_ context.Context, code, accountType string) (*entity.Account, error) {
	for _, a := range f.accounts {
		if a.Code == code && a.AccountType == accountType {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAccounting) GetSaleJournalByID(_ context.Context, id int64) (*entity.Journal, error) {
	for _, j := range f.journals {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, nil
}

func (f *fakeAccounting) GetSaleJournalByCode(_ context.Context, code string) (*entity.Journal, error) {
	for _, j := range f.journals {
		if j.Code == code {
			return j, nil
		}
	}
	return nil, nil
}

func (f *fakeAccounting) GetTaxByID(_ context.Context, id int64) (*entity.Tax, error) {
	for _, t := range f.taxes {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeAccounting) GetSaleTaxByRate(_ context.Context, rate float64) (*entity.Tax, error) {
	f.rateCalls++
	for _, t := range f.taxes {
		if t.TypeTaxUse == entity.TaxUseSale && t.Amount.Equal(decimal.NewFromFloat(rate)) {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeAccounting) GetTaxesByIDs(ctx context.Context, ids []int64) ([]*entity.Tax, error) {
	var out []*entity.Tax
	for _, id := range ids {
		if t, _ := f.GetTaxByID(ctx, id); t != nil {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeInvoices struct {
	invoices []*entity.Invoice
	lines    []*entity.InvoiceLine
	lineErr  error
}

func (f *fakeInvoices) Create(_ context.Context, inv *entity.Invoice) error {
	inv.ID = 77
	f.invoices = append(f.invoices, inv)
	return nil
}

func (f *fakeInvoices) CreateLine(_ context.Context, l *entity.InvoiceLine) error {
	if f.lineErr != nil {
		return f.lineErr
	}
	f.lines = append(f.lines, l)
	return nil
}

// fakeTx descarta lo escrito si fn falla, como un rollback.
type fakeTx struct {
	committed *fakeInvoices
}

func (t *fakeTx) RunInvoice(ctx context.Context, fn func(repository.InvoiceRepository) error) error {
	work := &fakeInvoices{lineErr: t.committed.lineErr}
	if err := fn(work); err != nil {
		return err
	}
	t.committed.invoices = append(t.committed.invoices, work.invoices...)
	t.committed.lines = append(t.committed.lines, work.lines...)
	return nil
}

var invoicer = auth.ServiceAccount{KeyID: 1, Scopes: []auth.Scope{auth.ScopeInvoicesWrite}}

type fixture struct {
	uc         *CreateInvoiceUseCase
	accounting *fakeAccounting
	store      *fakeInvoices
}

func newFixture(cfg DefaultsConfig) *fixture {
	accounting := &fakeAccounting{
		accounts: []*entity.Account{
			{ID: 40, Code: "401.01.01", AccountType: entity.AccountTypeIncome},
			{ID: 41, Code: "105.01.01", AccountType: entity.AccountTypeReceivable},
		},
		journals: []*entity.Journal{{ID: 1, Code: "INV", CompanyID: 1, CurrencyID: 33}},
		taxes: []*entity.Tax{
			{ID: 2, Name: "IVA 16%", TypeTaxUse: entity.TaxUseSale, Amount: decimal.NewFromInt(16), Active: true, AccountID: ptr(int64(60))},
			{ID: 5, Name: "IEPS 8%", TypeTaxUse: entity.TaxUseSale, Amount: decimal.NewFromInt(8), Active: true, AccountID: ptr(int64(61))},
			{ID: 6, Name: "IVA 0%", TypeTaxUse: entity.TaxUseSale, Amount: decimal.Zero, Active: true},
			{ID: 7, Name: "IVA sin cuenta", TypeTaxUse: entity.TaxUseSale, Amount: decimal.NewFromInt(16), Active: true},
			{ID: 9, Name: "IVA compras", TypeTaxUse: "purchase", Amount: decimal.NewFromInt(16), Active: true},
		},
	}
	cp := int64(8)
	partners := fakePartners{partners: map[string]*entity.Partner{
		"REF1": {ID: 10, Ref: "REF1", Active: true, CommercialPartnerID: &cp},
	}}
	store := &fakeInvoices{}
	uc := NewCreateInvoiceUseCase(&fakeTx{committed: store}, partners, accounting, NewDefaultsResolver(accounting, cfg))
	return &fixture{uc: uc, accounting: accounting, store: store}
}

var stdDefaults = DefaultsConfig{
	SaleJournalCode:       "INV",
	IncomeAccountCode:     "401.01.01",
	ReceivableAccountCode: "105.01.01",
	SaleTaxRate:           16,
}

func ptr[T any](v T) *T { return &v }

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func ids(v ...int64) *dto.TaxIDs {
	t := dto.TaxIDs(v)
	return &t
}

func TestCreateInvoice_Totales(t *testing.T) {
	f := newFixture(stdDefaults)

	out, err := f.uc.CreateInvoice(context.Background(), invoicer, &dto.CreateInvoiceRequest{
		InvoiceData: dto.InvoiceDataRequest{PartnerRef: "REF1", InvoiceDate: "2024-05-01", InvoiceDateDue: "2024-05-31"},
		InvoiceLines: []dto.InvoiceLineRequest{
			{Quantity: dec("2"), PriceUnit: dec("100")},                     // 200 + 32
			{Quantity: dec("3"), PriceUnit: dec("9.99"), TaxIDs: ids(2, 5)}, // 29.97 + 4.80 + 2.40
			{PriceUnit: dec("-10"), TaxIDs: ids()},                          // descuento sin impuesto
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(77), out.InvoiceID)
	assert.Equal(t, entity.DraftNumberPlaceholder, out.InvoiceNumber)
	assert.InDelta(t, 259.17, out.Total, 0.0001)

	require.Len(t, f.store.invoices, 1)
	inv := f.store.invoices[0]
	assert.Equal(t, int64(10), inv.PartnerID)
	assert.Equal(t, int64(8), inv.CommercialPartnerID)
	assert.Equal(t, int64(1), inv.JournalID)
	assert.Equal(t, int64(1), inv.CompanyID)
	assert.Equal(t, int64(33), inv.CurrencyID)
	assert.Equal(t, entity.MoveTypeOutInvoice, inv.MoveType)
	assert.Equal(t, entity.MoveStateDraft, inv.State)
	assert.True(t, decimal.RequireFromString("219.97").Equal(inv.AmountUntaxed), inv.AmountUntaxed.String())
	assert.True(t, decimal.RequireFromString("39.20").Equal(inv.AmountTax), inv.AmountTax.String())
	require.NotNil(t, inv.InvoiceDate)
	assert.Equal(t, "2024-05-01", inv.InvoiceDate.Format(dateLayout))
	assert.Equal(t, "2024-05-01", inv.Date.Format(dateLayout))
	assert.True(t, inv.Balanced())

	// 3 conceptos + IVA + IEPS + cuenta por cobrar
	require.Len(t, f.store.lines, 6)
	for _, l := range f.store.lines {
		assert.Equal(t, int64(77), l.MoveID)
		assert.Equal(t, int64(10), l.PartnerID)
	}

	products := inv.LinesOfType(entity.LineDisplayProduct)
	require.Len(t, products, 3)
	for _, l := range products {
		assert.Equal(t, int64(40), l.AccountID)
		assert.Equal(t, DefaultLineDescription, l.Name)
		assert.True(t, l.Balance.Equal(l.PriceSubtotal.Neg()))
	}
	assert.Equal(t, []int64{2}, products[0].TaxIDs)
	assert.Equal(t, []int64{2, 5}, products[1].TaxIDs)
	assert.Empty(t, products[2].TaxIDs)
	assert.True(t, decimal.NewFromInt(1).Equal(products[2].Quantity))
	assert.True(t, decimal.RequireFromString("200").Equal(products[0].Credit()))
	assert.True(t, products[0].Debit().IsZero())
	// el descuento queda al debe
	assert.True(t, decimal.RequireFromString("10").Equal(products[2].Debit()))

	taxes := inv.LinesOfType(entity.LineDisplayTax)
	require.Len(t, taxes, 2)
	assert.Equal(t, int64(60), taxes[0].AccountID)
	require.NotNil(t, taxes[0].TaxLineID)
	assert.Equal(t, int64(2), *taxes[0].TaxLineID)
	assert.True(t, decimal.RequireFromString("-36.80").Equal(taxes[0].Balance), taxes[0].Balance.String())
	assert.True(t, decimal.RequireFromString("229.97").Equal(taxes[0].TaxBaseAmount))
	assert.Equal(t, int64(61), taxes[1].AccountID)
	assert.True(t, decimal.RequireFromString("-2.40").Equal(taxes[1].Balance), taxes[1].Balance.String())
	assert.True(t, decimal.RequireFromString("29.97").Equal(taxes[1].TaxBaseAmount))

	terms := inv.LinesOfType(entity.LineDisplayPaymentTerm)
	require.Len(t, terms, 1)
	assert.Equal(t, int64(41), terms[0].AccountID)
	assert.True(t, decimal.RequireFromString("259.17").Equal(terms[0].Debit()))
	require.NotNil(t, terms[0].DateMaturity)
	assert.Equal(t, "2024-05-31", terms[0].DateMaturity.Format(dateLayout))
}

func TestCreateInvoice_ImpuestoEnCeroSinLinea(t *testing.T) {
	f := newFixture(stdDefaults)
	f.uc.now = func() time.Time { return time.Date(2024, 6, 3, 15, 4, 5, 0, time.UTC) }

	_, err := f.uc.CreateInvoice(context.Background(), invoicer, &dto.CreateInvoiceRequest{
		InvoiceData:  dto.InvoiceDataRequest{PartnerRef: "REF1"},
		InvoiceLines: []dto.InvoiceLineRequest{{PriceUnit: dec("50"), TaxIDs: ids(6)}},
	})
	require.NoError(t, err)
	inv := f.store.invoices[0]
	assert.Equal(t, "2024-06-03", inv.Date.Format(dateLayout))
	assert.Empty(t, inv.LinesOfType(entity.LineDisplayTax))
	terms := inv.LinesOfType(entity.LineDisplayPaymentTerm)
	require.Len(t, terms, 1)
	require.NotNil(t, terms[0].DateMaturity)
	assert.Equal(t, "2024-06-03", terms[0].DateMaturity.Format(dateLayout))
	assert.True(t, inv.Balanced())
}

func TestCreateInvoice_NoConsultaIVASiNoHaceFalta(t *testing.T) {
	f := newFixture(stdDefaults)

	_, err := f.uc.CreateInvoice(context.Background(), invoicer, &dto.CreateInvoiceRequest{
		InvoiceData:  dto.InvoiceDataRequest{PartnerRef: "REF1"},
		InvoiceLines: []dto.InvoiceLineRequest{{PriceUnit: dec("1"), TaxIDs: ids(5)}},
	})
	require.NoError(t, err)
	assert.Zero(t, f.accounting.rateCalls)
}

func TestCreateInvoice_Errores(t *testing.T) {
	line := []dto.InvoiceLineRequest{{PriceUnit: dec("1")}}
	cases := []struct {
		name string
		sa   auth.ServiceAccount
		cfg  DefaultsConfig
		in   *dto.CreateInvoiceRequest
		want error
	}{
		{name: "sin permiso", sa: auth.ServiceAccount{}, cfg: stdDefaults,
			in: &dto.CreateInvoiceRequest{InvoiceData: dto.InvoiceDataRequest{PartnerRef: "REF1"}, InvoiceLines: line}, want: domain.ErrUnauthorized},
		{name: "sin partner_id", sa: invoicer, cfg: stdDefaults,
			in: &dto.CreateInvoiceRequest{InvoiceLines: line}, want: domain.ErrInvalidInput},
		{name: "sin líneas", sa: invoicer, cfg: stdDefaults,
			in: &dto.CreateInvoiceRequest{InvoiceData: dto.InvoiceDataRequest{PartnerRef: "NOPE"}}, want: domain.ErrInvalidInput},
		{name: "partner inexistente", sa: invoicer, cfg: stdDefaults,
			in: &dto.CreateInvoiceRequest{InvoiceData: dto.InvoiceDataRequest{PartnerRef: "NOPE"}, InvoiceLines: line}, want: domain.ErrNotFound},
		{name: "fecha inválida", sa: invoicer, cfg: stdDefaults,
			in: &dto.CreateInvoiceRequest{InvoiceData: dto.InvoiceDataRequest{PartnerRef: "REF1", InvoiceDate: "2024-13-01"}, InvoiceLines: line}, want: domain.ErrInvalidInput},
		{name: "impuesto de compras", sa: invoicer, cfg: stdDefaults,
			in: &dto.CreateInvoiceRequest{InvoiceData: dto.InvoiceDataRequest{PartnerRef: "REF1"}, InvoiceLines: []dto.InvoiceLineRequest{{TaxIDs: ids(9)}}}, want: domain.ErrInvalidInput},
		{name: "sin cuenta configurada", sa: invoicer, cfg: DefaultsConfig{SaleJournalCode: "INV", ReceivableAccountCode: "105.01.01", SaleTaxRate: 16},
			in: &dto.CreateInvoiceRequest{InvoiceData: dto.InvoiceDataRequest{PartnerRef: "REF1"}, InvoiceLines: line}, want: domain.ErrNoDefaultConfigured},
		{name: "sin diario", sa: invoicer, cfg: DefaultsConfig{IncomeAccountCode: "401.01.01", ReceivableAccountCode: "105.01.01", SaleTaxRate: 16},
			in: &dto.CreateInvoiceRequest{InvoiceData: dto.InvoiceDataRequest{PartnerRef: "REF1"}, InvoiceLines: line}, want: domain.ErrNoDefaultConfigured},
		{name: "sin cuenta por cobrar", sa: invoicer, cfg: DefaultsConfig{SaleJournalCode: "INV", IncomeAccountCode: "401.01.01", SaleTaxRate: 16},
			in: &dto.CreateInvoiceRequest{InvoiceData: dto.InvoiceDataRequest{PartnerRef: "REF1"}, InvoiceLines: line}, want: domain.ErrNoDefaultConfigured},
		{name: "impuesto sin cuenta", sa: invoicer, cfg: stdDefaults,
			in: &dto.CreateInvoiceRequest{InvoiceData: dto.InvoiceDataRequest{PartnerRef: "REF1"}, InvoiceLines: []dto.InvoiceLineRequest{{PriceUnit: dec("1"), TaxIDs: ids(7)}}}, want: domain.ErrNoDefaultConfigured},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(tc.cfg)
			_, err := f.uc.CreateInvoice(context.Background(), tc.sa, tc.in)
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, f.store.invoices)
		})
	}
}

func TestCreateInvoice_RollbackSiFallaUnaLinea(t *testing.T) {
	f := newFixture(stdDefaults)
	f.store.lineErr = errors.New("violates foreign key")

	_, err := f.uc.CreateInvoice(context.Background(), invoicer, &dto.CreateInvoiceRequest{
		InvoiceData:  dto.InvoiceDataRequest{PartnerRef: "REF1"},
		InvoiceLines: []dto.InvoiceLineRequest{{PriceUnit: dec("1")}},
	})
	require.Error(t, err)
	assert.Empty(t, f.store.invoices)
	assert.Empty(t, f.store.lines)
}

func TestDefaultsResolver(t *testing.T) {
	f := newFixture(stdDefaults)
	ctx := context.Background()

	t.Run("id tiene prioridad", func(t *testing.T) {
		r := NewDefaultsResolver(f.accounting, DefaultsConfig{SaleTaxID: 5, SaleTaxRate: 16, IncomeAccountID: 40, IncomeAccountCode: "999"})
		tax, err := r.SaleTax(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(5), tax.ID)
		acc, err := r.IncomeAccount(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(40), acc.ID)
	})

	t.Run("diario y cuenta por cobrar", func(t *testing.T) {
		r := NewDefaultsResolver(f.accounting, DefaultsConfig{SaleJournalID: 1, SaleJournalCode: "XXX", ReceivableAccountCode: "105.01.01"})
		j, err := r.SaleJournal(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(33), j.CurrencyID)
		acc, err := r.ReceivableAccount(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(41), acc.ID)
	})

	t.Run("el código respeta el tipo de cuenta", func(t *testing.T) {
		r := NewDefaultsResolver(f.accounting, DefaultsConfig{IncomeAccountCode: "105.01.01"})
		_, err := r.IncomeAccount(ctx)
		assert.ErrorIs(t, err, domain.ErrNoDefaultConfigured)
	})

	t.Run("sin configuración", func(t *testing.T) {
		r := NewDefaultsResolver(f.accounting, DefaultsConfig{})
		_, err := r.SaleTax(ctx)
		assert.ErrorIs(t, err, domain.ErrNoDefaultConfigured)
		_, err = r.IncomeAccount(ctx)
		assert.ErrorIs(t, err, domain.ErrNoDefaultConfigured)
		_, err = r.ReceivableAccount(ctx)
		assert.ErrorIs(t, err, domain.ErrNoDefaultConfigured)
		_, err = r.SaleJournal(ctx)
		assert.ErrorIs(t, err, domain.ErrNoDefaultConfigured)
	})

	t.Run("fila inexistente", func(t *testing.T) {
		r := NewDefaultsResolver(f.accounting, DefaultsConfig{SaleTaxID: 404, IncomeAccountCode: "000"})
		_, err := r.SaleTax(ctx)
		assert.ErrorIs(t, err, domain.ErrNoDefaultConfigured)
		_, err = r.IncomeAccount(ctx)
		assert.ErrorIs(t, err, domain.ErrNoDefaultConfigured)
	})
}
