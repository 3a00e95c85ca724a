package http_test

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/stings-api/internal/domain/entity"
	"github.com/jhoicas/stings-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// memStore record store en memoria compartido por los repos fake.
type memStore struct {
	mu        sync.Mutex
	nextID    int64
	creds     []entity.Credential
	partners  []*entity.Partner
	accounts  []*entity.Account
	journals  []*entity.Journal
	taxes     []*entity.Tax
	invoices  []*entity.Invoice
	lines     []*entity.InvoiceLine
	credCalls int
	failWrite error // si no es nil, Create de partner/factura devuelve este error
}

func newMemStore() *memStore {
	s := &memStore{nextID: 100}
	s.creds = append(s.creds, entity.Credential{ID: 1, Name: "tienda", Key: testAPIKey, SecretKey: testSecretKey, Active: true})
	s.accounts = append(s.accounts,
		&entity.Account{ID: 40, Code: "401.01.01", Name: "Ventas", AccountType: entity.AccountTypeIncome},
		&entity.Account{ID: 41, Code: "105.01.01", Name: "Clientes", AccountType: entity.AccountTypeReceivable},
	)
	s.journals = append(s.journals, &entity.Journal{ID: 1, Code: "INV", CompanyID: 1, CurrencyID: 33})
	ivaAccount := int64(60)
	s.taxes = append(s.taxes,
		&entity.Tax{ID: 2, Name: "IVA 16%", TypeTaxUse: entity.TaxUseSale, Amount: decimal.NewFromInt(16), Active: true, AccountID: &ivaAccount},
		&entity.Tax{ID: 3, Name: "IVA 0%", TypeTaxUse: entity.TaxUseSale, Amount: decimal.Zero, Active: true},
	)
	return s
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) partnerByRef(ref string) *entity.Partner {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.partners {
		if p.Ref == ref && p.Active {
			return p
		}
	}
	return nil
}

func (s *memStore) addPartner(p *entity.Partner) *entity.Partner {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	if p.CommercialPartnerID == nil {
		id := p.ID
		p.CommercialPartnerID = &id
	}
	s.partners = append(s.partners, p)
	return p
}

// productLines líneas de concepto guardadas (sin impuestos ni cuenta por cobrar).
func (s *memStore) productLines() []*entity.InvoiceLine {
	var out []*entity.InvoiceLine
	for _, l := range s.lines {
		if l.DisplayType == entity.LineDisplayProduct {
			out = append(out, l)
		}
	}
	return out
}

type credentialRepo struct{ s *memStore }

func (r credentialRepo) FindActive(_ context.Context, key, secret string) (*entity.Credential, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.credCalls++
	for _, c := range r.s.creds {
		if c.Key == key && c.SecretKey == secret && c.Active {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

type partnerRepo struct{ s *memStore }

func (r partnerRepo) FindByRef(_ context.Context, ref string) (*entity.Partner, error) {
	p := r.s.partnerByRef(ref)
	if p == nil {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r partnerRepo) FindByID(_ context.Context, id int64) (*entity.Partner, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.partners {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r partnerRepo) Create(_ context.Context, p *entity.Partner) error {
	if r.s.failWrite != nil {
		return r.s.failWrite
	}
	cp := *p
	r.s.addPartner(&cp)
	p.ID = cp.ID
	return nil
}

func (r partnerRepo) Update(_ context.Context, id int64, ch entity.PartnerChanges) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.partners {
		if p.ID != id {
			continue
		}
		setStr := func(dst *string, v *string) {
			if v != nil {
				*dst = *v
			}
		}
		setID := func(dst **int64, v *int64) {
			if v != nil {
				x := *v
				*dst = &x
			}
		}
		if ch.Active != nil {
			p.Active = *ch.Active
		}
		if ch.IsCompany != nil {
			p.IsCompany = *ch.IsCompany
		}
		setStr(&p.CompanyType, ch.CompanyType)
		setStr(&p.Name, ch.Name)
		setStr(&p.Email, ch.Email)
		setStr(&p.Phone, ch.Phone)
		setStr(&p.Street, ch.Street)
		setStr(&p.Street2, ch.Street2)
		setStr(&p.City, ch.City)
		setStr(&p.Zip, ch.Zip)
		setStr(&p.VAT, ch.VAT)
		setStr(&p.EDIUsage, ch.EDIUsage)
		setStr(&p.FiscalRegime, ch.FiscalRegime)
		setStr(&p.Lang, ch.Lang)
		setStr(&p.CompleteName, ch.CompleteName)
		setID(&p.CommercialPartnerID, ch.CommercialPartnerID)
		setID(&p.ParentID, ch.ParentID)
		setID(&p.CityID, ch.CityID)
		setID(&p.StateID, ch.StateID)
		setID(&p.CountryID, ch.CountryID)
		setID(&p.PaymentMethodID, ch.PaymentMethodID)
		setID(&p.PaymentTermID, ch.PaymentTermID)
		setID(&p.PricelistID, ch.PricelistID)
		setID(&p.UserID, ch.UserID)
		return nil
	}
	return errors.New("partner no encontrado")
}

type accountingRepo struct{ s *memStore }

func (r accountingRepo) GetAccountByID(_ context.Context, id int64) (*entity.Account, error) {
	for _, a := range r.s.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (r accountingRepo) GetAccountByCode(_ context.Context, code, accountType string) (*entity.Account, error) {
	for _, a := range r.s.accounts {
		if a.Code == code && a.AccountType == accountType {
			return a, nil
		}
	}
	return nil, nil
}

func (r accountingRepo) GetSaleJournalByID(_ context.Context, id int64) (*entity.Journal, error) {
	for _, j := range r.s.journals {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, nil
}

func (r accountingRepo) GetSaleJournalByCode(_ context.Context, code string) (*entity.Journal, error) {
	for _, j := range r.s.journals {
		if j.Code == code {
			return j, nil
		}
	}
	return nil, nil
}

func (r accountingRepo) GetTaxByID(_ context.Context, id int64) (*entity.Tax, error) {
	for _, t := range r.s.taxes {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (r accountingRepo) GetSaleTaxByRate(_ context.Context, amount float64) (*entity.Tax, error) {
	for _, t := range r.s.taxes {
		if t.TypeTaxUse == entity.TaxUseSale && t.Active && t.Amount.Equal(decimal.NewFromFloat(amount)) {
			return t, nil
		}
	}
	return nil, nil
}

func (r accountingRepo) GetTaxesByIDs(ctx context.Context, ids []int64) ([]*entity.Tax, error) {
	var out []*entity.Tax
	for _, id := range ids {
		if t, _ := r.GetTaxByID(ctx, id); t != nil {
			out = append(out, t)
		}
	}
	return out, nil
}

type invoiceRepo struct{ s *memStore }

func (r invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	if r.s.failWrite != nil {
		return r.s.failWrite
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv.ID = r.s.id()
	r.s.invoices = append(r.s.invoices, inv)
	return nil
}

func (r invoiceRepo) CreateLine(_ context.Context, line *entity.InvoiceLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	line.ID = r.s.id()
	r.s.lines = append(r.s.lines, line)
	return nil
}

type txRunner struct{ s *memStore }

func (t txRunner) RunInvoice(_ context.Context, fn func(repository.InvoiceRepository) error) error {
	return fn(invoiceRepo{s: t.s})
}
