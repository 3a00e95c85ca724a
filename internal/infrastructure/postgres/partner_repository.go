package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stings-api/internal/domain"
	"github.com/jhoicas/stings-api/internal/domain/entity"
	"github.com/jhoicas/stings-api/internal/domain/repository"
)

var _ repository.PartnerRepository = (*PartnerRepo)(nil)

// PartnerRepo implementación de PartnerRepository sobre res_partner (usable con pool o tx).
type PartnerRepo struct {
	q Querier
}

// NewPartnerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartnerRepository(q Querier) *PartnerRepo {
	return &PartnerRepo{q: q}
}

const partnerColumns = `
	id, ref, name, company_type, COALESCE(is_company, false), type, parent_id, id_secondary, vat, email, phone,
	street, street2, city, city_id, state_id, zip, country_id, comment, lang, COALESCE(active, true),
	commercial_partner_id, complete_name,
	l10n_mx_edi_fiscal_regime, l10n_mx_edi_usage, l10n_mx_edi_payment_method_id,
	property_payment_term_id, property_product_pricelist, user_id,
	COALESCE(create_date, now()), COALESCE(write_date, now())`

// FindByRef devuelve el primer contacto activo con esa ref.
func (r *PartnerRepo) FindByRef(ctx context.Context, ref string) (*entity.Partner, error) {
	query := `SELECT ` + partnerColumns + `
		FROM res_partner
		WHERE ref = $1 AND active
		ORDER BY id
		LIMIT 1`
	p, err := scanPartner(r.q.QueryRow(ctx, query, ref))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get partner by ref: %w", err)
	}
	return p, nil
}

// FindByID devuelve el contacto con ese id, activo o archivado.
func (r *PartnerRepo) FindByID(ctx context.Context, id int64) (*entity.Partner, error) {
	query := `SELECT ` + partnerColumns + `
		FROM res_partner
		WHERE id = $1`
	p, err := scanPartner(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get partner %d: %w", id, err)
	}
	return p, nil
}

// Create inserta el contacto y asigna su id. El id se reserva antes del INSERT para que
// commercial_partner_id pueda apuntar al propio registro en la misma sentencia.
func (r *PartnerRepo) Create(ctx context.Context, p *entity.Partner) error {
	var id int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('res_partner_id_seq')`).Scan(&id); err != nil {
		return fmt.Errorf("reservar id de partner: %w", err)
	}
	commercialID := id
	if p.CommercialPartnerID != nil {
		commercialID = *p.CommercialPartnerID
	}
	query := `
		INSERT INTO res_partner (
			id, ref, name, company_type, is_company, type, parent_id, id_secondary, vat, email, phone,
			street, street2, city, city_id, state_id, zip, country_id, comment, lang, active,
			commercial_partner_id, complete_name,
			l10n_mx_edi_fiscal_regime, l10n_mx_edi_usage, l10n_mx_edi_payment_method_id,
			property_payment_term_id, property_product_pricelist, user_id, create_date, write_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)`
	_, err := r.q.Exec(ctx, query,
		id, nullIfEmpty(p.Ref), nullIfEmpty(p.Name), p.CompanyType, p.IsCompany, p.Type, p.ParentID,
		nullIfEmpty(p.IDSecondary), nullIfEmpty(p.VAT), nullIfEmpty(p.Email), nullIfEmpty(p.Phone),
		nullIfEmpty(p.Street), nullIfEmpty(p.Street2), nullIfEmpty(p.City), p.CityID, p.StateID,
		nullIfEmpty(p.Zip), p.CountryID, nullIfEmpty(p.Comment), nullIfEmpty(p.Lang), p.Active,
		commercialID, nullIfEmpty(p.CompleteName),
		nullIfEmpty(p.FiscalRegime), nullIfEmpty(p.EDIUsage), p.PaymentMethodID,
		p.PaymentTermID, p.PricelistID, p.UserID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert partner: %w", domain.NewValidationError("contacto duplicado",
				domain.FieldError{Field: "ref", Message: "ya existe"}))
		}
		return fmt.Errorf("insert partner: %w", err)
	}
	p.ID = id
	p.CommercialPartnerID = &commercialID
	return nil
}

// Update escribe solo las columnas presentes en changes; write_date siempre se actualiza.
func (r *PartnerRepo) Update(ctx context.Context, id int64, changes entity.PartnerChanges) error {
	sets, args := partnerAssignments(changes)
	args = append([]any{id}, args...)
	sets = append(sets, "write_date = now()")
	query := `UPDATE res_partner SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update partner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update partner %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// partnerAssignments arma "col = $n" para cada campo no-nil; los placeholders empiezan en $2 ($1 es el id).
func partnerAssignments(c entity.PartnerChanges) ([]string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)+1))
	}
	str := func(col string, v *string) {
		if v != nil {
			add(col, nullIfEmpty(*v))
		}
	}
	id := func(col string, v *int64) {
		if v != nil {
			add(col, *v)
		}
	}
	if c.Active != nil {
		add("active", *c.Active)
	}
	str("company_type", c.CompanyType)
	if c.IsCompany != nil {
		add("is_company", *c.IsCompany)
	}
	str("name", c.Name)
	str("email", c.Email)
	str("phone", c.Phone)
	id("parent_id", c.ParentID)
	str("street", c.Street)
	str("street2", c.Street2)
	id("city_id", c.CityID)
	str("city", c.City)
	id("state_id", c.StateID)
	str("zip", c.Zip)
	id("country_id", c.CountryID)
	str("vat", c.VAT)
	str("l10n_mx_edi_usage", c.EDIUsage)
	str("l10n_mx_edi_fiscal_regime", c.FiscalRegime)
	id("l10n_mx_edi_payment_method_id", c.PaymentMethodID)
	id("property_payment_term_id", c.PaymentTermID)
	id("property_product_pricelist", c.PricelistID)
	id("user_id", c.UserID)
	str("lang", c.Lang)
	id("commercial_partner_id", c.CommercialPartnerID)
	str("complete_name", c.CompleteName)
	return sets, args
}

func scanPartner(row pgx.Row) (*entity.Partner, error) {
	var (
		p                                                entity.Partner
		ref, name, idSecondary, vat, email, phone        *string
		street, street2, city, zip, comment, lang        *string
		fiscalRegime, ediUsage, companyType, partnerType *string
		completeName                                     *string
	)
	err := row.Scan(
		&p.ID, &ref, &name, &companyType, &p.IsCompany, &partnerType, &p.ParentID, &idSecondary, &vat, &email, &phone,
		&street, &street2, &city, &p.CityID, &p.StateID, &zip, &p.CountryID, &comment, &lang, &p.Active,
		&p.CommercialPartnerID, &completeName,
		&fiscalRegime, &ediUsage, &p.PaymentMethodID,
		&p.PaymentTermID, &p.PricelistID, &p.UserID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Ref = derefStr(ref)
	p.Name = derefStr(name)
	p.CompanyType = derefStr(companyType)
	p.Type = derefStr(partnerType)
	p.IDSecondary = derefStr(idSecondary)
	p.VAT = derefStr(vat)
	p.Email = derefStr(email)
	p.Phone = derefStr(phone)
	p.Street = derefStr(street)
	p.Street2 = derefStr(street2)
	p.City = derefStr(city)
	p.Zip = derefStr(zip)
	p.Comment = derefStr(comment)
	p.Lang = derefStr(lang)
	p.FiscalRegime = derefStr(fiscalRegime)
	p.EDIUsage = derefStr(ediUsage)
	p.CompleteName = derefStr(completeName)
	return &p, nil
}
