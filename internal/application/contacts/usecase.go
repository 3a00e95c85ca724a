package contacts

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stings-api/internal/application/auth"
	"github.com/jhoicas/stings-api/internal/application/dto"
	"github.com/jhoicas/stings-api/internal/domain"
	"github.com/jhoicas/stings-api/internal/domain/entity"
	"github.com/jhoicas/stings-api/internal/domain/repository"
)

// DefaultLang idioma asignado a los contactos cuando el payload no lo trae.
const DefaultLang = "es_MX"

// Config valores por defecto de los contactos.
type Config struct {
	DefaultLang string
}

// ContactUseCase alta de partners y direcciones de entrega, y actualización de contactos por ref.
type ContactUseCase struct {
	repo repository.PartnerRepository
	cfg  Config
	now  func() time.Time
}

// NewContactUseCase construye el caso de uso.
func NewContactUseCase(repo repository.PartnerRepository, cfg Config) *ContactUseCase {
	if cfg.DefaultLang == "" {
		cfg.DefaultLang = DefaultLang
	}
	return &ContactUseCase{repo: repo, cfg: cfg, now: time.Now}
}

// CreatePartner crea un partner principal (type=contact, nunca dirección).
func (uc *ContactUseCase) CreatePartner(ctx context.Context, sa auth.ServiceAccount, in *dto.CreatePartnerRequest) (*dto.PartnerCreatedResponse, error) {
	if err := sa.Require(auth.ScopeContactsWrite); err != nil {
		return nil, err
	}
	if in == nil {
		return nil, domain.NewValidationError("contact_data es requerido")
	}
	if err := dto.Validate("datos de contacto inválidos", in); err != nil {
		return nil, err
	}
	lang, err := uc.lang(in.Lang)
	if err != nil {
		return nil, err
	}
	companyType := in.CompanyType
	if companyType == "" {
		companyType = entity.CompanyTypePerson
	}
	now := uc.now()
	p := &entity.Partner{
		Ref:          in.Ref,
		Name:         in.Name,
		CompanyType:  companyType,
		IsCompany:    companyType == entity.CompanyTypeCompany,
		Type:         entity.PartnerTypeContact,
		IDSecondary:  in.IDSecondary,
		VAT:          in.VAT,
		Email:        in.Email,
		Phone:        in.Phone,
		Street:       in.Street,
		City:         in.City,
		CityID:       in.CityID,
		StateID:      in.StateID,
		Zip:          in.Zip,
		CountryID:    in.CountryID,
		FiscalRegime: in.FiscalRegime,
		Lang:         lang,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	p.ApplyParent(nil)
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return &dto.PartnerCreatedResponse{Status: dto.StatusSuccess, ID: p.ID, Ref: p.Ref}, nil
}

// CreateShipping crea una dirección de entrega ligada al partner cuya ref es in.ParentRef.
// ErrNotFound si el padre no existe; en ese caso no se crea nada.
func (uc *ContactUseCase) CreateShipping(ctx context.Context, sa auth.ServiceAccount, in *dto.CreateShippingRequest) (*dto.ShippingCreatedResponse, error) {
	if err := sa.Require(auth.ScopeContactsWrite); err != nil {
		return nil, err
	}
	if in == nil {
		return nil, domain.NewValidationError("contact_data es requerido")
	}
	if err := dto.Validate("datos de envío inválidos", in); err != nil {
		return nil, err
	}
	parent, err := uc.findByRef(ctx, in.ParentRef, "padre")
	if err != nil {
		return nil, err
	}
	now := uc.now()
	parentID := parent.ID
	p := &entity.Partner{
		Name:        in.Name,
		CompanyType: entity.CompanyTypePerson,
		Type:        entity.PartnerTypeDelivery,
		ParentID:    &parentID,
		Street:      in.Street,
		Street2:     in.Street2,
		City:        in.City,
		CityID:      in.CityID,
		Zip:         in.Zip,
		StateID:     in.StateID,
		CountryID:   in.CountryID,
		Email:       in.Email,
		Phone:       in.Phone,
		Comment:     in.Comment,
		Lang:        parent.Lang,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.ApplyParent(parent)
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return &dto.ShippingCreatedResponse{Status: dto.StatusSuccess, ID: p.ID}, nil
}

// UpdateContact actualiza el contacto identificado por in.Ref.
// Solo se escriben los campos presentes; active y lang toman su valor por defecto si faltan.
// La ref nunca se modifica.
func (uc *ContactUseCase) UpdateContact(ctx context.Context, sa auth.ServiceAccount, in *dto.UpdateContactRequest) (*dto.ContactUpdatedResponse, error) {
	if err := sa.Require(auth.ScopeContactsWrite); err != nil {
		return nil, err
	}
	if in == nil {
		return nil, domain.NewValidationError("no se recibieron datos de contacto válidos")
	}
	if missing := in.MissingRequired(); len(missing) > 0 {
		fields := make([]domain.FieldError, 0, len(missing))
		for _, f := range missing {
			fields = append(fields, domain.FieldError{Field: f, Message: "es requerido"})
		}
		return nil, domain.NewValidationError("faltan campos requeridos del contacto", fields...)
	}
	if err := dto.Validate("datos de contacto inválidos", in); err != nil {
		return nil, err
	}
	existing, err := uc.findByRef(ctx, in.Ref, "contacto")
	if err != nil {
		return nil, err
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}
	langIn := ""
	if in.Lang != nil {
		langIn = *in.Lang
	}
	lang, err := uc.lang(langIn)
	if err != nil {
		return nil, err
	}
	name := in.Name
	changes := entity.PartnerChanges{
		Active:          &active,
		Name:            &name,
		CompanyType:     in.CompanyType,
		Email:           in.Email,
		Phone:           in.Phone,
		Street:          in.Street,
		Street2:         in.Street2,
		CityID:          in.CityID,
		City:            in.City,
		StateID:         in.StateID,
		Zip:             in.Zip,
		CountryID:       in.CountryID,
		VAT:             in.VAT,
		EDIUsage:        in.EDIUsage,
		FiscalRegime:    in.FiscalRegime,
		PaymentMethodID: in.PaymentMethodID,
		PaymentTermID:   in.PaymentTermID,
		PricelistID:     in.PricelistID,
		UserID:          in.UserID,
		Lang:            &lang,
	}
	if in.CompanyType != nil && *in.CompanyType == "" {
		changes.CompanyType = nil
	}
	if changes.CompanyType != nil {
		isCompany := *in.CompanyType == entity.CompanyTypeCompany
		changes.IsCompany = &isCompany
	}

	// commercial_partner_id y complete_name se recalculan con el padre efectivo
	var parent *entity.Partner
	switch {
	case !in.ParentRef.IsZero():
		parent, err = uc.findParent(ctx, in.ParentRef)
		if err != nil {
			return nil, err
		}
		if parent.ID == existing.ID {
			return nil, domain.NewValidationError("datos de contacto inválidos",
				domain.FieldError{Field: "parent_id", Message: "no puede ser el mismo contacto"})
		}
		changes.ParentID = &parent.ID
	case existing.ParentID != nil:
		if parent, err = uc.repo.FindByID(ctx, *existing.ParentID); err != nil {
			return nil, err
		}
	}
	updated := *existing
	updated.Name = name
	if changes.IsCompany != nil {
		updated.IsCompany = *changes.IsCompany
	}
	updated.ApplyParent(parent)
	changes.CommercialPartnerID = updated.CommercialPartnerID
	changes.CompleteName = &updated.CompleteName

	if err := uc.repo.Update(ctx, existing.ID, changes); err != nil {
		return nil, fmt.Errorf("actualizar contacto: %w", err)
	}
	return &dto.ContactUpdatedResponse{Status: dto.StatusSuccess, ContactID: existing.ID}, nil
}

// findByRef busca por ref y envuelve ErrNotFound con un mensaje legible.
func (uc *ContactUseCase) findByRef(ctx context.Context, ref, what string) (*entity.Partner, error) {
	p, err := uc.repo.FindByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s con ref %s no existe", domain.ErrNotFound, what, ref)
	}
	return p, nil
}

// findParent resuelve el padre por id o por ref.
func (uc *ContactUseCase) findParent(ctx context.Context, ref *dto.PartnerRef) (*entity.Partner, error) {
	if ref.ID <= 0 {
		return uc.findByRef(ctx, ref.Ref, "padre")
	}
	p, err := uc.repo.FindByID(ctx, ref.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: padre con id %d no existe", domain.ErrNotFound, ref.ID)
	}
	return p, nil
}

func (uc *ContactUseCase) lang(in string) (string, error) {
	if in == "" {
		return uc.cfg.DefaultLang, nil
	}
	lang, err := normalizeLang(in, uc.cfg.DefaultLang)
	if err != nil {
		return "", domain.NewValidationError("datos de contacto inválidos",
			domain.FieldError{Field: "lang", Message: "debe ser un código de idioma válido"})
	}
	return lang, nil
}
