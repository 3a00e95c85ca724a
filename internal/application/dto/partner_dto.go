package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CreatePartnerEnvelope body para POST /api/create_partner.
type CreatePartnerEnvelope struct {
	ContactData *CreatePartnerRequest `json:"contact_data"`
}

// CreatePartnerRequest datos del partner principal (empresa o persona física).
type CreatePartnerRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	Ref          string `json:"ref" validate:"max=255"`
	CompanyType  string `json:"company_type" validate:"omitempty,oneof=person company"`
	IDSecondary  string `json:"id_secondary"`
	VAT          string `json:"vat" validate:"max=32"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone"`
	Street       string `json:"street"`
	City         string `json:"city"`
	CityID       *int64 `json:"city_id"`
	StateID      *int64 `json:"state_id"`
	Zip          string `json:"zip"`
	CountryID    *int64 `json:"country_id"`
	FiscalRegime string `json:"l10n_mx_edi_fiscal_regime"`
	Lang         string `json:"lang"`
}

// CreateShippingEnvelope body para POST /api/create_shipping.
type CreateShippingEnvelope struct {
	ContactData *CreateShippingRequest `json:"contact_data"`
}

// CreateShippingRequest dirección de entrega; ParentRef es la ref del partner padre.
type CreateShippingRequest struct {
	ParentRef string `json:"parent_id" validate:"required"`
	Name      string `json:"name" validate:"max=255"`
	Street    string `json:"street"`
	Street2   string `json:"street2"`
	City      string `json:"city"`
	CityID    *int64 `json:"city_id"`
	Zip       string `json:"zip"`
	StateID   *int64 `json:"state_id"`
	CountryID *int64 `json:"country_id"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	Comment   string `json:"comment"`
}

// UpdateContactEnvelope body para PATCH /api/update_contact.
type UpdateContactEnvelope struct {
	ContactData *UpdateContactRequest `json:"contact_data"`
}

// UpdateContactRequest campos actualizables. nil = no enviado.
// Ref identifica al contacto y no se escribe; ParentRef es el nuevo padre, por id o por ref.
type UpdateContactRequest struct {
	Ref             string      `json:"ref"`
	Name            string      `json:"name"`
	Active          *bool       `json:"active"`
	CompanyType     *string     `json:"company_type" validate:"omitempty,oneof=person company"`
	Email           *string     `json:"email" validate:"omitempty,email"`
	Phone           *string     `json:"phone"`
	ParentRef       *PartnerRef `json:"parent_id"`
	Street          *string     `json:"street"`
	Street2         *string     `json:"street2"`
	CityID          *int64      `json:"city_id"`
	City            *string     `json:"city"`
	StateID         *int64      `json:"state_id"`
	Zip             *string     `json:"zip"`
	CountryID       *int64      `json:"country_id"`
	VAT             *string     `json:"vat" validate:"omitempty,max=32"`
	EDIUsage        *string     `json:"l10n_mx_edi_usage"`
	FiscalRegime    *string     `json:"l10n_mx_edi_fiscal_regime"`
	PaymentMethodID *int64      `json:"l10n_mx_edi_payment_method_id"`
	PaymentTermID   *int64      `json:"property_payment_term_id"`
	PricelistID     *int64      `json:"property_product_pricelist"`
	UserID          *int64      `json:"user_id"`
	Lang            *string     `json:"lang"`
}

// PartnerRef referencia a un contacto: un entero es su id y un texto es su ref.
type PartnerRef struct {
	ID  int64
	Ref string
}

// UnmarshalJSON implementa json.Unmarshaler.
func (r *PartnerRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var ref string
		if err := json.Unmarshal(b, &ref); err != nil {
			return fmt.Errorf("parent_id: %w", err)
		}
		*r = PartnerRef{Ref: ref}
		return nil
	}
	var id int64
	if err := json.Unmarshal(b, &id); err != nil {
		return fmt.Errorf("parent_id: se esperaba un id entero o una ref de texto")
	}
	*r = PartnerRef{ID: id}
	return nil
}

// IsZero indica que no referencia a nadie (ref vacía o id 0).
func (r *PartnerRef) IsZero() bool {
	return r == nil || (r.ID <= 0 && r.Ref == "")
}

func (r *PartnerRef) String() string {
	if r.ID > 0 {
		return fmt.Sprintf("id %d", r.ID)
	}
	return "ref " + r.Ref
}

// MissingRequired devuelve los campos obligatorios ausentes (ref, name) en ese orden.
func (r *UpdateContactRequest) MissingRequired() []string {
	var missing []string
	if r.Ref == "" {
		missing = append(missing, "ref")
	}
	if r.Name == "" {
		missing = append(missing, "name")
	}
	return missing
}

// PartnerCreatedResponse respuesta 201 de create_partner.
type PartnerCreatedResponse struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
	Ref    string `json:"ref"`
}

// ShippingCreatedResponse respuesta 201 de create_shipping.
type ShippingCreatedResponse struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
}

// ContactUpdatedResponse respuesta 200 de update_contact.
type ContactUpdatedResponse struct {
	Status    string `json:"status"`
	ContactID int64  `json:"contact_id"`
}
