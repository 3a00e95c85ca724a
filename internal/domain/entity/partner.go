package entity

import (
	"strings"
	"time"
)

// Tipos de contacto (res.partner.type).
const (
	PartnerTypeContact  = "contact"  // Partner principal
	PartnerTypeDelivery = "delivery" // Dirección de entrega, siempre con ParentID
)

// Valores de company_type.
const (
	CompanyTypePerson  = "person"
	CompanyTypeCompany = "company"
)

// Partner representa un contacto (empresa o persona física) o una dirección de entrega.
// Ref es la llave externa con la que los integradores referencian al contacto.
type Partner struct {
	ID          int64
	Ref         string
	Name        string
	CompanyType string
	IsCompany   bool
	Type        string
	ParentID    *int64
	IDSecondary string
	VAT         string // RFC
	Email       string
	Phone       string
	Street      string
	Street2     string
	City        string
	CityID      *int64
	StateID     *int64
	Zip         string
	CountryID   *int64
	Comment     string
	Lang        string
	Active      bool

	// Calculados por la plataforma (commercial_partner_id, complete_name)
	CommercialPartnerID *int64
	CompleteName        string

	// CFDI (localización México)
	FiscalRegime    string // l10n_mx_edi_fiscal_regime
	EDIUsage        string // l10n_mx_edi_usage
	PaymentMethodID *int64 // l10n_mx_edi_payment_method_id

	PaymentTermID *int64 // property_payment_term_id
	PricelistID   *int64 // property_product_pricelist
	UserID        *int64 // vendedor asignado

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PartnerChanges conjunto de columnas a escribir en un update. nil = no se toca.
type PartnerChanges struct {
	Active          *bool
	CompanyType     *string
	IsCompany       *bool
	Name            *string
	Email           *string
	Phone           *string
	ParentID        *int64
	Street          *string
	Street2         *string
	CityID          *int64
	City            *string
	StateID         *int64
	Zip             *string
	CountryID       *int64
	VAT             *string
	EDIUsage        *string
	FiscalRegime    *string
	PaymentMethodID *int64
	PaymentTermID   *int64
	PricelistID     *int64
	UserID          *int64
	Lang            *string

	CommercialPartnerID *int64
	CompleteName        *string
}

// etiquetas de type usadas en complete_name cuando la dirección no tiene nombre.
var partnerTypeLabels = map[string]string{
	PartnerTypeDelivery: "Delivery Address",
}

// CommercialID devuelve commercial_partner_id, o el propio id si no está asignado.
func (p *Partner) CommercialID() int64 {
	if p.CommercialPartnerID != nil {
		return *p.CommercialPartnerID
	}
	return p.ID
}

// ApplyParent recalcula commercial_partner_id y complete_name respecto del padre (nil = sin padre).
// Sin padre, o si es empresa, el partner comercial es él mismo: CommercialPartnerID apunta a su id
// (o queda nil si todavía no tiene id, y se asigna al insertar).
func (p *Partner) ApplyParent(parent *Partner) {
	if parent == nil || p.IsCompany {
		p.CommercialPartnerID = nil
		if p.ID != 0 {
			id := p.ID
			p.CommercialPartnerID = &id
		}
	} else {
		id := parent.CommercialID()
		p.CommercialPartnerID = &id
	}
	p.CompleteName = completeName(p.Name, p.Type, p.IsCompany, parent)
}

// completeName arma "Padre, Hijo" para contactos hijos que no son empresa.
func completeName(name, partnerType string, isCompany bool, parent *Partner) string {
	name = strings.TrimSpace(name)
	if parent == nil {
		return name
	}
	if name == "" {
		name = partnerTypeLabels[partnerType]
	}
	if !isCompany {
		name = parent.Name + ", " + name
	}
	return strings.TrimSpace(name)
}
