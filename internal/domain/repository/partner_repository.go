package repository

import (
	"context"

	"github.com/jhoicas/stings-api/internal/domain/entity"
)

// PartnerRepository define el puerto de persistencia para contactos y direcciones de entrega.
type PartnerRepository interface {
	// FindByRef devuelve el primer contacto con esa ref, o nil, nil si no existe.
	FindByRef(ctx context.Context, ref string) (*entity.Partner, error)
	// FindByID devuelve el contacto con ese id (activo o archivado), o nil, nil si no existe.
	FindByID(ctx context.Context, id int64) (*entity.Partner, error)
	// Create inserta el contacto y asigna partner.ID. Si CommercialPartnerID es nil se usa el propio id.
	Create(ctx context.Context, partner *entity.Partner) error
	// Update escribe solo las columnas no-nil de changes.
	Update(ctx context.Context, id int64, changes entity.PartnerChanges) error
}
