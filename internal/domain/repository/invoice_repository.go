package repository

import (
	"context"

	"github.com/jhoicas/stings-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para facturas de cliente.
type InvoiceRepository interface {
	// Create inserta la cabecera y asigna invoice.ID.
	Create(ctx context.Context, invoice *entity.Invoice) error
	// CreateLine inserta una línea con sus impuestos y asigna line.ID.
	CreateLine(ctx context.Context, line *entity.InvoiceLine) error
}
