package billing

import (
	"context"

	"github.com/jhoicas/stings-api/internal/domain/repository"
)

// InvoiceTxRunner ejecuta una función dentro de una transacción con el repositorio de facturas.
// Si fn retorna error se hace rollback: no queda cabecera sin líneas.
type InvoiceTxRunner interface {
	RunInvoice(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
}
