package repository

import (
	"context"

	"github.com/jhoicas/stings-api/internal/domain/entity"
)

// CredentialRepository define el puerto de consulta de credenciales de API.
type CredentialRepository interface {
	// FindActive devuelve la credencial activa con ese par exacto, o nil, nil si no existe.
	FindActive(ctx context.Context, key, secretKey string) (*entity.Credential, error)
}
