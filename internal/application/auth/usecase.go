package auth

import (
	"context"
	"fmt"

	"github.com/jhoicas/stings-api/internal/domain"
	"github.com/jhoicas/stings-api/internal/domain/repository"
)

// Scope operación que una cuenta de servicio puede ejecutar.
type Scope string

const (
	ScopeContactsWrite Scope = "contacts:write"
	ScopeInvoicesWrite Scope = "invoices:write"
)

// apiScopes son los únicos permisos que otorga una credencial de API.
var apiScopes = []Scope{ScopeContactsWrite, ScopeInvoicesWrite}

// ServiceAccount identidad explícita con la que se ejecuta cada petición autenticada.
// Se construye a partir de la credencial validada y viaja hasta los casos de uso.
type ServiceAccount struct {
	KeyID  int64
	Name   string
	Scopes []Scope
}

// Allows indica si la cuenta tiene el permiso.
func (s ServiceAccount) Allows(scope Scope) bool {
	for _, sc := range s.Scopes {
		if sc == scope {
			return true
		}
	}
	return false
}

// Require devuelve ErrUnauthorized si la cuenta no tiene el permiso.
func (s ServiceAccount) Require(scope Scope) error {
	if !s.Allows(scope) {
		return fmt.Errorf("%w: falta el permiso %s", domain.ErrUnauthorized, scope)
	}
	return nil
}

// APIKeyUseCase valida pares apiKey/secretKey contra las credenciales registradas.
type APIKeyUseCase struct {
	repo repository.CredentialRepository
}

// NewAPIKeyUseCase construye el caso de uso.
func NewAPIKeyUseCase(repo repository.CredentialRepository) *APIKeyUseCase {
	return &APIKeyUseCase{repo: repo}
}

// Authenticate valida el par y devuelve la cuenta de servicio.
// ErrMissingCredentials si falta alguno (sin consultar el store), ErrUnauthorized si no coincide.
func (uc *APIKeyUseCase) Authenticate(ctx context.Context, apiKey, secretKey string) (*ServiceAccount, error) {
	if apiKey == "" || secretKey == "" {
		return nil, domain.ErrMissingCredentials
	}
	cred, err := uc.repo.FindActive(ctx, apiKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("authentication check failed: %w", err)
	}
	if cred == nil {
		return nil, domain.ErrUnauthorized
	}
	scopes := make([]Scope, len(apiScopes))
	copy(scopes, apiScopes)
	return &ServiceAccount{KeyID: cred.ID, Name: cred.Name, Scopes: scopes}, nil
}
