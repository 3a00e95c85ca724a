package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stings-api/internal/domain/entity"
	"github.com/jhoicas/stings-api/internal/domain/repository"
)

var _ repository.CredentialRepository = (*CredentialRepo)(nil)

// CredentialRepo lee la tabla stings_key.
type CredentialRepo struct {
	q Querier
}

// NewCredentialRepository construye el adaptador.
func NewCredentialRepository(q Querier) *CredentialRepo {
	return &CredentialRepo{q: q}
}

// FindActive busca la credencial activa por igualdad exacta de key y secret_key.
func (r *CredentialRepo) FindActive(ctx context.Context, key, secretKey string) (*entity.Credential, error) {
	const query = `
		SELECT id, COALESCE(name, ''), key, secret_key, active, COALESCE(create_date, now())
		FROM stings_key
		WHERE key = $1 AND secret_key = $2 AND active
		ORDER BY id
		LIMIT 1`
	var c entity.Credential
	err := r.q.QueryRow(ctx, query, key, secretKey).Scan(
		&c.ID, &c.Name, &c.Key, &c.SecretKey, &c.Active, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stings_key: %w", err)
	}
	return &c, nil
}
