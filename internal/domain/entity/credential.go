package entity

import "time"

// Credential par apiKey/secretKey registrado para un integrador externo (tabla stings_key).
// Se compara por igualdad exacta; no hay hash ni expiración.
type Credential struct {
	ID        int64
	Name      string
	Key       string
	SecretKey string
	Active    bool
	CreatedAt time.Time
}
