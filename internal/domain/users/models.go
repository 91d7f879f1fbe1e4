package users

import (
	"time"

	"github.com/google/uuid"
)

// User is a marketplace participant. Credentials live with the identity
// provider; the marketplace only knows the ID and public handle.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Handle    string    `json:"handle" db:"handle"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
