package users

import (
	"time"

	"github.com/felipe25/tienda-backend/pkg/db/models"
)

// PerfilDTO is the transport shape the mobile client reads on the profile
// screen. Field names match the original API payload.
type PerfilDTO struct {
	ID        int       `json:"id"`
	Nombre    string    `json:"nombre"`
	Apellido  string    `json:"apellido"`
	Email     string    `json:"email"`
	Direccion *string   `json:"direccion,omitempty"`
	Edad      *int      `json:"edad,omitempty"`
	Usuario   *string   `json:"usuario,omitempty"`
	Telefono  *string   `json:"telefono,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterDTO holds the data required to persist a new usuario after the
// client completes Firebase sign-up.
type RegisterDTO struct {
	FirebaseUID string
	Email       string
	Nombre      string
	Apellido    string
	Usuario     *string
	Edad        *int
	Telefono    *string
	Direccion   *string
}

// UpdatePerfilDTO carries the editable profile fields.
type UpdatePerfilDTO struct {
	Nombre    string
	Apellido  string
	Direccion *string
	Edad      *int
	Usuario   *string
	Telefono  *string
}

func FromModel(u *models.Usuario) *PerfilDTO {
	if u == nil {
		return nil
	}
	return &PerfilDTO{
		ID:        u.ID,
		Nombre:    u.Nombre,
		Apellido:  u.Apellido,
		Email:     u.Email,
		Direccion: u.Direccion,
		Edad:      u.Edad,
		Usuario:   u.Usuario,
		Telefono:  u.Telefono,
		CreatedAt: u.CreatedAt,
	}
}

func (r RegisterDTO) ToModel() *models.Usuario {
	return &models.Usuario{
		FirebaseUID: r.FirebaseUID,
		Email:       r.Email,
		Nombre:      r.Nombre,
		Apellido:    r.Apellido,
		Usuario:     r.Usuario,
		Edad:        r.Edad,
		Telefono:    r.Telefono,
		Direccion:   r.Direccion,
	}
}
