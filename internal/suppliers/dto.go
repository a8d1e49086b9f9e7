package suppliers

import (
	"time"

	"github.com/felipe25/tienda-backend/pkg/db/models"
)

// ProveedorDTO is the transport shape for supplier reads.
type ProveedorDTO struct {
	ID              int       `json:"id"`
	Nombre          string    `json:"nombre"`
	RUC             string    `json:"ruc"`
	Logo            *string   `json:"logo,omitempty"`
	Categoria       *int      `json:"categoria,omitempty"`
	CategoriaNombre *string   `json:"categoria_nombre,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreateProveedorDTO holds the data an admin submits for a new supplier.
type CreateProveedorDTO struct {
	Nombre    string
	RUC       string
	Logo      *string
	Categoria int
}

// UpdateProveedorDTO carries a partial supplier update; nil fields are
// left untouched.
type UpdateProveedorDTO struct {
	Nombre    *string
	RUC       *string
	Logo      *string
	Categoria *int
}

// CategoriaDTO mirrors the categorias lookup rows.
type CategoriaDTO struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
}

func FromModel(p *models.Proveedor, categoriaNombre *string) *ProveedorDTO {
	if p == nil {
		return nil
	}
	return &ProveedorDTO{
		ID:              p.ID,
		Nombre:          p.Nombre,
		RUC:             p.RUC,
		Logo:            p.Logo,
		Categoria:       p.Categoria,
		CategoriaNombre: categoriaNombre,
		CreatedAt:       p.CreatedAt,
	}
}
