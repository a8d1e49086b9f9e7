package product

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/felipe25/tienda-backend/pkg/db/models"
	"github.com/felipe25/tienda-backend/pkg/enums"
)

// ProductoDTO is the transport shape for catalog reads. Field names match
// the payload the mobile client already consumes.
type ProductoDTO struct {
	ID          int             `json:"id"`
	Nombre      string          `json:"nombre"`
	Descripcion *string         `json:"descripcion,omitempty"`
	Precio      decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
	Categoria   *string         `json:"categoria,omitempty"`
	ImagenURL   *string         `json:"imagenURL,omitempty"`
	Color       *string         `json:"color,omitempty"`
	Talla       *string         `json:"talla,omitempty"`
	Tallas      []string        `json:"tallas,omitempty"`
	Colores     []string        `json:"colores,omitempty"`
	Tipo        *string         `json:"tipo,omitempty"`
	Sexo        *string         `json:"sexo,omitempty"`
	Status      string          `json:"status"`
	Comprados   int             `json:"comprados"`
	Marca       *int            `json:"marca,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateProductoDTO holds the data an admin submits for a new listing.
type CreateProductoDTO struct {
	Nombre      string
	Descripcion string
	Precio      decimal.Decimal
	Stock       int
	Categoria   string
	ImagenURL   *string
	Color       *string
	Talla       *string
	Tallas      []string
	Colores     []string
	Tipo        *string
	Sexo        *string
	Marca       *int
}

// UpdateProductoDTO carries the mutable listing fields. Nil pointers leave
// the column untouched.
type UpdateProductoDTO struct {
	Nombre      *string
	Descripcion *string
	Precio      *decimal.Decimal
	Stock       *int
	Categoria   *string
	ImagenURL   *string
	Color       *string
	Talla       *string
	Tallas      []string
	Colores     []string
	Tipo        *string
	Sexo        *string
	Status      *enums.ProductStatus
	Marca       *int
}

// ListFilters describe the supported filter knobs for the catalog endpoint.
type ListFilters struct {
	Categoria string `json:"categoria,omitempty"`
	Tipo      string `json:"tipo,omitempty"`
	Sexo      string `json:"sexo,omitempty"`
	Marca     *int   `json:"marca,omitempty"`
	Query     string `json:"q,omitempty"`
	// IncludeInactive widens the listing beyond activo rows; admin only.
	IncludeInactive bool `json:"-"`
}

func FromModel(p *models.Producto) *ProductoDTO {
	if p == nil {
		return nil
	}
	return &ProductoDTO{
		ID:          p.ID,
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Precio:      p.Precio,
		Stock:       p.Stock,
		Categoria:   p.Categoria,
		ImagenURL:   p.ImagenURL,
		Color:       p.Color,
		Talla:       p.Talla,
		Tallas:      append([]string(nil), p.Tallas...),
		Colores:     append([]string(nil), p.Colores...),
		Tipo:        p.Tipo,
		Sexo:        p.Sexo,
		Status:      p.Status.String(),
		Comprados:   p.Comprados,
		Marca:       p.Marca,
		CreatedAt:   p.CreatedAt,
	}
}

func FromModels(rows []models.Producto) []ProductoDTO {
	out := make([]ProductoDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func (c CreateProductoDTO) ToModel() *models.Producto {
	descripcion := c.Descripcion
	categoria := c.Categoria
	return &models.Producto{
		Nombre:      c.Nombre,
		Descripcion: &descripcion,
		Precio:      c.Precio,
		Stock:       c.Stock,
		Categoria:   &categoria,
		ImagenURL:   c.ImagenURL,
		Color:       c.Color,
		Talla:       c.Talla,
		Tallas:      append([]string(nil), c.Tallas...),
		Colores:     append([]string(nil), c.Colores...),
		Tipo:        c.Tipo,
		Sexo:        c.Sexo,
		Status:      enums.ProductStatusActivo,
		Marca:       c.Marca,
	}
}
