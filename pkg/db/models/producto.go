package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/felipe25/tienda-backend/pkg/enums"
)

// Producto is a storefront listing. Stock and Comprados are only mutated
// under row locks during checkout; Marca references proveedores.id.
type Producto struct {
	ID          int                 `gorm:"column:id;primaryKey;autoIncrement"`
	Nombre      string              `gorm:"column:nombre;not null"`
	Descripcion *string             `gorm:"column:descripcion"`
	Precio      decimal.Decimal     `gorm:"column:precio;type:numeric(10,2);not null"`
	Stock       int                 `gorm:"column:stock;not null"`
	Categoria   *string             `gorm:"column:categoria"`
	ImagenURL   *string             `gorm:"column:imagenURL"`
	Color       *string             `gorm:"column:color"`
	Talla       *string             `gorm:"column:talla"`
	Tallas      pq.StringArray      `gorm:"column:tallas;type:text[]"`
	Colores     pq.StringArray      `gorm:"column:colores;type:text[]"`
	Tipo        *string             `gorm:"column:tipo"`
	Sexo        *string             `gorm:"column:sexo"`
	Status      enums.ProductStatus `gorm:"column:status;not null;default:activo"`
	Comprados   int                 `gorm:"column:comprados;not null;default:0"`
	Marca       *int                `gorm:"column:marca"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Producto) TableName() string { return "productos" }
