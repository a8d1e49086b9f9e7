package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/felipe25/tienda-backend/pkg/enums"
)

// Carrito is one purchased line item. An order (pedido) is the set of
// carrito rows written by a single checkout transaction; every row carries
// the order-level direccion and metodo_pago the way the original schema did.
type Carrito struct {
	ID                int               `gorm:"column:id;primaryKey;autoIncrement"`
	PedidoID          string            `gorm:"column:pedido_id;not null;index"`
	ProductoID        int               `gorm:"column:id_producto;not null"`
	UsuarioID         int               `gorm:"column:id_usuario;not null"`
	CantiProductos    int               `gorm:"column:canti_productos;not null"`
	Subtotal          decimal.Decimal   `gorm:"column:subtotal;type:numeric(10,2);not null"`
	ITBMS             decimal.Decimal   `gorm:"column:itbms;type:numeric(10,2);not null"`
	Total             decimal.Decimal   `gorm:"column:total;type:numeric(10,2);not null"`
	Direccion         string            `gorm:"column:direccion;not null"`
	MetodoPago        enums.MetodoPago  `gorm:"column:metodo_pago;not null"`
	Status            enums.OrderStatus `gorm:"column:status;not null;default:pendiente"`
	FechaCreacion     time.Time         `gorm:"column:fecha_creacion;autoCreateTime"`
	FechaModificacion time.Time         `gorm:"column:fecha_modificacion;autoUpdateTime"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (Carrito) TableName() string { return "carrito" }
