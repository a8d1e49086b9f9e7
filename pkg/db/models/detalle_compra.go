package models

import "time"

// DetalleCompra links a carrito row back to the product and buyer. The
// original schema kept this as a separate audit table, so the service
// keeps writing it alongside each carrito insert.
type DetalleCompra struct {
	ID         int       `gorm:"column:id;primaryKey;autoIncrement"`
	CarritoID  int       `gorm:"column:id_carrito;not null"`
	ProductoID int       `gorm:"column:id_producto;not null"`
	UsuarioID  int       `gorm:"column:id_usuario;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (DetalleCompra) TableName() string { return "detalles_compra" }
