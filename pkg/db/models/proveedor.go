package models

import "time"

// Proveedor is a brand/supplier. RUC is the Panamanian tax id and must be
// unique across suppliers.
type Proveedor struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	Nombre    string    `gorm:"column:nombre;not null"`
	RUC       string    `gorm:"column:ruc;not null;uniqueIndex"`
	Logo      *string   `gorm:"column:logo"`
	Categoria *int      `gorm:"column:categoria"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Proveedor) TableName() string { return "proveedores" }
