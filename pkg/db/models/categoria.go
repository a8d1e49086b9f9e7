package models

// Categoria groups suppliers and product types.
type Categoria struct {
	ID     int    `gorm:"column:id;primaryKey;autoIncrement"`
	Nombre string `gorm:"column:nombre;not null;uniqueIndex"`
}

func (Categoria) TableName() string { return "categorias" }
