package models

// TipoProducto is a product subtype within a category, e.g. "zapatillas"
// under the footwear category. The (categoria, tipo) pair is unique.
type TipoProducto struct {
	ID        int    `gorm:"column:id;primaryKey;autoIncrement"`
	Categoria int    `gorm:"column:categoria;not null;uniqueIndex:idx_tipo_producto_categoria_tipo"`
	Tipo      string `gorm:"column:tipo;not null;uniqueIndex:idx_tipo_producto_categoria_tipo"`
}

func (TipoProducto) TableName() string { return "tipo_producto" }
