package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompraItemDTO is one carrito row inside a grouped purchase, joined with
// the product snapshot the mobile history screen renders.
type CompraItemDTO struct {
	ID             int             `json:"id"`
	ProductoID     int             `json:"id_producto"`
	CantiProductos int             `json:"canti_productos"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	ITBMS          decimal.Decimal `json:"itbms"`
	Total          decimal.Decimal `json:"total"`
	Status         string          `json:"status"`
	FechaCompra    time.Time       `json:"fecha_compra"`
	Producto       ProductoResumen `json:"producto"`
}

// ProductoResumen is the embedded product snapshot for a history item.
type ProductoResumen struct {
	ID        int             `json:"id"`
	Nombre    string          `json:"nombre"`
	Precio    decimal.Decimal `json:"precio"`
	ImagenURL *string         `json:"imagenURL,omitempty"`
	Categoria *string         `json:"categoria,omitempty"`
	Marca     *int            `json:"marca,omitempty"`
}

// CompraDTO is one pedido: all carrito rows written by a single checkout.
type CompraDTO struct {
	PedidoID       string          `json:"pedido_id"`
	Fecha          time.Time       `json:"fecha"`
	Direccion      string          `json:"direccion"`
	MetodoPago     string          `json:"metodo_pago"`
	Status         string          `json:"status"`
	TotalCompra    decimal.Decimal `json:"total_compra"`
	TotalProductos int             `json:"total_productos"`
	Items          []CompraItemDTO `json:"items"`
}

// EstadisticasDTO aggregates the buyer's full history.
type EstadisticasDTO struct {
	TotalCompras            int             `json:"total_compras"`
	TotalGastado            decimal.Decimal `json:"total_gastado"`
	TotalProductosComprados int             `json:"total_productos_comprados"`
	CompraPromedio          decimal.Decimal `json:"compra_promedio"`
}

// HistorialDTO is the full history payload.
type HistorialDTO struct {
	Compras      []CompraDTO     `json:"compras"`
	Estadisticas EstadisticasDTO `json:"estadisticas"`
}
