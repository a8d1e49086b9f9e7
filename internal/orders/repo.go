package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/felipe25/tienda-backend/pkg/db/models"
)

// Repository defines persistence operations for carrito and detalles_compra.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateCarrito(ctx context.Context, carrito *models.Carrito) (*models.Carrito, error)
	CreateDetalleCompra(ctx context.Context, detalle *models.DetalleCompra) (*models.DetalleCompra, error)
	ListByUsuario(ctx context.Context, usuarioID int) ([]models.Carrito, error)
	ListByPedidoID(ctx context.Context, pedidoID string) ([]models.Carrito, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateCarrito(ctx context.Context, carrito *models.Carrito) (*models.Carrito, error) {
	if err := r.db.WithContext(ctx).Create(carrito).Error; err != nil {
		return nil, err
	}
	return carrito, nil
}

func (r *repository) CreateDetalleCompra(ctx context.Context, detalle *models.DetalleCompra) (*models.DetalleCompra, error) {
	if err := r.db.WithContext(ctx).Create(detalle).Error; err != nil {
		return nil, err
	}
	return detalle, nil
}

func (r *repository) ListByUsuario(ctx context.Context, usuarioID int) ([]models.Carrito, error) {
	var rows []models.Carrito
	err := r.db.WithContext(ctx).
		Preload("Producto").
		Where("id_usuario = ?", usuarioID).
		Order("fecha_creacion DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByPedidoID(ctx context.Context, pedidoID string) ([]models.Carrito, error) {
	var rows []models.Carrito
	err := r.db.WithContext(ctx).
		Preload("Producto").
		Where("pedido_id = ?", pedidoID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
