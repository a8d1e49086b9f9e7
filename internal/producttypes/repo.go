package producttypes

import (
	"context"

	"gorm.io/gorm"

	"github.com/felipe25/tienda-backend/pkg/db/models"
)

// Repository defines persistence operations for tipo_producto rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, tipo *models.TipoProducto) (*models.TipoProducto, error)
	FindByID(ctx context.Context, id int) (*models.TipoProducto, error)
	Rename(ctx context.Context, id int, tipo string) (int64, error)
	Delete(ctx context.Context, id int) (int64, error)
	Exists(ctx context.Context, categoriaID int, tipo string) (bool, error)
	CategoriaExists(ctx context.Context, categoriaID int) (bool, error)
	List(ctx context.Context) ([]models.TipoProducto, error)
	ListByCategoria(ctx context.Context, categoriaID int) ([]models.TipoProducto, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a tipo_producto repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, tipo *models.TipoProducto) (*models.TipoProducto, error) {
	if err := r.db.WithContext(ctx).Create(tipo).Error; err != nil {
		return nil, err
	}
	return tipo, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*models.TipoProducto, error) {
	var tipo models.TipoProducto
	if err := r.db.WithContext(ctx).First(&tipo, id).Error; err != nil {
		return nil, err
	}
	return &tipo, nil
}

func (r *repository) Rename(ctx context.Context, id int, tipo string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.TipoProducto{}).
		Where("id = ?", id).
		Update("tipo", tipo)
	return result.RowsAffected, result.Error
}

func (r *repository) Delete(ctx context.Context, id int) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.TipoProducto{}, id)
	return result.RowsAffected, result.Error
}

func (r *repository) Exists(ctx context.Context, categoriaID int, tipo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TipoProducto{}).
		Where("categoria = ? AND tipo = ?", categoriaID, tipo).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CategoriaExists(ctx context.Context, categoriaID int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Categoria{}).
		Where("id = ?", categoriaID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) List(ctx context.Context) ([]models.TipoProducto, error) {
	var rows []models.TipoProducto
	err := r.db.WithContext(ctx).
		Order("categoria ASC").
		Order("tipo ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByCategoria(ctx context.Context, categoriaID int) ([]models.TipoProducto, error) {
	var rows []models.TipoProducto
	err := r.db.WithContext(ctx).
		Where("categoria = ?", categoriaID).
		Order("tipo ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
