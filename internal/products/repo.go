package product

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/felipe25/tienda-backend/pkg/db/models"
	"github.com/felipe25/tienda-backend/pkg/enums"
	"github.com/felipe25/tienda-backend/pkg/pagination"
)

// Repository defines persistence operations for productos.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, producto *models.Producto) (*models.Producto, error)
	FindByID(ctx context.Context, id int) (*models.Producto, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Producto, error)
	Update(ctx context.Context, id int, updates map[string]any) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a productos repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, producto *models.Producto) (*models.Producto, error) {
	if err := r.db.WithContext(ctx).Create(producto).Error; err != nil {
		return nil, err
	}
	return producto, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*models.Producto, error) {
	var producto models.Producto
	if err := r.db.WithContext(ctx).First(&producto, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &producto, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Producto, error) {
	query := r.db.WithContext(ctx).Model(&models.Producto{})

	if !filters.IncludeInactive {
		query = query.Where("status = ?", enums.ProductStatusActivo)
	}
	if filters.Categoria != "" {
		query = query.Where("LOWER(categoria) = LOWER(?)", filters.Categoria)
	}
	if filters.Tipo != "" {
		query = query.Where("LOWER(tipo) = LOWER(?)", filters.Tipo)
	}
	if filters.Sexo != "" {
		query = query.Where("LOWER(sexo) = LOWER(?)", filters.Sexo)
	}
	if filters.Marca != nil {
		query = query.Where("marca = ?", *filters.Marca)
	}
	if q := strings.TrimSpace(filters.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(nombre) LIKE ?", pattern)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Producto
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, id int, updates map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Producto{}).
		Where("id = ?", id).
		Updates(updates)
	return result.RowsAffected, result.Error
}
