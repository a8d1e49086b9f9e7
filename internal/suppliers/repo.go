package suppliers

import (
	"context"

	"gorm.io/gorm"

	"github.com/felipe25/tienda-backend/pkg/db/models"
)

// ProveedorRow joins the supplier with its category name the way the
// original listing endpoint did.
type ProveedorRow struct {
	models.Proveedor
	CategoriaNombre *string
}

// Repository defines persistence operations for proveedores and categorias.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, proveedor *models.Proveedor) (*models.Proveedor, error)
	FindByID(ctx context.Context, id int) (*models.Proveedor, error)
	Update(ctx context.Context, id int, updates map[string]any) (int64, error)
	Delete(ctx context.Context, id int) (int64, error)
	ExistsByRUC(ctx context.Context, ruc string) (bool, error)
	List(ctx context.Context) ([]ProveedorRow, error)
	ListByCategoria(ctx context.Context, categoriaID int) ([]models.Proveedor, error)
	ListCategorias(ctx context.Context) ([]models.Categoria, error)
	CategoriaExists(ctx context.Context, id int) (bool, error)
	CreateCategoria(ctx context.Context, categoria *models.Categoria) (*models.Categoria, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a suppliers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, proveedor *models.Proveedor) (*models.Proveedor, error) {
	if err := r.db.WithContext(ctx).Create(proveedor).Error; err != nil {
		return nil, err
	}
	return proveedor, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*models.Proveedor, error) {
	var proveedor models.Proveedor
	if err := r.db.WithContext(ctx).First(&proveedor, id).Error; err != nil {
		return nil, err
	}
	return &proveedor, nil
}

func (r *repository) Update(ctx context.Context, id int, updates map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Proveedor{}).
		Where("id = ?", id).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *repository) Delete(ctx context.Context, id int) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Proveedor{}, id)
	return result.RowsAffected, result.Error
}

func (r *repository) ExistsByRUC(ctx context.Context, ruc string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Proveedor{}).
		Where("ruc = ?", ruc).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) List(ctx context.Context) ([]ProveedorRow, error) {
	var rows []ProveedorRow
	err := r.db.WithContext(ctx).
		Model(&models.Proveedor{}).
		Select("proveedores.*, categorias.nombre AS categoria_nombre").
		Joins("LEFT JOIN categorias ON categorias.id = proveedores.categoria").
		Order("proveedores.nombre ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByCategoria(ctx context.Context, categoriaID int) ([]models.Proveedor, error) {
	var rows []models.Proveedor
	err := r.db.WithContext(ctx).
		Where("categoria = ?", categoriaID).
		Order("nombre ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListCategorias(ctx context.Context) ([]models.Categoria, error) {
	var rows []models.Categoria
	err := r.db.WithContext(ctx).
		Order("nombre ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CategoriaExists(ctx context.Context, id int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Categoria{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CreateCategoria(ctx context.Context, categoria *models.Categoria) (*models.Categoria, error) {
	if err := r.db.WithContext(ctx).Create(categoria).Error; err != nil {
		return nil, err
	}
	return categoria, nil
}
