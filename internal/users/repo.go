package users

import (
	"context"

	"gorm.io/gorm"

	"github.com/felipe25/tienda-backend/pkg/db/models"
)

// Repository defines persistence operations for usuarios.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, usuario *models.Usuario) (*models.Usuario, error)
	FindByFirebaseUID(ctx context.Context, firebaseUID string) (*models.Usuario, error)
	FindByID(ctx context.Context, id int) (*models.Usuario, error)
	UpdateByFirebaseUID(ctx context.Context, firebaseUID string, updates map[string]any) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a usuarios repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, usuario *models.Usuario) (*models.Usuario, error) {
	if err := r.db.WithContext(ctx).Create(usuario).Error; err != nil {
		return nil, err
	}
	return usuario, nil
}

func (r *repository) FindByFirebaseUID(ctx context.Context, firebaseUID string) (*models.Usuario, error) {
	var usuario models.Usuario
	err := r.db.WithContext(ctx).
		Where("firebase_uid = ?", firebaseUID).
		First(&usuario).Error
	if err != nil {
		return nil, err
	}
	return &usuario, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*models.Usuario, error) {
	var usuario models.Usuario
	if err := r.db.WithContext(ctx).First(&usuario, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &usuario, nil
}

func (r *repository) UpdateByFirebaseUID(ctx context.Context, firebaseUID string, updates map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Usuario{}).
		Where("firebase_uid = ?", firebaseUID).
		Updates(updates)
	return result.RowsAffected, result.Error
}
