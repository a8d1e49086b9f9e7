package producttypes

import (
	"context"
	"fmt"
	"strings"

	"github.com/felipe25/tienda-backend/pkg/db"
	"github.com/felipe25/tienda-backend/pkg/db/models"
	pkgerrors "github.com/felipe25/tienda-backend/pkg/errors"
)

// TipoDTO is the transport shape for a product subtype.
type TipoDTO struct {
	ID        int    `json:"id"`
	Categoria int    `json:"categoria"`
	Tipo      string `json:"tipo"`
}

// Service exposes product subtype operations.
type Service interface {
	Create(ctx context.Context, categoriaID int, tipo string) (*TipoDTO, error)
	Rename(ctx context.Context, id int, tipo string) (*TipoDTO, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]TipoDTO, error)
	ListByCategoria(ctx context.Context, categoriaID int) ([]TipoDTO, error)
}

type service struct {
	repo Repository
}

// NewService builds a producttypes service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("producttypes repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, categoriaID int, tipo string) (*TipoDTO, error) {
	tipo = strings.TrimSpace(tipo)
	if categoriaID <= 0 || tipo == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "categoria_id debe ser un entero positivo y tipo no puede estar vacío")
	}

	categoriaOK, err := s.repo.CategoriaExists(ctx, categoriaID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking categoria")
	}
	if !categoriaOK {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "la categoría con el ID proporcionado no existe")
	}

	exists, err := s.repo.Exists(ctx, categoriaID, tipo)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking tipo")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "este tipo ya existe para la categoría seleccionada")
	}

	row, err := s.repo.Create(ctx, &models.TipoProducto{Categoria: categoriaID, Tipo: tipo})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_tipo_producto_categoria_tipo") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "este tipo ya existe para la categoría seleccionada")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating tipo")
	}
	return fromModel(row), nil
}

func (s *service) Rename(ctx context.Context, id int, tipo string) (*TipoDTO, error) {
	tipo = strings.TrimSpace(tipo)
	if id <= 0 || tipo == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "id debe ser un entero positivo y tipo no puede estar vacío")
	}

	affected, err := s.repo.Rename(ctx, id, tipo)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_tipo_producto_categoria_tipo") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "este tipo ya existe para la categoría seleccionada")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "renaming tipo")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "el tipo con el ID proporcionado no existe")
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading tipo")
	}
	return fromModel(row), nil
}

func (s *service) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "id debe ser un entero positivo")
	}
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting tipo")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "el tipo con el ID proporcionado no existe")
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]TipoDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing tipos")
	}
	return fromModels(rows), nil
}

func (s *service) ListByCategoria(ctx context.Context, categoriaID int) ([]TipoDTO, error) {
	if categoriaID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "id de categoría inválido")
	}
	rows, err := s.repo.ListByCategoria(ctx, categoriaID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing tipos por categoria")
	}
	return fromModels(rows), nil
}

func fromModel(m *models.TipoProducto) *TipoDTO {
	if m == nil {
		return nil
	}
	return &TipoDTO{ID: m.ID, Categoria: m.Categoria, Tipo: m.Tipo}
}

func fromModels(rows []models.TipoProducto) []TipoDTO {
	out := make([]TipoDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *fromModel(&rows[i]))
	}
	return out
}
