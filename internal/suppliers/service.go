package suppliers

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/felipe25/tienda-backend/pkg/db"
	"github.com/felipe25/tienda-backend/pkg/db/models"
	pkgerrors "github.com/felipe25/tienda-backend/pkg/errors"
)

// MinRUCDigits is the minimum length of a supplier RUC.
const MinRUCDigits = 4

// Service exposes supplier and category operations.
type Service interface {
	Create(ctx context.Context, input CreateProveedorDTO) (*ProveedorDTO, error)
	Update(ctx context.Context, id int, input UpdateProveedorDTO) (*ProveedorDTO, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]ProveedorDTO, error)
	ListByCategoria(ctx context.Context, categoriaID int) ([]ProveedorDTO, error)
	ListCategorias(ctx context.Context) ([]CategoriaDTO, error)
	CreateCategoria(ctx context.Context, nombre string) (*CategoriaDTO, error)
}

type service struct {
	repo Repository
}

// NewService builds a suppliers service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("suppliers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateProveedorDTO) (*ProveedorDTO, error) {
	if strings.TrimSpace(input.Nombre) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nombre es requerido")
	}
	if input.Categoria <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "categoria es requerida")
	}
	ruc := strings.TrimSpace(input.RUC)
	if !validRUC(ruc) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "el RUC debe tener al menos 4 dígitos numéricos")
	}

	exists, err := s.repo.ExistsByRUC(ctx, ruc)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking RUC")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "ya existe un proveedor con este RUC")
	}

	categoriaOK, err := s.repo.CategoriaExists(ctx, input.Categoria)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking categoria")
	}
	if !categoriaOK {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "la categoría no existe")
	}

	categoria := input.Categoria
	proveedor, err := s.repo.Create(ctx, &models.Proveedor{
		Nombre:    strings.TrimSpace(input.Nombre),
		RUC:       ruc,
		Logo:      input.Logo,
		Categoria: &categoria,
	})
	if err != nil {
		// the unique index closes the check-then-insert race
		if db.IsUniqueViolation(err, "ruc") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "ya existe un proveedor con este RUC")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating proveedor")
	}
	return FromModel(proveedor, nil), nil
}

func (s *service) Update(ctx context.Context, id int, input UpdateProveedorDTO) (*ProveedorDTO, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "id de proveedor inválido")
	}

	updates := map[string]any{}
	if input.Nombre != nil {
		nombre := strings.TrimSpace(*input.Nombre)
		if nombre == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "nombre no puede estar vacío")
		}
		updates["nombre"] = nombre
	}
	if input.RUC != nil {
		ruc := strings.TrimSpace(*input.RUC)
		if !validRUC(ruc) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "el RUC debe tener al menos 4 dígitos numéricos")
		}
		updates["ruc"] = ruc
	}
	if input.Logo != nil {
		updates["logo"] = *input.Logo
	}
	if input.Categoria != nil {
		if *input.Categoria <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "categoria inválida")
		}
		categoriaOK, err := s.repo.CategoriaExists(ctx, *input.Categoria)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking categoria")
		}
		if !categoriaOK {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "la categoría no existe")
		}
		updates["categoria"] = *input.Categoria
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no hay campos para actualizar")
	}

	affected, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if db.IsUniqueViolation(err, "ruc") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "ya existe un proveedor con este RUC")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating proveedor")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "proveedor no encontrado")
	}

	proveedor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading proveedor")
	}
	return FromModel(proveedor, nil), nil
}

func (s *service) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "id de proveedor inválido")
	}
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting proveedor")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "proveedor no encontrado")
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]ProveedorDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing proveedores")
	}
	out := make([]ProveedorDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i].Proveedor, rows[i].CategoriaNombre))
	}
	return out, nil
}

func (s *service) ListByCategoria(ctx context.Context, categoriaID int) ([]ProveedorDTO, error) {
	if categoriaID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "id de categoría inválido")
	}
	rows, err := s.repo.ListByCategoria(ctx, categoriaID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing proveedores por categoria")
	}
	out := make([]ProveedorDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i], nil))
	}
	return out, nil
}

func (s *service) ListCategorias(ctx context.Context) ([]CategoriaDTO, error) {
	rows, err := s.repo.ListCategorias(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing categorias")
	}
	out := make([]CategoriaDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, CategoriaDTO{ID: row.ID, Nombre: row.Nombre})
	}
	return out, nil
}

func (s *service) CreateCategoria(ctx context.Context, nombre string) (*CategoriaDTO, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nombre es requerido")
	}
	categoria, err := s.repo.CreateCategoria(ctx, &models.Categoria{Nombre: nombre})
	if err != nil {
		if db.IsUniqueViolation(err, "nombre") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "la categoría ya existe")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating categoria")
	}
	return &CategoriaDTO{ID: categoria.ID, Nombre: categoria.Nombre}, nil
}

func validRUC(ruc string) bool {
	if len(ruc) < MinRUCDigits {
		return false
	}
	for _, r := range ruc {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
