package suppliers

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/felipe25/tienda-backend/pkg/db/models"
	pkgerrors "github.com/felipe25/tienda-backend/pkg/errors"
)

type stubSuppliersRepo struct {
	create          func(ctx context.Context, proveedor *models.Proveedor) (*models.Proveedor, error)
	existsByRUC     func(ctx context.Context, ruc string) (bool, error)
	categoriaExists func(ctx context.Context, id int) (bool, error)
	listCategorias  func(ctx context.Context) ([]models.Categoria, error)
	createCategoria func(ctx context.Context, categoria *models.Categoria) (*models.Categoria, error)
	findByID        func(ctx context.Context, id int) (*models.Proveedor, error)
	update          func(ctx context.Context, id int, updates map[string]any) (int64, error)
	delete          func(ctx context.Context, id int) (int64, error)
}

func (s *stubSuppliersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubSuppliersRepo) Create(ctx context.Context, proveedor *models.Proveedor) (*models.Proveedor, error) {
	if s.create != nil {
		return s.create(ctx, proveedor)
	}
	proveedor.ID = 1
	return proveedor, nil
}

func (s *stubSuppliersRepo) ExistsByRUC(ctx context.Context, ruc string) (bool, error) {
	if s.existsByRUC != nil {
		return s.existsByRUC(ctx, ruc)
	}
	return false, nil
}

func (s *stubSuppliersRepo) FindByID(ctx context.Context, id int) (*models.Proveedor, error) {
	if s.findByID != nil {
		return s.findByID(ctx, id)
	}
	categoria := 1
	return &models.Proveedor{ID: id, Nombre: "Nike", RUC: "12345", Categoria: &categoria}, nil
}

func (s *stubSuppliersRepo) Update(ctx context.Context, id int, updates map[string]any) (int64, error) {
	if s.update != nil {
		return s.update(ctx, id, updates)
	}
	return 1, nil
}

func (s *stubSuppliersRepo) Delete(ctx context.Context, id int) (int64, error) {
	if s.delete != nil {
		return s.delete(ctx, id)
	}
	return 1, nil
}

func (s *stubSuppliersRepo) List(ctx context.Context) ([]ProveedorRow, error) {
	return nil, nil
}

func (s *stubSuppliersRepo) ListByCategoria(ctx context.Context, categoriaID int) ([]models.Proveedor, error) {
	return nil, nil
}

func (s *stubSuppliersRepo) ListCategorias(ctx context.Context) ([]models.Categoria, error) {
	if s.listCategorias != nil {
		return s.listCategorias(ctx)
	}
	return nil, nil
}

func (s *stubSuppliersRepo) CategoriaExists(ctx context.Context, id int) (bool, error) {
	if s.categoriaExists != nil {
		return s.categoriaExists(ctx, id)
	}
	return true, nil
}

func (s *stubSuppliersRepo) CreateCategoria(ctx context.Context, categoria *models.Categoria) (*models.Categoria, error) {
	if s.createCategoria != nil {
		return s.createCategoria(ctx, categoria)
	}
	categoria.ID = 1
	return categoria, nil
}

func TestCreateRejectsBadRUC(t *testing.T) {
	svc, err := NewService(&stubSuppliersRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	cases := []string{"", "123", "12a4", "abcd", "12 34"}
	for _, ruc := range cases {
		_, err := svc.Create(context.Background(), CreateProveedorDTO{Nombre: "Nike", RUC: ruc, Categoria: 1})
		if err == nil {
			t.Errorf("ruc %q: expected validation error", ruc)
			continue
		}
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
			t.Errorf("ruc %q: expected validation code, got %v", ruc, err)
		}
	}
}

func TestCreateRejectsDuplicateRUC(t *testing.T) {
	repo := &stubSuppliersRepo{
		existsByRUC: func(ctx context.Context, ruc string) (bool, error) {
			return true, nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Create(context.Background(), CreateProveedorDTO{Nombre: "Nike", RUC: "12345", Categoria: 1})
	if err == nil {
		t.Fatalf("expected conflict error")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}
}

func TestCreateRejectsUnknownCategoria(t *testing.T) {
	repo := &stubSuppliersRepo{
		categoriaExists: func(ctx context.Context, id int) (bool, error) {
			return false, nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Create(context.Background(), CreateProveedorDTO{Nombre: "Nike", RUC: "12345", Categoria: 9})
	if err == nil {
		t.Fatalf("expected not found error")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}

func TestCreateTrimsFields(t *testing.T) {
	var created *models.Proveedor
	repo := &stubSuppliersRepo{
		create: func(ctx context.Context, proveedor *models.Proveedor) (*models.Proveedor, error) {
			created = proveedor
			proveedor.ID = 3
			return proveedor, nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Create(context.Background(), CreateProveedorDTO{Nombre: " Nike ", RUC: " 12345 ", Categoria: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Nombre != "Nike" || created.RUC != "12345" {
		t.Fatalf("expected trimmed fields, got %+v", created)
	}
	if dto.ID != 3 {
		t.Fatalf("unexpected dto %+v", dto)
	}
}

func TestCreateCategoriaValidatesNombre(t *testing.T) {
	svc, err := NewService(&stubSuppliersRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := svc.CreateCategoria(context.Background(), "   "); err == nil {
		t.Fatalf("expected validation error")
	}

	dto, err := svc.CreateCategoria(context.Background(), " Ropa ")
	if err != nil {
		t.Fatalf("create categoria: %v", err)
	}
	if dto.Nombre != "Ropa" {
		t.Fatalf("expected trimmed nombre, got %q", dto.Nombre)
	}
}

func TestUpdateTrimsAndReloadsProveedor(t *testing.T) {
	var applied map[string]any
	repo := &stubSuppliersRepo{
		update: func(ctx context.Context, id int, updates map[string]any) (int64, error) {
			applied = updates
			return 1, nil
		},
		findByID: func(ctx context.Context, id int) (*models.Proveedor, error) {
			categoria := 2
			return &models.Proveedor{ID: id, Nombre: "Adidas", RUC: "67890", Categoria: &categoria}, nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	nombre := " Adidas "
	ruc := " 67890 "
	dto, err := svc.Update(context.Background(), 5, UpdateProveedorDTO{Nombre: &nombre, RUC: &ruc})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if applied["nombre"] != "Adidas" || applied["ruc"] != "67890" {
		t.Fatalf("expected trimmed updates, got %v", applied)
	}
	if dto.ID != 5 || dto.Nombre != "Adidas" {
		t.Fatalf("unexpected dto %+v", dto)
	}
}

func TestUpdateRejectsEmptyChangeSet(t *testing.T) {
	svc, err := NewService(&stubSuppliersRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Update(context.Background(), 5, UpdateProveedorDTO{})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestUpdateUnknownProveedorIsNotFound(t *testing.T) {
	repo := &stubSuppliersRepo{
		update: func(ctx context.Context, id int, updates map[string]any) (int64, error) {
			return 0, nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	nombre := "Adidas"
	_, err = svc.Update(context.Background(), 99, UpdateProveedorDTO{Nombre: &nombre})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}

func TestDeleteUnknownProveedorIsNotFound(t *testing.T) {
	repo := &stubSuppliersRepo{
		delete: func(ctx context.Context, id int) (int64, error) {
			if id == 99 {
				return 0, nil
			}
			return 1, nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	err = svc.Delete(context.Background(), 99)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}

	if err := svc.Delete(context.Background(), 3); err != nil {
		t.Fatalf("delete existing proveedor: %v", err)
	}
}
