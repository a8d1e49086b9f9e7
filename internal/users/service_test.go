package users

import (
	"context"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/felipe25/tienda-backend/pkg/db/models"
	pkgerrors "github.com/felipe25/tienda-backend/pkg/errors"
)

type stubUsersRepo struct {
	create    func(ctx context.Context, usuario *models.Usuario) (*models.Usuario, error)
	findByUID func(ctx context.Context, firebaseUID string) (*models.Usuario, error)
	update    func(ctx context.Context, firebaseUID string, updates map[string]any) (int64, error)
}

func (s *stubUsersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubUsersRepo) Create(ctx context.Context, usuario *models.Usuario) (*models.Usuario, error) {
	if s.create != nil {
		return s.create(ctx, usuario)
	}
	usuario.ID = 1
	return usuario, nil
}

func (s *stubUsersRepo) FindByFirebaseUID(ctx context.Context, firebaseUID string) (*models.Usuario, error) {
	if s.findByUID != nil {
		return s.findByUID(ctx, firebaseUID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsersRepo) FindByID(ctx context.Context, id int) (*models.Usuario, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsersRepo) UpdateByFirebaseUID(ctx context.Context, firebaseUID string, updates map[string]any) (int64, error) {
	if s.update != nil {
		return s.update(ctx, firebaseUID, updates)
	}
	return 0, nil
}

const testUID = "firebase-uid-0001"

func TestRegisterValidatesInput(t *testing.T) {
	svc, err := NewService(&stubUsersRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	cases := []struct {
		name  string
		input RegisterDTO
	}{
		{"short uid", RegisterDTO{FirebaseUID: "short", Email: "a@b.com", Nombre: "Ana", Apellido: "Diaz"}},
		{"missing email", RegisterDTO{FirebaseUID: testUID, Nombre: "Ana", Apellido: "Diaz"}},
		{"missing nombre", RegisterDTO{FirebaseUID: testUID, Email: "a@b.com", Apellido: "Diaz"}},
	}
	for _, tc := range cases {
		if _, err := svc.Register(context.Background(), tc.input); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		} else if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
			t.Errorf("%s: expected validation code, got %v", tc.name, err)
		}
	}
}

func TestRegisterMapsDuplicateToConflict(t *testing.T) {
	repo := &stubUsersRepo{
		create: func(ctx context.Context, usuario *models.Usuario) (*models.Usuario, error) {
			return nil, errDuplicateUID{}
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Register(context.Background(), RegisterDTO{
		FirebaseUID: testUID,
		Email:       "ana@example.com",
		Nombre:      "Ana",
		Apellido:    "Diaz",
	})
	if err == nil {
		t.Fatalf("expected conflict error")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}
}

func TestGetPerfilNotFound(t *testing.T) {
	svc, err := NewService(&stubUsersRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.GetPerfil(context.Background(), testUID)
	if err == nil {
		t.Fatalf("expected not found error")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}

func TestUpdatePerfilTrimsAndReloads(t *testing.T) {
	var captured map[string]any
	direccion := "Calle 50"
	repo := &stubUsersRepo{
		update: func(ctx context.Context, firebaseUID string, updates map[string]any) (int64, error) {
			captured = updates
			return 1, nil
		},
		findByUID: func(ctx context.Context, firebaseUID string) (*models.Usuario, error) {
			return &models.Usuario{ID: 7, FirebaseUID: firebaseUID, Nombre: "Ana", Apellido: "Diaz", Email: "ana@example.com", Direccion: &direccion}, nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	perfil, err := svc.UpdatePerfil(context.Background(), testUID, UpdatePerfilDTO{
		Nombre:    "  Ana ",
		Apellido:  "Diaz",
		Direccion: &direccion,
	})
	if err != nil {
		t.Fatalf("update perfil: %v", err)
	}
	if captured["nombre"] != "Ana" {
		t.Fatalf("expected trimmed nombre, got %v", captured["nombre"])
	}
	if perfil.ID != 7 || perfil.Direccion == nil || *perfil.Direccion != direccion {
		t.Fatalf("unexpected perfil %+v", perfil)
	}
}

func TestUpdatePerfilNotFound(t *testing.T) {
	svc, err := NewService(&stubUsersRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.UpdatePerfil(context.Background(), testUID, UpdatePerfilDTO{Nombre: "Ana", Apellido: "Diaz"})
	if err == nil {
		t.Fatalf("expected not found error")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}

type errDuplicateUID struct{}

func (errDuplicateUID) Error() string {
	return strings.Join([]string{"duplicate key value violates unique constraint", "idx_usuarios_firebase_uid"}, " ")
}
