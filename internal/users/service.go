package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/felipe25/tienda-backend/pkg/db"
	pkgerrors "github.com/felipe25/tienda-backend/pkg/errors"
)

// MinFirebaseUIDLength rejects obviously malformed auth identifiers before
// touching the database. Real Firebase UIDs are 28 characters.
const MinFirebaseUIDLength = 10

// Service exposes usuario profile operations.
type Service interface {
	Register(ctx context.Context, input RegisterDTO) (*PerfilDTO, error)
	GetPerfil(ctx context.Context, firebaseUID string) (*PerfilDTO, error)
	UpdatePerfil(ctx context.Context, firebaseUID string, input UpdatePerfilDTO) (*PerfilDTO, error)
}

type service struct {
	repo Repository
}

// NewService builds a usuarios service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Register(ctx context.Context, input RegisterDTO) (*PerfilDTO, error) {
	if err := validateFirebaseUID(input.FirebaseUID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email es requerido")
	}
	if strings.TrimSpace(input.Nombre) == "" || strings.TrimSpace(input.Apellido) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nombre y apellido son requeridos")
	}

	usuario, err := s.repo.Create(ctx, input.ToModel())
	if err != nil {
		if db.IsUniqueViolation(err, "firebase_uid") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "el usuario ya existe")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating usuario")
	}
	return FromModel(usuario), nil
}

func (s *service) GetPerfil(ctx context.Context, firebaseUID string) (*PerfilDTO, error) {
	if err := validateFirebaseUID(firebaseUID); err != nil {
		return nil, err
	}
	usuario, err := s.repo.FindByFirebaseUID(ctx, firebaseUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "usuario no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading usuario")
	}
	return FromModel(usuario), nil
}

func (s *service) UpdatePerfil(ctx context.Context, firebaseUID string, input UpdatePerfilDTO) (*PerfilDTO, error) {
	if err := validateFirebaseUID(firebaseUID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Nombre) == "" || strings.TrimSpace(input.Apellido) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nombre y apellido son requeridos")
	}

	updates := map[string]any{
		"nombre":    strings.TrimSpace(input.Nombre),
		"apellido":  strings.TrimSpace(input.Apellido),
		"direccion": input.Direccion,
		"edad":      input.Edad,
		"usuario":   input.Usuario,
		"telefono":  input.Telefono,
	}
	affected, err := s.repo.UpdateByFirebaseUID(ctx, firebaseUID, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating usuario")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "usuario no encontrado")
	}
	return s.GetPerfil(ctx, firebaseUID)
}

func validateFirebaseUID(firebaseUID string) error {
	if len(strings.TrimSpace(firebaseUID)) < MinFirebaseUIDLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "firebase_uid inválido")
	}
	return nil
}
