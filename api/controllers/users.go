package controllers

import (
	"net/http"

	"github.com/felipe25/tienda-backend/api/responses"
	"github.com/felipe25/tienda-backend/api/validators"
	"github.com/felipe25/tienda-backend/internal/users"
	pkgerrors "github.com/felipe25/tienda-backend/pkg/errors"
	"github.com/felipe25/tienda-backend/pkg/logger"
)

// maxNombreLen caps the profile name fields.
const maxNombreLen = 100

type registerUserRequest struct {
	FirebaseUID string  `json:"firebase_uid" validate:"required,min=10"`
	Email       string  `json:"email" validate:"required,email"`
	Nombre      string  `json:"nombre" validate:"required"`
	Apellido    string  `json:"apellido" validate:"required"`
	Usuario     *string `json:"usuario,omitempty"`
	Edad        *int    `json:"edad,omitempty" validate:"omitempty,gt=0"`
	Telefono    *string `json:"telefono,omitempty"`
	Direccion   *string `json:"direccion,omitempty"`
}

type updatePerfilRequest struct {
	Nombre    string  `json:"nombre" validate:"required"`
	Apellido  string  `json:"apellido" validate:"required"`
	Usuario   *string `json:"usuario,omitempty"`
	Edad      *int    `json:"edad,omitempty" validate:"omitempty,gt=0"`
	Telefono  *string `json:"telefono,omitempty"`
	Direccion *string `json:"direccion,omitempty"`
}

func sanitizeOptional(s *string, maxLen int) *string {
	if s == nil {
		return nil
	}
	clean := validators.SanitizeString(*s, maxLen)
	return &clean
}

type perfilResponse struct {
	Success bool            `json:"success"`
	Usuario *users.PerfilDTO `json:"usuario"`
}

// RegisterUser persists the profile row after Firebase sign-up completes.
func RegisterUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		var payload registerUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		perfil, err := svc.Register(r.Context(), users.RegisterDTO{
			FirebaseUID: payload.FirebaseUID,
			Email:       payload.Email,
			Nombre:      validators.SanitizeString(payload.Nombre, maxNombreLen),
			Apellido:    validators.SanitizeString(payload.Apellido, maxNombreLen),
			Usuario:     payload.Usuario,
			Edad:        payload.Edad,
			Telefono:    payload.Telefono,
			Direccion:   sanitizeOptional(payload.Direccion, maxDireccionLen),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusCreated, perfilResponse{Success: true, Usuario: perfil})
	}
}

// GetPerfil returns the profile for the firebase_uid query parameter.
func GetPerfil(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		perfil, err := svc.GetPerfil(r.Context(), r.URL.Query().Get("firebase_uid"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, perfilResponse{Success: true, Usuario: perfil})
	}
}

// UpdatePerfil applies edits to the profile row.
func UpdatePerfil(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		var payload updatePerfilRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		perfil, err := svc.UpdatePerfil(r.Context(), r.URL.Query().Get("firebase_uid"), users.UpdatePerfilDTO{
			Nombre:    validators.SanitizeString(payload.Nombre, maxNombreLen),
			Apellido:  validators.SanitizeString(payload.Apellido, maxNombreLen),
			Usuario:   payload.Usuario,
			Edad:      payload.Edad,
			Telefono:  payload.Telefono,
			Direccion: sanitizeOptional(payload.Direccion, maxDireccionLen),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, perfilResponse{Success: true, Usuario: perfil})
	}
}
