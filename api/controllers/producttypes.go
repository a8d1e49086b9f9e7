package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/felipe25/tienda-backend/api/responses"
	"github.com/felipe25/tienda-backend/api/validators"
	"github.com/felipe25/tienda-backend/internal/producttypes"
	pkgerrors "github.com/felipe25/tienda-backend/pkg/errors"
	"github.com/felipe25/tienda-backend/pkg/logger"
)

type createTipoRequest struct {
	Categoria int    `json:"categoria" validate:"required,gt=0"`
	Tipo      string `json:"tipo" validate:"required"`
}

type renameTipoRequest struct {
	Tipo string `json:"tipo" validate:"required"`
}

type tipoResponse struct {
	Success bool                `json:"success"`
	Tipo    *producttypes.TipoDTO `json:"tipo"`
}

type tiposResponse struct {
	Success bool                 `json:"success"`
	Tipos   []producttypes.TipoDTO `json:"tipos"`
}

// ListTipos serves product subtypes, optionally filtered by categoria.
func ListTipos(svc producttypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "producttypes service unavailable"))
			return
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("categoria")); raw != "" {
			categoriaID, err := strconv.Atoi(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "categoria debe ser numérica"))
				return
			}
			rows, err := svc.ListByCategoria(r.Context(), categoriaID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteJSON(w, http.StatusOK, tiposResponse{Success: true, Tipos: rows})
			return
		}

		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, tiposResponse{Success: true, Tipos: rows})
	}
}

// CreateTipo registers a subtype for a categoria (admin).
func CreateTipo(svc producttypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "producttypes service unavailable"))
			return
		}

		var payload createTipoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tipo, err := svc.Create(r.Context(), payload.Categoria, payload.Tipo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusCreated, tipoResponse{Success: true, Tipo: tipo})
	}
}

// RenameTipo updates a subtype's name (admin).
func RenameTipo(svc producttypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "producttypes service unavailable"))
			return
		}

		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload renameTipoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tipo, err := svc.Rename(r.Context(), id, payload.Tipo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, tipoResponse{Success: true, Tipo: tipo})
	}
}

// DeleteTipo removes a subtype (admin).
func DeleteTipo(svc producttypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "producttypes service unavailable"))
			return
		}

		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMessage(w, http.StatusOK, "tipo eliminado")
	}
}
