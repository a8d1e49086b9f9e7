package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/felipe25/tienda-backend/api/responses"
	"github.com/felipe25/tienda-backend/api/validators"
	"github.com/felipe25/tienda-backend/internal/suppliers"
	pkgerrors "github.com/felipe25/tienda-backend/pkg/errors"
	"github.com/felipe25/tienda-backend/pkg/logger"
)

type createProveedorRequest struct {
	Nombre    string  `json:"nombre" validate:"required"`
	RUC       string  `json:"ruc" validate:"required"`
	Logo      *string `json:"logo,omitempty"`
	Categoria int     `json:"categoria" validate:"required,gt=0"`
}

type updateProveedorRequest struct {
	Nombre    *string `json:"nombre,omitempty"`
	RUC       *string `json:"ruc,omitempty"`
	Logo      *string `json:"logo,omitempty"`
	Categoria *int    `json:"categoria,omitempty"`
}

type createCategoriaRequest struct {
	Nombre string `json:"nombre" validate:"required"`
}

type proveedorResponse struct {
	Success   bool                     `json:"success"`
	Proveedor *suppliers.ProveedorDTO  `json:"proveedor"`
}

type proveedoresResponse struct {
	Success     bool                     `json:"success"`
	Proveedores []suppliers.ProveedorDTO `json:"proveedores"`
}

type categoriaResponse struct {
	Success   bool                     `json:"success"`
	Categoria *suppliers.CategoriaDTO  `json:"categoria"`
}

type categoriasResponse struct {
	Success    bool                    `json:"success"`
	Categorias []suppliers.CategoriaDTO `json:"categorias"`
}

// ListProveedores serves all suppliers, optionally filtered by categoria.
func ListProveedores(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "suppliers service unavailable"))
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
			responses.WriteJSON(w, http.StatusOK, proveedoresResponse{Success: true, Proveedores: rows})
			return
		}

		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, proveedoresResponse{Success: true, Proveedores: rows})
	}
}

// CreateProveedor registers a supplier (admin).
func CreateProveedor(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "suppliers service unavailable"))
			return
		}

		var payload createProveedorRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		proveedor, err := svc.Create(r.Context(), suppliers.CreateProveedorDTO{
			Nombre:    payload.Nombre,
			RUC:       payload.RUC,
			Logo:      payload.Logo,
			Categoria: payload.Categoria,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusCreated, proveedorResponse{Success: true, Proveedor: proveedor})
	}
}

// UpdateProveedor applies a partial supplier update (admin).
func UpdateProveedor(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "suppliers service unavailable"))
			return
		}

		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProveedorRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		proveedor, err := svc.Update(r.Context(), id, suppliers.UpdateProveedorDTO{
			Nombre:    payload.Nombre,
			RUC:       payload.RUC,
			Logo:      payload.Logo,
			Categoria: payload.Categoria,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, proveedorResponse{Success: true, Proveedor: proveedor})
	}
}

// DeleteProveedor removes a supplier (admin).
func DeleteProveedor(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "suppliers service unavailable"))
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

		responses.WriteMessage(w, http.StatusOK, "proveedor eliminado")
	}
}

// ListCategorias serves the categoria lookup table.
func ListCategorias(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "suppliers service unavailable"))
			return
		}

		rows, err := svc.ListCategorias(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, categoriasResponse{Success: true, Categorias: rows})
	}
}

// CreateCategoria registers a categoria (admin).
func CreateCategoria(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "suppliers service unavailable"))
			return
		}

		var payload createCategoriaRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categoria, err := svc.CreateCategoria(r.Context(), payload.Nombre)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusCreated, categoriaResponse{Success: true, Categoria: categoria})
	}
}
