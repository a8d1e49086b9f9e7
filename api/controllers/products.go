package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/felipe25/tienda-backend/api/responses"
	"github.com/felipe25/tienda-backend/api/validators"
	product "github.com/felipe25/tienda-backend/internal/products"
	"github.com/felipe25/tienda-backend/pkg/enums"
	pkgerrors "github.com/felipe25/tienda-backend/pkg/errors"
	"github.com/felipe25/tienda-backend/pkg/logger"
	"github.com/felipe25/tienda-backend/pkg/pagination"
)

type createProductoRequest struct {
	Nombre      string          `json:"nombre" validate:"required"`
	Descripcion string          `json:"descripcion" validate:"required"`
	Precio      decimal.Decimal `json:"precio" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Categoria   string          `json:"categoria" validate:"required"`
	ImagenURL   *string         `json:"imagenURL,omitempty"`
	Color       *string         `json:"color,omitempty"`
	Talla       *string         `json:"talla,omitempty"`
	Tallas      []string        `json:"tallas,omitempty"`
	Colores     []string        `json:"colores,omitempty"`
	Tipo        *string         `json:"tipo,omitempty"`
	Sexo        *string         `json:"sexo,omitempty"`
	Marca       *int            `json:"marca,omitempty"`
}

type updateProductoRequest struct {
	Nombre      *string          `json:"nombre,omitempty"`
	Descripcion *string          `json:"descripcion,omitempty"`
	Precio      *decimal.Decimal `json:"precio,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Categoria   *string          `json:"categoria,omitempty"`
	ImagenURL   *string          `json:"imagenURL,omitempty"`
	Color       *string          `json:"color,omitempty"`
	Talla       *string          `json:"talla,omitempty"`
	Tallas      []string         `json:"tallas,omitempty"`
	Colores     []string         `json:"colores,omitempty"`
	Tipo        *string          `json:"tipo,omitempty"`
	Sexo        *string          `json:"sexo,omitempty"`
	Status      *string          `json:"status,omitempty"`
	Marca       *int             `json:"marca,omitempty"`
}

type productoResponse struct {
	Success  bool                 `json:"success"`
	Producto *product.ProductoDTO `json:"producto"`
}

type productosResponse struct {
	Success    bool                  `json:"success"`
	Productos  []product.ProductoDTO `json:"productos"`
	NextCursor string                `json:"next_cursor,omitempty"`
}

// ListProductos serves the catalog with optional filters and pagination.
// The admin mount passes includeInactive to widen the listing beyond
// activo rows.
func ListProductos(svc product.Service, includeInactive bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := product.ListFilters{
			Categoria:       strings.TrimSpace(r.URL.Query().Get("categoria")),
			Tipo:            strings.TrimSpace(r.URL.Query().Get("tipo")),
			Sexo:            strings.TrimSpace(r.URL.Query().Get("sexo")),
			Query:           strings.TrimSpace(r.URL.Query().Get("q")),
			IncludeInactive: includeInactive,
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("marca")); raw != "" {
			marca, convErr := strconv.Atoi(raw)
			if convErr != nil || marca <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "marca debe ser un entero positivo"))
				return
			}
			filters.Marca = &marca
		}

		result, err := svc.List(r.Context(), filters, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, productosResponse{
			Success:    true,
			Productos:  result.Productos,
			NextCursor: result.NextCursor,
		})
	}
}

// GetProducto serves a single catalog row.
func GetProducto(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		producto, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, productoResponse{Success: true, Producto: producto})
	}
}

// CreateProducto registers a new listing (admin).
func CreateProducto(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		var payload createProductoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		producto, err := svc.Create(r.Context(), product.CreateProductoDTO{
			Nombre:      payload.Nombre,
			Descripcion: payload.Descripcion,
			Precio:      payload.Precio,
			Stock:       payload.Stock,
			Categoria:   payload.Categoria,
			ImagenURL:   payload.ImagenURL,
			Color:       payload.Color,
			Talla:       payload.Talla,
			Tallas:      payload.Tallas,
			Colores:     payload.Colores,
			Tipo:        payload.Tipo,
			Sexo:        payload.Sexo,
			Marca:       payload.Marca,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusCreated, productoResponse{Success: true, Producto: producto})
	}
}

// UpdateProducto applies a partial update to a listing (admin).
func UpdateProducto(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		update := product.UpdateProductoDTO{
			Nombre:      payload.Nombre,
			Descripcion: payload.Descripcion,
			Precio:      payload.Precio,
			Stock:       payload.Stock,
			Categoria:   payload.Categoria,
			ImagenURL:   payload.ImagenURL,
			Color:       payload.Color,
			Talla:       payload.Talla,
			Tallas:      payload.Tallas,
			Colores:     payload.Colores,
			Tipo:        payload.Tipo,
			Sexo:        payload.Sexo,
			Marca:       payload.Marca,
		}
		if payload.Status != nil {
			status, parseErr := enums.ParseProductStatus(*payload.Status)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "status inválido"))
				return
			}
			update.Status = &status
		}

		producto, err := svc.Update(r.Context(), id, update)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, productoResponse{Success: true, Producto: producto})
	}
}

// DeleteProducto retires a listing (admin).
func DeleteProducto(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
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

		responses.WriteMessage(w, http.StatusOK, "producto eliminado")
	}
}
