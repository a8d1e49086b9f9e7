package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/felipe25/tienda-backend/pkg/enums"
	pkgerrors "github.com/felipe25/tienda-backend/pkg/errors"
	"github.com/felipe25/tienda-backend/pkg/pagination"
)

// catalogCache is the slice of the redis client the catalog read path needs.
type catalogCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(parts ...string) string
}

// Service exposes catalog operations.
type Service interface {
	Create(ctx context.Context, input CreateProductoDTO) (*ProductoDTO, error)
	GetByID(ctx context.Context, id int) (*ProductoDTO, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*ListResult, error)
	Update(ctx context.Context, id int, input UpdateProductoDTO) (*ProductoDTO, error)
	Delete(ctx context.Context, id int) error
}

// ListResult carries one catalog page plus the cursor for the next one.
type ListResult struct {
	Productos  []ProductoDTO `json:"productos"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

type service struct {
	repo     Repository
	cache    catalogCache
	cacheTTL time.Duration
}

// NewService builds a catalog service. The cache is optional; a nil cache
// disables catalog caching without changing behavior.
func NewService(repo Repository, cache catalogCache, cacheTTL time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo, cache: cache, cacheTTL: cacheTTL}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductoDTO) (*ProductoDTO, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}
	producto, err := s.repo.Create(ctx, input.ToModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating producto")
	}
	return FromModel(producto), nil
}

func (s *service) GetByID(ctx context.Context, id int) (*ProductoDTO, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "id de producto inválido")
	}
	if s.cache != nil {
		key := s.productKey(id)
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var dto ProductoDTO
			if unmarshalErr := json.Unmarshal([]byte(raw), &dto); unmarshalErr == nil {
				return &dto, nil
			}
		}
	}

	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "producto no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading producto")
	}

	dto := FromModel(producto)
	s.cacheSet(ctx, s.productKey(id), dto)
	return dto, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*ListResult, error) {
	cacheable := s.cache != nil && params.Cursor == "" && !filters.IncludeInactive
	var key string
	if cacheable {
		key = s.listKey(filters, params)
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var result ListResult
			if unmarshalErr := json.Unmarshal([]byte(raw), &result); unmarshalErr == nil {
				return &result, nil
			}
		}
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, filters, params)
	if err != nil {
		if strings.Contains(err.Error(), "cursor") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "cursor inválido")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing productos")
	}

	result := &ListResult{}
	if len(rows) > limit {
		last := rows[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
		rows = rows[:limit]
	}
	result.Productos = FromModels(rows)

	if cacheable {
		s.cacheSet(ctx, key, result)
	}
	return result, nil
}

func (s *service) Update(ctx context.Context, id int, input UpdateProductoDTO) (*ProductoDTO, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "id de producto inválido")
	}
	updates, err := buildUpdates(input)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nada que actualizar")
	}

	affected, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating producto")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "producto no encontrado")
	}

	if s.cache != nil {
		_ = s.cache.Del(ctx, s.productKey(id))
	}
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading producto")
	}
	return FromModel(producto), nil
}

// Delete retires a product instead of removing the row; carrito and
// detalles_compra keep their references.
func (s *service) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "id de producto inválido")
	}
	affected, err := s.repo.Update(ctx, id, map[string]any{"status": enums.ProductStatusInactivo})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting producto")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "producto no encontrado")
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, s.productKey(id))
	}
	return nil
}

func (s *service) productKey(id int) string {
	return s.cache.CacheKey("producto", strconv.Itoa(id))
}

func (s *service) listKey(filters ListFilters, params pagination.Params) string {
	marca := ""
	if filters.Marca != nil {
		marca = strconv.Itoa(*filters.Marca)
	}
	return s.cache.CacheKey(
		"productos",
		strings.ToLower(filters.Categoria),
		strings.ToLower(filters.Tipo),
		strings.ToLower(filters.Sexo),
		marca,
		strings.ToLower(strings.TrimSpace(filters.Query)),
		strconv.Itoa(pagination.NormalizeLimit(params.Limit)),
	)
}

func (s *service) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, key, string(payload), s.cacheTTL)
}

func validateCreate(input CreateProductoDTO) error {
	if strings.TrimSpace(input.Nombre) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "nombre es requerido")
	}
	if strings.TrimSpace(input.Descripcion) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "descripcion es requerida")
	}
	if strings.TrimSpace(input.Categoria) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "categoria es requerida")
	}
	if !input.Precio.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "precio debe ser mayor que cero")
	}
	if input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock no puede ser negativo")
	}
	return nil
}

func buildUpdates(input UpdateProductoDTO) (map[string]any, error) {
	updates := map[string]any{}
	if input.Nombre != nil {
		if strings.TrimSpace(*input.Nombre) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "nombre no puede estar vacío")
		}
		updates["nombre"] = strings.TrimSpace(*input.Nombre)
	}
	if input.Descripcion != nil {
		updates["descripcion"] = *input.Descripcion
	}
	if input.Precio != nil {
		if !input.Precio.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "precio debe ser mayor que cero")
		}
		updates["precio"] = *input.Precio
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock no puede ser negativo")
		}
		updates["stock"] = *input.Stock
	}
	if input.Categoria != nil {
		updates["categoria"] = *input.Categoria
	}
	if input.ImagenURL != nil {
		updates["imagenURL"] = *input.ImagenURL
	}
	if input.Color != nil {
		updates["color"] = *input.Color
	}
	if input.Talla != nil {
		updates["talla"] = *input.Talla
	}
	if input.Tallas != nil {
		updates["tallas"] = pq.StringArray(input.Tallas)
	}
	if input.Colores != nil {
		updates["colores"] = pq.StringArray(input.Colores)
	}
	if input.Tipo != nil {
		updates["tipo"] = *input.Tipo
	}
	if input.Sexo != nil {
		updates["sexo"] = *input.Sexo
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "status inválido")
		}
		updates["status"] = *input.Status
	}
	if input.Marca != nil {
		updates["marca"] = *input.Marca
	}
	return updates, nil
}
