package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/felipe25/tienda-backend/internal/users"
	"github.com/felipe25/tienda-backend/pkg/db/models"
	pkgerrors "github.com/felipe25/tienda-backend/pkg/errors"
)

// Service exposes purchase-history reads.
type Service interface {
	Historial(ctx context.Context, firebaseUID string) (*HistorialDTO, error)
	Detalle(ctx context.Context, firebaseUID, pedidoID string) (*CompraDTO, error)
}

type usuarioResolver interface {
	FindByFirebaseUID(ctx context.Context, firebaseUID string) (*models.Usuario, error)
}

type service struct {
	repo     Repository
	usuarios usuarioResolver
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, usuarios usuarioResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if usuarios == nil {
		return nil, fmt.Errorf("usuario resolver required")
	}
	return &service{repo: repo, usuarios: usuarios}, nil
}

func (s *service) Historial(ctx context.Context, firebaseUID string) (*HistorialDTO, error) {
	firebaseUID = strings.TrimSpace(firebaseUID)
	if firebaseUID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "firebase_uid es requerido y no puede estar vacío")
	}
	if len(firebaseUID) < users.MinFirebaseUIDLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "firebase_uid tiene formato inválido")
	}

	usuario, err := s.usuarios.FindByFirebaseUID(ctx, firebaseUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "usuario no encontrado con el firebase_uid proporcionado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving usuario")
	}

	rows, err := s.repo.ListByUsuario(ctx, usuario.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing compras")
	}
	return buildHistorial(rows), nil
}

// Detalle returns one pedido with its line items. A pedido that belongs to
// another usuario reads as not found.
func (s *service) Detalle(ctx context.Context, firebaseUID, pedidoID string) (*CompraDTO, error) {
	firebaseUID = strings.TrimSpace(firebaseUID)
	if firebaseUID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "firebase_uid es requerido y no puede estar vacío")
	}
	if len(firebaseUID) < users.MinFirebaseUIDLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "firebase_uid tiene formato inválido")
	}
	pedidoID = strings.TrimSpace(pedidoID)
	if pedidoID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pedido_id es requerido y no puede estar vacío")
	}

	usuario, err := s.usuarios.FindByFirebaseUID(ctx, firebaseUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "usuario no encontrado con el firebase_uid proporcionado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving usuario")
	}

	rows, err := s.repo.ListByPedidoID(ctx, pedidoID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading pedido")
	}
	if len(rows) == 0 || rows[0].UsuarioID != usuario.ID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pedido no encontrado")
	}

	historial := buildHistorial(rows)
	return &historial.Compras[0], nil
}

// buildHistorial groups carrito rows into pedidos. Rows arrive newest first
// and every row of a pedido shares the same pedido_id.
func buildHistorial(rows []models.Carrito) *HistorialDTO {
	compras := make([]CompraDTO, 0)
	index := make(map[string]int)

	for i := range rows {
		row := &rows[i]
		pos, seen := index[row.PedidoID]
		if !seen {
			compras = append(compras, CompraDTO{
				PedidoID:    row.PedidoID,
				Fecha:       row.FechaCreacion,
				Direccion:   row.Direccion,
				MetodoPago:  capitalize(row.MetodoPago.String()),
				Status:      row.Status.String(),
				TotalCompra: decimal.Zero,
			})
			pos = len(compras) - 1
			index[row.PedidoID] = pos
		}

		item := CompraItemDTO{
			ID:             row.ID,
			ProductoID:     row.ProductoID,
			CantiProductos: row.CantiProductos,
			Subtotal:       row.Subtotal,
			ITBMS:          row.ITBMS,
			Total:          row.Total,
			Status:         row.Status.String(),
			FechaCompra:    row.FechaCreacion,
		}
		if row.Producto != nil {
			item.Producto = ProductoResumen{
				ID:        row.Producto.ID,
				Nombre:    row.Producto.Nombre,
				Precio:    row.Producto.Precio,
				ImagenURL: row.Producto.ImagenURL,
				Categoria: row.Producto.Categoria,
				Marca:     row.Producto.Marca,
			}
		}

		compras[pos].Items = append(compras[pos].Items, item)
		compras[pos].TotalCompra = compras[pos].TotalCompra.Add(row.Total)
		compras[pos].TotalProductos += row.CantiProductos
	}

	stats := EstadisticasDTO{
		TotalCompras:   len(compras),
		TotalGastado:   decimal.Zero,
		CompraPromedio: decimal.Zero,
	}
	for i := range compras {
		stats.TotalGastado = stats.TotalGastado.Add(compras[i].TotalCompra)
		stats.TotalProductosComprados += compras[i].TotalProductos
	}
	stats.TotalGastado = stats.TotalGastado.Round(2)
	if stats.TotalCompras > 0 {
		stats.CompraPromedio = stats.TotalGastado.
			Div(decimal.NewFromInt(int64(stats.TotalCompras))).
			Round(2)
	}

	return &HistorialDTO{Compras: compras, Estadisticas: stats}
}

func capitalize(value string) string {
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
