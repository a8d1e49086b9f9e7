package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/felipe25/tienda-backend/internal/checkout/reservation"
	"github.com/felipe25/tienda-backend/internal/orders"
	"github.com/felipe25/tienda-backend/internal/users"
	"github.com/felipe25/tienda-backend/pkg/db/models"
	"github.com/felipe25/tienda-backend/pkg/enums"
	pkgerrors "github.com/felipe25/tienda-backend/pkg/errors"
	"github.com/felipe25/tienda-backend/pkg/metrics"
	"github.com/felipe25/tienda-backend/pkg/money"
)

// totalsTolerance bounds the allowed drift between the client-computed
// subtotal and the sum of server-recomputed line subtotals.
var totalsTolerance = decimal.NewFromFloat(0.01)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type usuarioResolver interface {
	FindByFirebaseUID(ctx context.Context, firebaseUID string) (*models.Usuario, error)
}

// Service places orders.
type Service interface {
	Execute(ctx context.Context, input OrderInput) (*OrderResult, error)
}

type service struct {
	orders   orders.Repository
	usuarios usuarioResolver
	tx       txRunner
	metrics  *metrics.CheckoutMetrics
}

// NewService builds a checkout service with the required dependencies.
// Metrics may be nil.
func NewService(ordersRepo orders.Repository, usuarios usuarioResolver, tx txRunner, checkoutMetrics *metrics.CheckoutMetrics) (Service, error) {
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if usuarios == nil {
		return nil, fmt.Errorf("usuario resolver required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		orders:   ordersRepo,
		usuarios: usuarios,
		tx:       tx,
		metrics:  checkoutMetrics,
	}, nil
}

func (s *service) Execute(ctx context.Context, input OrderInput) (*OrderResult, error) {
	started := time.Now()

	metodoPago, err := validateInput(input)
	if err != nil {
		s.metrics.IncFailure("validation")
		return nil, err
	}

	usuario, err := s.usuarios.FindByFirebaseUID(ctx, strings.TrimSpace(input.FirebaseUID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.IncFailure("unknown_usuario")
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "usuario no encontrado")
		}
		s.metrics.IncFailure("internal")
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving usuario")
	}

	result := &OrderResult{
		PedidoID:   uuid.NewString(),
		UsuarioID:  usuario.ID,
		Direccion:  strings.TrimSpace(input.Direccion),
		MetodoPago: metodoPago.String(),
	}

	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		requests := make([]reservation.StockRequest, 0, len(input.Items))
		for _, item := range input.Items {
			requests = append(requests, reservation.StockRequest{
				ProductoID: item.ID,
				Cantidad:   item.Cantidad,
			})
		}

		locked, err := reservation.ReserveStock(ctx, tx, requests)
		if err != nil {
			return err
		}

		type line struct {
			item     OrderItem
			subtotal decimal.Decimal
			itbms    decimal.Decimal
			total    decimal.Decimal
		}

		lines := make([]line, 0, len(input.Items))
		subtotal := decimal.Zero
		for _, item := range input.Items {
			precio := locked[item.ID].Precio
			lineSubtotal := money.Line(precio, item.Cantidad)
			lines = append(lines, line{
				item:     item,
				subtotal: lineSubtotal,
				itbms:    money.ITBMS(lineSubtotal),
				total:    money.Total(lineSubtotal),
			})
			subtotal = subtotal.Add(lineSubtotal)
		}

		// the client total is advisory; a stale or tampered cart is
		// rejected before any carrito row exists
		if subtotal.Sub(input.Subtotal).Abs().GreaterThan(totalsTolerance) {
			return pkgerrors.New(pkgerrors.CodeValidation,
				"los totales enviados no coinciden con los precios actuales")
		}

		repo := s.orders.WithTx(tx)
		for _, l := range lines {
			carrito, err := repo.CreateCarrito(ctx, &models.Carrito{
				PedidoID:       result.PedidoID,
				ProductoID:     l.item.ID,
				UsuarioID:      usuario.ID,
				CantiProductos: l.item.Cantidad,
				Subtotal:       l.subtotal,
				ITBMS:          l.itbms,
				Total:          l.total,
				Direccion:      result.Direccion,
				MetodoPago:     metodoPago,
				Status:         enums.OrderStatusPendiente,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting carrito")
			}

			if _, err := repo.CreateDetalleCompra(ctx, &models.DetalleCompra{
				CarritoID:  carrito.ID,
				ProductoID: l.item.ID,
				UsuarioID:  usuario.ID,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting detalle de compra")
			}

			result.CarritosIDs = append(result.CarritosIDs, carrito.ID)
			result.TotalProductos += l.item.Cantidad
			result.Subtotal = result.Subtotal.Add(l.subtotal)
			result.ITBMS = result.ITBMS.Add(l.itbms)
			result.Total = result.Total.Add(l.total)
		}
		return nil
	})
	if txErr != nil {
		s.observeFailure(txErr)
		return nil, txErr
	}

	total, _ := result.Total.Float64()
	s.metrics.ObserveOrder(result.TotalProductos, total, time.Since(started))
	return result, nil
}

func (s *service) observeFailure(err error) {
	appErr := pkgerrors.As(err)
	if appErr == nil {
		s.metrics.IncFailure("internal")
		return
	}
	switch appErr.Code() {
	case pkgerrors.CodeCapacity:
		s.metrics.IncStockConflict()
	case pkgerrors.CodeValidation:
		s.metrics.IncFailure("validation")
	case pkgerrors.CodeNotFound:
		s.metrics.IncFailure("unknown_producto")
	default:
		s.metrics.IncFailure("internal")
	}
}

func validateInput(input OrderInput) (enums.MetodoPago, error) {
	if len(strings.TrimSpace(input.FirebaseUID)) < users.MinFirebaseUIDLength {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "firebase_uid inválido")
	}
	if strings.TrimSpace(input.Direccion) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "la dirección no puede estar vacía")
	}
	metodoPago, err := enums.ParseMetodoPago(input.MetodoPago)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "método de pago no válido")
	}
	if len(input.Items) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "no se encontraron productos en el carrito")
	}
	for _, item := range input.Items {
		if item.ID <= 0 || item.Cantidad <= 0 {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "datos incompletos para el producto")
		}
	}
	if input.Subtotal.IsNegative() || input.ITBMS.IsNegative() || input.Total.IsNegative() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "totales inválidos")
	}
	return metodoPago, nil
}
