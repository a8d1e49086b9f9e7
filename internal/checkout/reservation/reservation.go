package reservation

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/felipe25/tienda-backend/pkg/db/models"
	pkgerrors "github.com/felipe25/tienda-backend/pkg/errors"
)

// StockRequest asks for cantidad units of one product.
type StockRequest struct {
	ProductoID int
	Cantidad   int
}

// ReserveStock checks and decrements stock for every request inside the
// supplied transaction. All rows are verified before any is written, so a
// missing product or an insufficient line aborts the whole order. Requests
// for the same product are summed before the check. Returns the locked
// product rows keyed by id, with precio as read under the lock.
func ReserveStock(ctx context.Context, tx *gorm.DB, requests []StockRequest) (map[int]*models.Producto, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction required")
	}
	if len(requests) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no se encontraron productos en el carrito")
	}

	totals := make(map[int]int, len(requests))
	for _, req := range requests {
		if req.ProductoID <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "id de producto inválido")
		}
		if req.Cantidad <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("cantidad inválida para el producto con ID %d", req.ProductoID))
		}
		totals[req.ProductoID] += req.Cantidad
	}

	// rows are locked in id order so concurrent orders cannot deadlock
	ids := make([]int, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	locked := make(map[int]*models.Producto, len(ids))
	for _, id := range ids {
		producto, err := lockProducto(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if producto.Stock < totals[id] {
			return nil, pkgerrors.New(pkgerrors.CodeCapacity,
				fmt.Sprintf("stock insuficiente para el producto con ID %d", id))
		}
		locked[id] = producto
	}

	for _, id := range ids {
		cantidad := totals[id]
		result := tx.WithContext(ctx).
			Model(&models.Producto{}).
			Where("id = ? AND stock >= ?", id, cantidad).
			Updates(map[string]any{
				"stock":     gorm.Expr("stock - ?", cantidad),
				"comprados": gorm.Expr("comprados + ?", cantidad),
			})
		if result.Error != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, result.Error, "updating stock")
		}
		if result.RowsAffected == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeCapacity,
				fmt.Sprintf("stock insuficiente para el producto con ID %d", id))
		}
		locked[id].Stock -= cantidad
		locked[id].Comprados += cantidad
	}

	return locked, nil
}

func lockProducto(ctx context.Context, tx *gorm.DB, id int) (*models.Producto, error) {
	query := tx.WithContext(ctx)
	// sqlite has no row locks; its single-writer model covers the tests
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var producto models.Producto
	err := query.First(&producto, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("producto con ID %d no encontrado", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading producto")
	}
	return &producto, nil
}
