package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/felipe25/tienda-backend/api/responses"
	"github.com/felipe25/tienda-backend/api/validators"
	checkoutsvc "github.com/felipe25/tienda-backend/internal/checkout"
	pkgerrors "github.com/felipe25/tienda-backend/pkg/errors"
	"github.com/felipe25/tienda-backend/pkg/logger"
)

// maxDireccionLen caps the shipping address stored on each carrito row.
const maxDireccionLen = 255

type checkoutRequest struct {
	FirebaseUID string              `json:"firebase_uid" validate:"required"`
	Items       []checkoutItem      `json:"items" validate:"required,min=1,dive"`
	Direccion   string              `json:"direccion" validate:"required"`
	MetodoPago  string              `json:"metodoPago" validate:"required"`
	Subtotal    decimal.Decimal     `json:"subtotal"`
	ITBMS       decimal.Decimal     `json:"itbms"`
	Total       decimal.Decimal     `json:"total"`
}

type checkoutItem struct {
	ID       int             `json:"id" validate:"required,gt=0"`
	Cantidad int             `json:"cantidad" validate:"required,gt=0"`
	Precio   decimal.Decimal `json:"precio"`
}

type checkoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	checkoutsvc.OrderResult
}

// Checkout places an order from the submitted cart snapshot.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]checkoutsvc.OrderItem, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, checkoutsvc.OrderItem{
				ID:       item.ID,
				Cantidad: item.Cantidad,
				Precio:   item.Precio,
			})
		}

		result, err := svc.Execute(r.Context(), checkoutsvc.OrderInput{
			FirebaseUID: payload.FirebaseUID,
			Items:       items,
			Direccion:   validators.SanitizeString(payload.Direccion, maxDireccionLen),
			MetodoPago:  payload.MetodoPago,
			Subtotal:    payload.Subtotal,
			ITBMS:       payload.ITBMS,
			Total:       payload.Total,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithPedidoID(ctx, result.PedidoID)
			logg.Info(ctx, "checkout.placed")
		}

		responses.WriteJSON(w, http.StatusCreated, checkoutResponse{
			Success:     true,
			Message:     "compra realizada con éxito",
			OrderResult: *result,
		})
	}
}
