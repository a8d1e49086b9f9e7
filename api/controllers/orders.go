package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/felipe25/tienda-backend/api/responses"
	"github.com/felipe25/tienda-backend/internal/orders"
	pkgerrors "github.com/felipe25/tienda-backend/pkg/errors"
	"github.com/felipe25/tienda-backend/pkg/logger"
)

type historialResponse struct {
	Success bool `json:"success"`
	*orders.HistorialDTO
}

type compraResponse struct {
	Success bool              `json:"success"`
	Compra  *orders.CompraDTO `json:"compra"`
}

// OrderHistory returns the grouped purchase history for a usuario.
func OrderHistory(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		firebaseUID := r.URL.Query().Get("firebase_uid")
		historial, err := svc.Historial(r.Context(), firebaseUID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, historialResponse{Success: true, HistorialDTO: historial})
	}
}

// OrderDetail returns a single pedido with its line items.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		firebaseUID := r.URL.Query().Get("firebase_uid")
		pedidoID := chi.URLParam(r, "pedidoID")
		compra, err := svc.Detalle(r.Context(), firebaseUID, pedidoID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, compraResponse{Success: true, Compra: compra})
	}
}
