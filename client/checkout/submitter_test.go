package checkout

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/felipe25/tienda-backend/client/cart"
	pkgerrors "github.com/felipe25/tienda-backend/pkg/errors"
	"github.com/felipe25/tienda-backend/pkg/money"
)

func newCartWith(t *testing.T, items ...cart.LineItem) *cart.Store {
	t.Helper()
	store, err := cart.NewStore(nil, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	for _, li := range items {
		for n := 0; n < li.Cantidad; n++ {
			base := li
			base.Cantidad = 0
			if err := store.AddItem(base); err != nil {
				t.Fatalf("AddItem %d: %v", li.ID, err)
			}
		}
	}
	return store
}

func lineItem(id int, precio string, cantidad, stock int) cart.LineItem {
	return cart.LineItem{
		ID:         id,
		Nombre:     "producto",
		Precio:     decimal.RequireFromString(precio),
		Cantidad:   cantidad,
		KnownStock: stock,
	}
}

func TestSubmitOrderClearsCartOnSuccess(t *testing.T) {
	store := newCartWith(t,
		lineItem(1, "10.00", 2, 5),
		lineItem(2, "50.00", 1, 1),
	)

	var got orderPayload
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"success":         true,
			"message":         "compra realizada con éxito",
			"pedido_id":       "ped-123",
			"carritos_ids":    []int{10, 11},
			"usuario_id":      7,
			"total_productos": 3,
			"subtotal":        "70.00",
			"itbms":           "4.90",
			"total":           "74.90",
			"direccion":       "Calle 50",
			"metodo_pago":     "efectivo",
		})
	}))
	defer server.Close()

	submitter, err := NewSubmitter(server.URL, store, server.Client(), nil)
	if err != nil {
		t.Fatalf("NewSubmitter: %v", err)
	}

	confirmation, err := submitter.SubmitOrder(context.Background(), "firebase-uid-0001", "Calle 50", "efectivo")
	if err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one request, got %d", calls)
	}
	if confirmation.PedidoID != "ped-123" || confirmation.TotalProductos != 3 {
		t.Fatalf("unexpected confirmation: %+v", confirmation)
	}
	if len(confirmation.CarritosIDs) != 2 {
		t.Fatalf("expected two carrito ids, got %v", confirmation.CarritosIDs)
	}

	if !money.Equal(got.Subtotal, decimal.RequireFromString("70.00")) {
		t.Fatalf("expected subtotal 70.00, got %s", got.Subtotal)
	}
	if !money.Equal(got.ITBMS, decimal.RequireFromString("4.90")) {
		t.Fatalf("expected itbms 4.90, got %s", got.ITBMS)
	}
	if !money.Equal(got.Total, decimal.RequireFromString("74.90")) {
		t.Fatalf("expected total 74.90, got %s", got.Total)
	}
	if len(got.Items) != 2 || got.Items[0].Cantidad != 2 || got.Items[1].Cantidad != 1 {
		t.Fatalf("unexpected items: %+v", got.Items)
	}

	state := store.Snapshot()
	if len(state.Items) != 0 || state.ItemCount != 0 {
		t.Fatalf("cart must be empty after success, got %+v", state)
	}

	// a second submit of the now-empty cart never reaches the server
	if _, err := submitter.SubmitOrder(context.Background(), "firebase-uid-0001", "Calle 50", "efectivo"); err == nil {
		t.Fatal("expected empty cart rejection")
	}
	if calls != 1 {
		t.Fatalf("empty cart submit must not hit the server, got %d calls", calls)
	}
}

func TestSubmitOrderComputesSevenPercentTax(t *testing.T) {
	store := newCartWith(t, lineItem(1, "100.00", 1, 10))

	var got orderPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"pedido_id":"ped-1"}`))
	}))
	defer server.Close()

	submitter, err := NewSubmitter(server.URL, store, server.Client(), nil)
	if err != nil {
		t.Fatalf("NewSubmitter: %v", err)
	}
	if _, err := submitter.SubmitOrder(context.Background(), "firebase-uid-0001", "Calle 50", "tarjeta"); err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}

	if !money.Equal(got.Subtotal, decimal.RequireFromString("100.00")) {
		t.Fatalf("expected subtotal 100.00, got %s", got.Subtotal)
	}
	if !money.Equal(got.ITBMS, decimal.RequireFromString("7.00")) {
		t.Fatalf("expected itbms 7.00, got %s", got.ITBMS)
	}
	if !money.Equal(got.Total, decimal.RequireFromString("107.00")) {
		t.Fatalf("expected total 107.00, got %s", got.Total)
	}
}

func TestSubmitOrderSurfacesServerErrorVerbatim(t *testing.T) {
	store := newCartWith(t, lineItem(1, "10.00", 2, 5))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"success":false,"error":"stock insuficiente para el producto 1"}`))
	}))
	defer server.Close()

	submitter, err := NewSubmitter(server.URL, store, server.Client(), nil)
	if err != nil {
		t.Fatalf("NewSubmitter: %v", err)
	}

	_, err = submitter.SubmitOrder(context.Background(), "firebase-uid-0001", "Calle 50", "efectivo")
	if err == nil {
		t.Fatal("expected server error")
	}
	if err.Error() != "stock insuficiente para el producto 1" {
		t.Fatalf("server message must pass through verbatim, got %q", err.Error())
	}
	var serverErr *ServerError
	if !stderrors.As(err, &serverErr) || serverErr.StatusCode != http.StatusConflict {
		t.Fatalf("expected ServerError with 409, got %#v", err)
	}

	state := store.Snapshot()
	if state.ItemCount != 2 {
		t.Fatalf("cart must stay untouched after failure, got %+v", state)
	}
}

func TestSubmitOrderValidatesBeforeSending(t *testing.T) {
	store := newCartWith(t, lineItem(1, "10.00", 1, 5))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be sent")
	}))
	defer server.Close()

	submitter, err := NewSubmitter(server.URL, store, server.Client(), nil)
	if err != nil {
		t.Fatalf("NewSubmitter: %v", err)
	}

	cases := []struct {
		name       string
		uid        string
		direccion  string
		metodoPago string
	}{
		{"missing uid", "", "Calle 50", "efectivo"},
		{"blank direccion", "firebase-uid-0001", "   ", "efectivo"},
		{"bad metodo", "firebase-uid-0001", "Calle 50", "bitcoin"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := submitter.SubmitOrder(context.Background(), tc.uid, tc.direccion, tc.metodoPago)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation code, got %v", err)
			}
		})
	}
}

func TestSubmitOrderSingleAttemptOnNetworkFailure(t *testing.T) {
	store := newCartWith(t, lineItem(1, "10.00", 1, 5))

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Error("response writer must support hijacking")
			return
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			t.Errorf("hijack: %v", err)
			return
		}
		conn.Close()
	}))
	defer server.Close()

	submitter, err := NewSubmitter(server.URL, store, server.Client(), nil)
	if err != nil {
		t.Fatalf("NewSubmitter: %v", err)
	}

	_, err = submitter.SubmitOrder(context.Background(), "firebase-uid-0001", "Calle 50", "efectivo")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if calls != 1 {
		t.Fatalf("expected exactly one attempt, got %d", calls)
	}
	if store.Snapshot().ItemCount != 1 {
		t.Fatal("cart must stay untouched after transport failure")
	}
}
