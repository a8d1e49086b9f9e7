// Package checkout builds an order payload from the cart and submits it
// to the order endpoint in a single attempt.
package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/felipe25/tienda-backend/client/cart"
	"github.com/felipe25/tienda-backend/pkg/enums"
	"github.com/felipe25/tienda-backend/pkg/errors"
	"github.com/felipe25/tienda-backend/pkg/logger"
	"github.com/felipe25/tienda-backend/pkg/money"
)

const defaultTimeout = 15 * time.Second

// Confirmation is the order endpoint's success payload.
type Confirmation struct {
	Success        bool            `json:"success"`
	Message        string          `json:"message"`
	PedidoID       string          `json:"pedido_id"`
	CarritosIDs    []int           `json:"carritos_ids"`
	UsuarioID      int             `json:"usuario_id"`
	TotalProductos int             `json:"total_productos"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	ITBMS          decimal.Decimal `json:"itbms"`
	Total          decimal.Decimal `json:"total"`
	Direccion      string          `json:"direccion"`
	MetodoPago     string          `json:"metodo_pago"`
}

// ServerError carries the server-reported message verbatim so the UI
// can show it without interpretation.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

type orderPayload struct {
	FirebaseUID string          `json:"firebase_uid"`
	Items       []orderItem     `json:"items"`
	Direccion   string          `json:"direccion"`
	MetodoPago  string          `json:"metodoPago"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ITBMS       decimal.Decimal `json:"itbms"`
	Total       decimal.Decimal `json:"total"`
}

type orderItem struct {
	ID       int             `json:"id"`
	Cantidad int             `json:"cantidad"`
	Precio   decimal.Decimal `json:"precio"`
}

// Submitter posts orders built from a cart store. The endpoint URL and
// the HTTP client come in at construction time so tests can point it at
// a fixture server.
type Submitter struct {
	endpoint string
	client   *http.Client
	cart     *cart.Store
	logg     *logger.Logger
}

func NewSubmitter(endpoint string, store *cart.Store, client *http.Client, logg *logger.Logger) (*Submitter, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("submitter requires an order endpoint URL")
	}
	if store == nil {
		return nil, fmt.Errorf("submitter requires a cart store")
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if logg == nil {
		logg = logger.New(logger.Options{ServiceName: "checkout-client"})
	}
	return &Submitter{endpoint: endpoint, client: client, cart: store, logg: logg}, nil
}

// SubmitOrder sends the current cart as one order. Exactly one attempt
// is made; on a 201 the cart is cleared and the confirmation returned,
// on any failure the cart is left untouched.
func (s *Submitter) SubmitOrder(ctx context.Context, firebaseUID, direccion, metodoPago string) (*Confirmation, error) {
	state := s.cart.Snapshot()
	payload, err := buildPayload(state, firebaseUID, direccion, metodoPago)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "no se pudo preparar el pedido")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "no se pudo preparar el pedido")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logg.Error(ctx, "checkout.submit_failed", err)
		return nil, errors.Wrap(errors.CodeDependency, err, "no se pudo contactar al servidor")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "no se pudo leer la respuesta del servidor")
	}

	if resp.StatusCode != http.StatusCreated {
		return nil, serverError(resp.StatusCode, raw)
	}

	var confirmation Confirmation
	if err := json.Unmarshal(raw, &confirmation); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "respuesta del servidor inválida")
	}

	s.cart.Clear()
	ctx = s.logg.WithPedidoID(ctx, confirmation.PedidoID)
	s.logg.Info(ctx, "checkout.confirmed")
	return &confirmation, nil
}

func buildPayload(state cart.State, firebaseUID, direccion, metodoPago string) (*orderPayload, error) {
	if len(state.Items) == 0 {
		return nil, errors.New(errors.CodeValidation, "el carrito está vacío")
	}
	if strings.TrimSpace(firebaseUID) == "" {
		return nil, errors.New(errors.CodeValidation, "debes iniciar sesión para comprar")
	}
	direccion = strings.TrimSpace(direccion)
	if direccion == "" {
		return nil, errors.New(errors.CodeValidation, "la dirección no puede estar vacía")
	}
	metodo, err := enums.ParseMetodoPago(metodoPago)
	if err != nil {
		return nil, errors.New(errors.CodeValidation, "método de pago no válido")
	}

	items := make([]orderItem, 0, len(state.Items))
	for _, li := range state.Items {
		items = append(items, orderItem{ID: li.ID, Cantidad: li.Cantidad, Precio: li.Precio})
	}

	subtotal := money.Round(state.Total)
	return &orderPayload{
		FirebaseUID: firebaseUID,
		Items:       items,
		Direccion:   direccion,
		MetodoPago:  metodo.String(),
		Subtotal:    subtotal,
		ITBMS:       money.ITBMS(subtotal),
		Total:       money.Total(subtotal),
	}, nil
}

// serverError extracts the error string from the legacy failure
// envelope, falling back to a generic message on unparseable bodies.
func serverError(status int, raw []byte) error {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != "" {
		return &ServerError{StatusCode: status, Message: envelope.Error}
	}
	return &ServerError{StatusCode: status, Message: "el servidor rechazó el pedido"}
}
