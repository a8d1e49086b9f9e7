package checkout

import "github.com/shopspring/decimal"

// OrderItem mirrors one cart line as submitted by the client. Precio is the
// client's last-known unit price; the authoritative price is read from the
// productos row inside the transaction.
type OrderItem struct {
	ID       int             `json:"id"`
	Cantidad int             `json:"cantidad"`
	Precio   decimal.Decimal `json:"precio"`
}

// OrderInput is the full checkout submission.
type OrderInput struct {
	FirebaseUID string          `json:"firebase_uid"`
	Items       []OrderItem     `json:"items"`
	Direccion   string          `json:"direccion"`
	MetodoPago  string          `json:"metodoPago"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ITBMS       decimal.Decimal `json:"itbms"`
	Total       decimal.Decimal `json:"total"`
}

// OrderResult is the confirmation payload for a placed order. Totals are
// the server-recomputed sums, not the client echoes.
type OrderResult struct {
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
