package types

// ErrorEnvelope matches the legacy storefront error contract consumed by the
// mobile client: {"success": false, "error": "..."}.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Message is the minimal success body used by write endpoints that have no
// richer payload.
type Message struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
