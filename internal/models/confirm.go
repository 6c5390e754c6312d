package models

// ConfirmResponse es el cuerpo 2xx del endpoint /orders/confirm-quantity.
type ConfirmResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorBody es el cuerpo que el API devuelve con status no-2xx.
// Solo nos interesa el mensaje.
type ErrorBody struct {
	Message string `json:"message,omitempty"`
}
