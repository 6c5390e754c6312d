package models

import "net/url"

// RequestParams representa los identificadores que llegan en la URL de la página
// y que se envían tal cual al endpoint de confirmación.
type RequestParams struct {
	OrderID string `json:"orderId"`
	ItemID  string `json:"itemId"`
	Action  string `json:"action"`
}

// ParamsFromQuery extrae orderId, itemId y action de un query string.
// Una clave ausente queda como cadena vacía.
func ParamsFromQuery(query url.Values) RequestParams {
	return RequestParams{
		OrderID: query.Get("orderId"),
		ItemID:  query.Get("itemId"),
		Action:  query.Get("action"),
	}
}

// GetOrderID implementa la interfaz del validator
func (p RequestParams) GetOrderID() string {
	return p.OrderID
}

// GetItemID implementa la interfaz del validator
func (p RequestParams) GetItemID() string {
	return p.ItemID
}

// GetAction implementa la interfaz del validator
func (p RequestParams) GetAction() string {
	return p.Action
}
