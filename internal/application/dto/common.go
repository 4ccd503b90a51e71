package dto

// TimeLayout formato de fechas en las respuestas de la API.
const TimeLayout = "02/01/2006 15:04:05"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse confirmación simple (eliminaciones, recuperación de contraseña).
type MessageResponse struct {
	Message string `json:"mensagem"`
}

// HealthResponse estado del servicio y tamaño de cada colección.
type HealthResponse struct {
	Status   string `json:"status"`
	Products int    `json:"produtos"`
	Orders   int    `json:"pedidos"`
	Users    int    `json:"usuarios"`
}
