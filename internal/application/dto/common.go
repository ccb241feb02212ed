package dto

// PageRequest paginación por offset para los listados.
type PageRequest struct {
	Limit  int `json:"limit" validate:"omitempty,min=1,max=500"`
	Offset int `json:"offset" validate:"omitempty,min=0"`
}

// Normalize aplica los valores por defecto del listado.
func (p *PageRequest) Normalize() {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Limit > 500 {
		p.Limit = 500
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse envuelve un listado paginado.
type PageResponse[T any] struct {
	Items  []T `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// ErrorResponse cuerpo de error estándar de la API.
type ErrorResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail detalle de un campo inválido.
type ErrorDetail struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}
