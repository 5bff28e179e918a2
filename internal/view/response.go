package view

type Response[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// ErrorResponse documents failed calls in swagger.
type ErrorResponse struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// MessageResponse documents calls that only acknowledge.
type MessageResponse struct {
	Data string `json:"data"`
}

// CreateResponse builds the envelope every endpoint answers with. payload echoes
// the request back on validation failures.
func CreateResponse[T any](data T, err error, payload any, message string) Response[T] {
	res := Response[T]{
		Data:    data,
		Message: message,
		Payload: payload,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}
