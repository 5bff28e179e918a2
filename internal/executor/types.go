package executor

import "fmt"

type transferResponse struct {
	Signature string `json:"signature"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SignerError is a non-2xx reply of the signing service.
type SignerError struct {
	StatusCode int
	Message    string
}

func (e *SignerError) Error() string {
	return fmt.Sprintf("signer responded %d: %s", e.StatusCode, e.Message)
}

// IsClientError reports a rejection of the instruction itself, which retrying will not fix.
func (e *SignerError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}
