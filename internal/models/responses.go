package models

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// TokenResponse carries an operator token
type TokenResponse struct {
	Token string `json:"token"`
}
