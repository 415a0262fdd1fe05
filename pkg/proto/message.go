package proto

import "time"

// MessageResponse acknowledges an operation with a human-readable message.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// CompareRequest asks for a comparison of two players.
type CompareRequest struct {
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
}

// CompareResponse carries the comparison text for the requested players.
type CompareResponse struct {
	Player1    string `json:"player1"`
	Player2    string `json:"player2"`
	Comparison string `json:"comparison"`
}

// HistoryEntry is one past comparison of the caller.
type HistoryEntry struct {
	Player1   string    `json:"player1"`
	Player2   string    `json:"player2"`
	Result    string    `json:"result"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
