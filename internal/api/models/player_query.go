package models

import "time"

// PlayerQuery is one stored comparison. Rows are immutable once written.
type PlayerQuery struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Player1   string    `db:"player1"`
	Player2   string    `db:"player2"`
	Result    string    `db:"result"`
	Timestamp time.Time `db:"timestamp"`
}

// CompareRequest is the JSON body of a comparison request.
type CompareRequest struct {
	Player1 string `json:"player1" binding:"required,notblank"`
	Player2 string `json:"player2" binding:"required,notblank"`
}
