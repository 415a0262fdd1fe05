package models

// User represents a registered account in the database.
type User struct {
	ID             int64  `db:"id"`
	Name           string `db:"name"`
	Email          string `db:"email"`
	HashedPassword string `db:"hashed_password"`
}

// RegisterRequest is the form posted to the registration endpoint.
type RegisterRequest struct {
	Name     string `form:"name" binding:"required,notblank"`
	Email    string `form:"email" binding:"required,notblank"`
	Password string `form:"password" binding:"required,notblank"`
}

// LoginRequest follows the OAuth2 password-grant form: the email travels as username.
type LoginRequest struct {
	GrantType string `form:"grant_type" binding:"omitempty,eq=password"`
	Username  string `form:"username" binding:"required"`
	Password  string `form:"password" binding:"required"`
}
