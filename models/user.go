package models

// User is an admin account. Password holds a bcrypt hash and is never
// serialized.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// NewUser is the insert payload for a user.
type NewUser struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
