package models

// DummyLogin receives the POST /api/auth/login body.
type DummyLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
