// Package model defines domain entities for the application.
package model

// User is a caller-identified account record.
type User struct {
	ID       uint8  `json:"id"`
	Username string `json:"username"`
	Age      uint8  `json:"age"`
}

// NewUser builds a User from its fields.
func NewUser(id uint8, username string, age uint8) User {
	return User{
		ID:       id,
		Username: username,
		Age:      age,
	}
}
