// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"errors"
	"fmt"

	"github.com/stash/stash/internal/model"
)

// ErrMissingField is returned when a required request field is absent or null.
var ErrMissingField = errors.New("missing required field")

// CreateUserRequest represents the request body for creating a user.
// Pointer fields distinguish an absent field from a zero value.
type CreateUserRequest struct {
	ID       *uint8  `json:"id"`
	Username *string `json:"username"`
	Age      *uint8  `json:"age"`
}

// Validate reports the first required field that is missing.
func (r CreateUserRequest) Validate() error {
	switch {
	case r.ID == nil:
		return fmt.Errorf("%w: id", ErrMissingField)
	case r.Username == nil:
		return fmt.Errorf("%w: username", ErrMissingField)
	case r.Age == nil:
		return fmt.Errorf("%w: age", ErrMissingField)
	}
	return nil
}

// ToModel converts a validated request to a User.
func (r CreateUserRequest) ToModel() model.User {
	return model.NewUser(*r.ID, *r.Username, *r.Age)
}

// CreateItemRequest represents the request body for creating an item.
type CreateItemRequest struct {
	ID    *uint8             `json:"id"`
	Name  *string            `json:"name"`
	Owner *CreateUserRequest `json:"owner"`
}

// Validate reports the first required field that is missing, including owner fields.
func (r CreateItemRequest) Validate() error {
	switch {
	case r.ID == nil:
		return fmt.Errorf("%w: id", ErrMissingField)
	case r.Name == nil:
		return fmt.Errorf("%w: name", ErrMissingField)
	case r.Owner == nil:
		return fmt.Errorf("%w: owner", ErrMissingField)
	}
	if err := r.Owner.Validate(); err != nil {
		return fmt.Errorf("owner: %w", err)
	}
	return nil
}

// ToModel converts a validated request to an Item.
func (r CreateItemRequest) ToModel() model.Item {
	return model.NewItem(*r.ID, *r.Name, r.Owner.ToModel())
}

// UserListResponse maps user IDs to users.
type UserListResponse map[uint8]model.User

// ItemListResponse maps item IDs to items.
type ItemListResponse map[uint8]model.Item

// StateResponse is the full contents of the store.
type StateResponse struct {
	Users UserListResponse `json:"users"`
	Items ItemListResponse `json:"items"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
