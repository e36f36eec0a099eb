package model

// Item is a named record carrying a copy of its owner.
// Owner is captured when the item is created and does not follow
// later changes to the user with the same ID.
type Item struct {
	ID    uint8  `json:"id"`
	Name  string `json:"name"`
	Owner User   `json:"owner"`
}

// NewItem builds an Item whose owner is a fresh User built from owner's fields.
func NewItem(id uint8, name string, owner User) Item {
	return Item{
		ID:    id,
		Name:  name,
		Owner: NewUser(owner.ID, owner.Username, owner.Age),
	}
}
