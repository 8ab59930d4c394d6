package models

// Todo is a single to-do item.
type Todo struct {
	// ID is assigned by the store on first save and never changes afterwards.
	// Nil until the todo has been persisted.
	ID *int64 `json:"id" db:"id"`

	// Description is the short label of the item.
	Description string `json:"description" db:"description"`

	// Details is free-text elaboration.
	Details string `json:"details" db:"details"`

	// Done marks the item as completed.
	Done bool `json:"done" db:"done"`
}

// NewTodo returns an unsaved todo.
func NewTodo(description, details string, done bool) Todo {
	return Todo{Description: description, Details: details, Done: done}
}

// Persisted reports whether the todo has been assigned an ID.
func (t Todo) Persisted() bool {
	return t.ID != nil
}

// Equal reports whether t and other denote the same stored record.
// Only the IDs are compared; todos without an ID are never equal.
func (t Todo) Equal(other Todo) bool {
	return t.ID != nil && other.ID != nil && *t.ID == *other.ID
}

// WithID returns a copy of t carrying the given ID.
func (t Todo) WithID(id int64) Todo {
	t.ID = &id
	return t
}
