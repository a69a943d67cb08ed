package uid

import "github.com/google/uuid"

// New generates a new unique identifier.
func New() string {
	return uuid.New().String()
}

// WithPrefix generates an identifier of the form "<prefix>_<uuid>".
func WithPrefix(prefix string) string {
	return prefix + "_" + New()
}

// IsValid checks if a string is a valid UUID.
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
