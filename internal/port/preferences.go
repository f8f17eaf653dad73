package port

import "context"

// Preferences is a named key-value namespace holding string values.
type Preferences interface {
	// GetString returns the value stored under key, or defValue if the key is absent
	GetString(ctx context.Context, key, defValue string) (string, error)

	// PutString replaces the value stored under key
	PutString(ctx context.Context, key, value string) error
}

// Closer is implemented by backends that hold connections or goroutines.
type Closer interface {
	Close() error
}
