package driven

// ConfigStore persists the small set of user settings the CLI keeps between
// runs (default sheet URL, preferred tab title, consent timeout override).
// Implementations own the storage format and type coercion.
type ConfigStore interface {
	// GetString returns the value for key, or "" when the key is absent or
	// not a string.
	GetString(key string) string

	// GetInt returns the value for key, or 0 when the key is absent or not
	// an integer.
	GetInt(key string) int

	// Set stores a value and persists it immediately.
	Set(key string, value any) error
}
