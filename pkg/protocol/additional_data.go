package protocol

// AdditionalData is the free-form payload on a client message
type AdditionalData map[string]interface{}

// GetString returns the value as a string
func (a AdditionalData) GetString(key string) (string, bool) {
	if value, ok := a[key]; ok {
		if s, ok := value.(string); ok {
			return s, true
		}
	}

	return "", false
}

// GetInt returns the value as an int. JSON numbers decode as float64 and are
// converted.
func (a AdditionalData) GetInt(key string) (int, bool) {
	value, ok := a[key]
	if !ok {
		return 0, false
	}

	switch v := value.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}

	return 0, false
}

// GetInt64 returns the value as an int64
func (a AdditionalData) GetInt64(key string) (int64, bool) {
	value, ok := a[key]
	if !ok {
		return 0, false
	}

	switch v := value.(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	}

	return 0, false
}

// GetBool returns the value as a bool
func (a AdditionalData) GetBool(key string) bool {
	if value, ok := a[key]; ok {
		if b, ok := value.(bool); ok {
			return b
		}
	}

	return false
}
