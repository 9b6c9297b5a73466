package adapter

import "encoding/json"

// stringField returns payload[key] when it holds a non-empty string.
// JSON null and missing keys both report absent.
func stringField(payload map[string]any, key string) (string, bool) {
	v, ok := payload[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// intField returns payload[key] as an int. encoding/json decodes numbers
// into float64; integer-typed values are tolerated for payloads built in
// tests.
func intField(payload map[string]any, key string) (int, bool) {
	v, ok := payload[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}
