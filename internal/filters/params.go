package filters

// Params represents decode parameters from PDF stream dictionaries, with
// values already converted to Go primitives (int, float64, bool, string).
type Params map[string]interface{}

// getIntParam returns params[key] as an int, or defaultValue if the key is
// missing or not numeric.
func getIntParam(params Params, key string, defaultValue int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case float64:
		return int(v)
	default:
		return defaultValue
	}
}

// getBoolParam returns params[key] as a bool, or defaultValue if the key is
// missing or not a bool.
func getBoolParam(params Params, key string, defaultValue bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return defaultValue
}
