package elaborate

// HostTypeTag returns the lift-rule key for a raw host primitive (spec
// §4.4 step 1): "number" for int/float64, "string" for string, "boolean"
// for bool, "object" for a map/sequence, "unknown" for anything else. This
// is deliberately a closed, small set — plugins extend what a given tag
// *means* (which literal kind it lifts to) but never the tag vocabulary
// itself, so trait dispatch (spec §4.4 step 2) has a small, predictable
// domain to switch on.
func HostTypeTag(v any) string {
	switch v.(type) {
	case int, int32, int64, float32, float64:
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "object"
	default:
		return "unknown"
	}
}
