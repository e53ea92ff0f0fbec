package temporal

// Record is a structured range definition. A field may be given by name in
// Fields or by position in Values. Positional values are consumed in the
// order hours, data for whichever fields were not named.
type Record struct {
	Fields map[string]any
	Values []any
}

var recordKeys = []string{"hours", "data"}

// resolve picks a value for each record key: the named field when present
// and non-nil, otherwise the next unused positional value.
func (r Record) resolve() map[string]any {
	resolved := make(map[string]any, len(recordKeys))
	for _, key := range recordKeys {
		if v, ok := r.Fields[key]; ok && v != nil {
			resolved[key] = v
		}
	}

	next := 0
	for _, key := range recordKeys {
		if _, ok := resolved[key]; ok {
			continue
		}
		if next < len(r.Values) {
			resolved[key] = r.Values[next]
			next++
		}
	}

	return resolved
}
