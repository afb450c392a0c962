package query

// Pair is one entry of an ordered string map.
type Pair struct {
	Key   string
	Value string
}

// AsString accepts string nodes.
func AsString(v *Value) (string, error) {
	s, ok := v.Str()
	if !ok {
		return "", &BindError{Want: "string", Got: v.Kind()}
	}
	return s, nil
}

// AsOptionalString accepts string and null nodes; null yields "".
func AsOptionalString(v *Value) (string, error) {
	if v.IsNull() {
		return "", nil
	}
	return AsString(v)
}

// AsStrings accepts arrays whose elements are all strings.
func AsStrings(v *Value) ([]string, error) {
	if v.Kind() != Array {
		return nil, &BindError{Want: "array of strings", Got: v.Kind()}
	}
	out := make([]string, 0, v.Len())
	for _, item := range v.Items() {
		s, ok := item.Str()
		if !ok {
			return nil, &BindError{Want: "array of strings", Got: item.Kind()}
		}
		out = append(out, s)
	}
	return out, nil
}

// AsObject accepts object nodes and returns them unchanged.
func AsObject(v *Value) (*Value, error) {
	if v.Kind() != Object {
		return nil, &BindError{Want: "object", Got: v.Kind()}
	}
	return v, nil
}

// AsStringMap accepts objects whose values are strings or null and returns
// the entries in source order. A null node yields an empty map.
func AsStringMap(v *Value) ([]Pair, error) {
	if v.IsNull() {
		return nil, nil
	}
	if v.Kind() != Object {
		return nil, &BindError{Want: "object of strings", Got: v.Kind()}
	}
	out := make([]Pair, 0, v.Len())
	for _, k := range v.Keys() {
		prop, _ := v.Get(k)
		s, err := AsOptionalString(prop)
		if err != nil {
			return nil, &BindError{Want: "string value for key " + k, Got: prop.Kind()}
		}
		out = append(out, Pair{Key: k, Value: s})
	}
	return out, nil
}
