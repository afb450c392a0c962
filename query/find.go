package query

// ParseFunc converts a resolved node into a typed shape. It returns an error
// when the node's kind does not fit; Find helpers wrap that error in a
// BindError carrying the path expression.
type ParseFunc[T any] func(v *Value) (T, error)

// Find resolves expr against root.
func Find(root *Value, expr string) (*Value, error) {
	p, err := ParsePath(expr)
	if err != nil {
		return nil, err
	}
	return p.Resolve(root)
}

// FindNodeArray resolves expr and classifies the node as a sequence:
// null yields one null node, an object yields itself, an array yields its
// elements. Any other kind is a resolution error.
func FindNodeArray(root *Value, expr string) ([]*Value, error) {
	v, err := Find(root, expr)
	if err != nil {
		return nil, err
	}
	switch v.Kind() {
	case Null, Object:
		return []*Value{v}, nil
	case Array:
		return v.Items(), nil
	}
	return nil, resolveErr(expr, "", "unsupported node kind %s for a sequence", v.Kind())
}

// FindStringArray resolves expr to a sequence of strings. A null node yields
// one empty string, a string node yields itself and an array yields the text
// of each element. Objects and scalars other than strings are rejected.
func FindStringArray(root *Value, expr string) ([]string, error) {
	v, err := Find(root, expr)
	if err != nil {
		return nil, err
	}
	switch v.Kind() {
	case Null:
		return []string{""}, nil
	case String:
		return []string{v.str}, nil
	case Array:
		out := make([]string, 0, v.Len())
		for _, item := range v.Items() {
			out = append(out, item.Text())
		}
		return out, nil
	}
	return nil, resolveErr(expr, "", "unsupported node kind %s for a string sequence", v.Kind())
}

// FindDataArray resolves expr as FindNodeArray does and converts every
// element with parse.
func FindDataArray[T any](root *Value, expr string, parse ParseFunc[T]) ([]T, error) {
	nodes, err := FindNodeArray(root, expr)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(nodes))
	for _, n := range nodes {
		item, err := bind(expr, n, parse)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// FindData resolves expr and converts the node with parse.
func FindData[T any](root *Value, expr string, parse ParseFunc[T]) (T, error) {
	v, err := Find(root, expr)
	if err != nil {
		var zero T
		return zero, err
	}
	return bind(expr, v, parse)
}

// FindString resolves expr to a string node.
func FindString(root *Value, expr string) (string, error) {
	return FindData(root, expr, AsString)
}

func bind[T any](expr string, v *Value, parse ParseFunc[T]) (T, error) {
	out, err := parse(v)
	if err != nil {
		if be, ok := err.(*BindError); ok {
			if be.Path == "" {
				be.Path = expr
			}
			return out, be
		}
		return out, &BindError{Path: expr, Want: "shape", Got: v.Kind(), Err: err}
	}
	return out, nil
}
