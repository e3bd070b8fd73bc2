package document

// Walk visits node and every descendant depth-first, parents before children,
// object entries in key order and array elements in index order.
func Walk(node Node, visit func(Node)) {
	visit(node)

	switch n := node.(type) {
	case *Object:
		for _, key := range n.keys {
			Walk(n.values[key], visit)
		}
	case *Array:
		for _, item := range n.items {
			Walk(item, visit)
		}
	}
}

// Equal reports whether a and b hold the same data. Object key order is not
// significant.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch x := a.(type) {
	case *Object:
		y, ok := b.(*Object)
		if !ok || x.Len() != y.Len() {
			return false
		}

		for key, value := range x.values {
			other, exists := y.values[key]
			if !exists || !Equal(value, other) {
				return false
			}
		}

		return true
	case *Array:
		y, ok := b.(*Array)
		if !ok || x.Len() != y.Len() {
			return false
		}

		for i := range x.items {
			if !Equal(x.items[i], y.items[i]) {
				return false
			}
		}

		return true
	case *Scalar:
		y, ok := b.(*Scalar)

		return ok && x.value == y.value
	default:
		return false
	}
}
