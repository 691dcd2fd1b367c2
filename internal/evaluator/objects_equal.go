package evaluator

// containerPair is an (a, b) pair of containers under comparison.
type containerPair struct {
	a, b Object
}

// objectsEqual is structural equality: scalars by value, arrays element-wise,
// maps by key set and values. Functions and builtins compare by identity.
// A pair of containers met again while it is being compared counts as equal,
// so self-referencing structures terminate.
func objectsEqual(a, b Object) bool {
	return objectsEqualSeen(a, b, nil)
}

func objectsEqualSeen(a, b Object, seen map[containerPair]bool) bool {
	if a == b {
		return true
	}
	if a.Type() != b.Type() {
		return false
	}

	switch av := a.(type) {
	case *Number:
		return av.Value == b.(*Number).Value
	case *String:
		return av.Value == b.(*String).Value
	case *Boolean:
		return av.Value == b.(*Boolean).Value
	case *Null, *Undefined:
		return true
	case *Array:
		bv := b.(*Array)
		if len(av.Elements) != len(bv.Elements) {
			return false
		}
		seen, done := visit(seen, av, bv)
		if done {
			return true
		}
		for i := range av.Elements {
			if !objectsEqualSeen(av.Elements[i], bv.Elements[i], seen) {
				return false
			}
		}
		return true
	case *Map:
		bv := b.(*Map)
		if av.Len() != bv.Len() {
			return false
		}
		seen, done := visit(seen, av, bv)
		if done {
			return true
		}
		for _, p := range av.Pairs() {
			other, ok := bv.Get(p.Key)
			if !ok || !objectsEqualSeen(p.Value, other, seen) {
				return false
			}
		}
		return true
	case *Error:
		bv := b.(*Error)
		return av.Kind == bv.Kind && av.Message == bv.Message
	}
	return false
}

// visit records the pair and reports whether it was already recorded.
func visit(seen map[containerPair]bool, a, b Object) (map[containerPair]bool, bool) {
	if seen == nil {
		seen = make(map[containerPair]bool)
	}
	key := containerPair{a, b}
	if seen[key] {
		return seen, true
	}
	seen[key] = true
	return seen, false
}
