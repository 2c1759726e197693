package ir

// ScopedBody is the result of PrependInits: the synthesized body plus
// the identity of the writes it synthesized, so a caller can tell them
// apart from any writes the original body already contained.
type ScopedBody struct {
	Body NodeID
	// ZeroInits holds the NodeID of the synthesized zero-initializing
	// Write for every declared variable, indexed by the variable's
	// local index (ZeroInits[i] corresponds to local index i; entries
	// for parameter indices are InvalidNodeID).
	ZeroInits []NodeID
}

// PrependInits builds a scoped-initialization body: a Block whose
// first statements are an explicit Write for every parameter (value a
// Placeholder of matching type) and every declared variable (value its
// type's zero literal), followed by fn's existing body. It does not
// mutate fn.Body; callers run their analysis against the returned body
// and restore fn.Body themselves (or never touch it), matching the
// "on scope exit the original body is restored" rule.
func PrependInits(fn *Function, b Builder) ScopedBody {
	zeroInits := make([]NodeID, fn.NumLocals())
	for i := range zeroInits {
		zeroInits[i] = InvalidNodeID
	}

	var inits []NodeID
	for p := 0; p < fn.NumParams(); p++ {
		inits = append(inits, b.Write(p, b.Placeholder(fn.TypeOf(p)), false))
	}
	for v := fn.NumParams(); v < fn.NumLocals(); v++ {
		w := b.Write(v, b.ZeroLiteral(fn.TypeOf(v)), false)
		inits = append(inits, w)
		zeroInits[v] = w
	}
	inits = append(inits, fn.Body)
	return ScopedBody{Body: b.Block(inits...), ZeroInits: zeroInits}
}
