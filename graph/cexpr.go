package graph

// CExpr is the permissive, construction-time expression produced by the
// constructor surface ($). It carries a kind tag and an ordered sequence of
// arguments, which may themselves be CExprs, raw host primitives, ordered
// sequences, or string-keyed maps. CExpr performs no validation at
// construction time; validation happens during elaboration.
//
// CExpr is identified structurally by object identity (pointer identity),
// not by the contents of Kind/Args — two CExprs with identical kind and
// args are still distinct nodes unless they are the same *CExpr value. This
// is what lets elaborate() detect and preserve shared subtrees.
type CExpr struct {
	_    brand
	Kind string
	Args []any
}

// MakeCExpr returns a new, opaque CExpr with the given kind and argument
// list. Each element of args is either a *CExpr, a raw primitive
// (int/float64/string/bool), a []any, or a map[string]any.
func MakeCExpr(kind string, args ...any) *CExpr {
	return &CExpr{Kind: kind, Args: args}
}

// IsCExpr reports whether x is a *CExpr. It is a type assertion on the
// concrete type, so a value of any other type fails this check even if it
// defines identically named Kind/Args fields.
func IsCExpr(x any) bool {
	_, ok := x.(*CExpr)
	return ok
}
