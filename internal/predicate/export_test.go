package predicate

// FieldRef exposes a bare field reference node so tests can exercise the
// compiler's rejection of node kinds that cannot stand alone.
func FieldRef(name string) Expr {
	return &fieldExpr{name: name}
}
