// Package queryir provides the intermediate representation of a compiled
// formula query.
//
// The IR sits between the formula compiler and the SQL backend:
//
//	[formula] → [Query IR] → [SQL text]
//
// A formula compiles to a single Select over the companies relation with
// one inner join per distinct concept, two computed columns (leftSide and
// rightSide) and a filter comparing them.
//
// TRUST BOUNDARY:
//
// The SQL backend interpolates aliases, concept labels and years into the
// query text without escaping. Validate is the gate: every identifier must
// be a plain identifier, numbers must be digits, arithmetic operators come
// from a fixed set, and every referenced alias must be joined. Backends
// refuse queries that do not validate.
//
// SEALED INTERFACES:
//
// Query and Term are sealed interfaces using the marker method pattern.
// Only types in this package implement them, so backend type switches are
// exhaustive:
//
//	switch t := term.(type) {
//	case ColumnRef:
//	case FactValue:
//	case MarketCap:
//	case Number:
//	case Operator:
//	case Arith:
//	}
package queryir
