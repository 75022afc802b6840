package diagram

import "slices"

// Equal reports whether a and b describe the same classes, members and relationships in
// the same order. Warnings are not compared.
func Equal(a, b *Model) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !slices.Equal(a.Names(), b.Names()) {
		return false
	}
	for _, ca := range a.Classes() {
		if !classEqual(ca, b.Class(ca.Name)) {
			return false
		}
	}
	return slices.Equal(a.Relationships, b.Relationships)
}

func classEqual(a, b *ClassDefinition) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name &&
		a.Stereotype == b.Stereotype &&
		slices.Equal(a.Attributes, b.Attributes) &&
		slices.EqualFunc(a.Methods, b.Methods, methodEqual)
}

func methodEqual(a, b MethodDefinition) bool {
	return a.Name == b.Name &&
		a.ReturnType == b.ReturnType &&
		a.Visibility == b.Visibility &&
		a.Static == b.Static &&
		a.Abstract == b.Abstract &&
		slices.Equal(a.Parameters, b.Parameters)
}
