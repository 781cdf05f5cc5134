// Package spoon provides IRIs from the Spoonacular conversion vocabulary.
//
// The Spoonacular converter emits an anonymous "ns1" namespace; the pipeline
// binds it to the spoon prefix so the idiom is addressable.
package spoon

// Namespace is the base IRI of the Spoonacular conversion vocabulary.
const Namespace = "http://example.org/vocab/spoonacular#"

// Predicate IRIs.
const (
	// IngredientUsage links a recipe to an intermediate usage node
	// (Spoonacular idiom: recipe -> usage -> ingredient).
	IngredientUsage = Namespace + "ingredientUsage"

	// UsesIngredient links a usage node to the ingredient it consumes.
	UsesIngredient = Namespace + "usesIngredient"

	// Amount holds the quantity value on a usage node.
	Amount = Namespace + "amount"
)
