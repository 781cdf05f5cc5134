// Package food provides IRIs from the LIRMM food ontology.
//
// The food vocabulary is the canonical vocabulary of the unified graph:
// every recipe carries a food:Recipe type assertion and every
// recipe-to-ingredient relation is reachable through the direct
// food:ingredient predicate after normalization, regardless of how the
// originating source modeled it.
package food

// Namespace is the base IRI of the LIRMM food ontology.
const Namespace = "http://data.lirmm.fr/ontologies/food#"

// Class IRIs.
const (
	// ClassRecipe is the canonical recipe class. The normalizer guarantees
	// every recipe node carries this type.
	ClassRecipe = Namespace + "Recipe"

	// ClassIngredient is the canonical ingredient class.
	ClassIngredient = Namespace + "Ingredient"

	// ClassIngredientLine is an intermediate node pairing an ingredient with
	// quantity text, used by the RecipesNLG conversion.
	ClassIngredientLine = Namespace + "IngredientLine"
)

// Predicate IRIs.
const (
	// Ingredient is the canonical direct recipe-to-ingredient link.
	// The normalizer flattens every source-specific chain onto it.
	Ingredient = Namespace + "ingredient"

	// HasIngredient links a recipe to an intermediate ingredient line
	// (RecipesNLG idiom: recipe -> line -> ingredient).
	HasIngredient = Namespace + "hasIngredient"

	// Quantity holds the quantity text on an ingredient line.
	Quantity = Namespace + "quantity"
)
