// Package schemaorg provides schema.org IRIs used by the MealDB conversion.
package schemaorg

// Namespace is the schema.org base IRI.
const Namespace = "https://schema.org/"

// Class IRIs.
const (
	// ClassRecipe is the schema.org recipe class. MealDB recipes are typed
	// with it; the normalizer adds the canonical food:Recipe alongside.
	ClassRecipe = Namespace + "Recipe"
)

// Predicate IRIs.
const (
	// Name is the display name of a resource. Recipe titles are attached
	// with it in the MealDB and Spoonacular conversions.
	Name = Namespace + "name"

	// Nutrition links a recipe to its nutrition information node.
	Nutrition = Namespace + "nutrition"

	// RecipeCategory is the recipe category (e.g. "Dessert").
	RecipeCategory = Namespace + "recipeCategory"
)
