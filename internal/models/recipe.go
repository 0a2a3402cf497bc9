package models

// Difficulty grades how demanding a recipe is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Valid reports whether d is one of the known grades. The zero value is
// treated as "not set" and is also valid.
func (d Difficulty) Valid() bool {
	switch d {
	case "", DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Recipe is the optional cooking detail attached to a post.
type Recipe struct {
	Ingredients  []string   `json:"ingredients"`
	Instructions []string   `json:"instructions"`
	PrepTime     *int       `json:"prepTime,omitempty"`
	CookTime     *int       `json:"cookTime,omitempty"`
	Servings     *int       `json:"servings,omitempty"`
	Difficulty   Difficulty `json:"difficulty,omitempty"`
}
