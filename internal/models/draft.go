package models

// PostDraft is what an author submits to publish a post. Categories are
// referenced by catalog id.
type PostDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	CategoryIDs []string `json:"categoryIds"`
	Recipe      *Recipe  `json:"recipe,omitempty"`
}
