package models

import "time"

// Post is a published cooking creation. Author is a snapshot of the user's
// display fields taken when the post was created; later profile edits do not
// flow into it.
type Post struct {
	ID          string     `json:"id"`
	AuthorID    string     `json:"authorId"`
	Author      User       `json:"author"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Images      []string   `json:"images"`
	Recipe      *Recipe    `json:"recipe,omitempty"`
	Categories  []Category `json:"categories"`
	Likes       []string   `json:"likes"`
	Comments    []Comment  `json:"comments"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// MaxPostImages is the number of image URLs a post may carry.
const MaxPostImages = 4

// PostPatch is a partial set of post fields for a shallow merge.
type PostPatch struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Images      *[]string   `json:"images,omitempty"`
	Recipe      *Recipe     `json:"recipe,omitempty"`
	Categories  *[]Category `json:"categories,omitempty"`
	Likes       *[]string   `json:"likes,omitempty"`
	Comments    *[]Comment  `json:"comments,omitempty"`
	UpdatedAt   *time.Time  `json:"updatedAt,omitempty"`
}

// Apply returns a copy of p with the patch shallow-merged over it.
func (pp PostPatch) Apply(p Post) Post {
	if pp.Title != nil {
		p.Title = *pp.Title
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.Images != nil {
		p.Images = *pp.Images
	}
	if pp.Recipe != nil {
		p.Recipe = pp.Recipe
	}
	if pp.Categories != nil {
		p.Categories = *pp.Categories
	}
	if pp.Likes != nil {
		p.Likes = *pp.Likes
	}
	if pp.Comments != nil {
		p.Comments = *pp.Comments
	}
	if pp.UpdatedAt != nil {
		p.UpdatedAt = *pp.UpdatedAt
	}
	return p
}

// HasCategory reports whether the post is tagged with the category id.
func (p *Post) HasCategory(id string) bool {
	for _, c := range p.Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// CommentIndex returns the position of the comment with the given id, or -1.
func (p *Post) CommentIndex(id string) int {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return i
		}
	}
	return -1
}
