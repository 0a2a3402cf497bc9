package models

import "time"

// MaxCommentLength bounds the text of a comment, in characters.
const MaxCommentLength = 500

// Comment is embedded in its Post and never stored on its own.
type Comment struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Author    User      `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Likes     []string  `json:"likes"`
}
