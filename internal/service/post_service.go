// Package service implements the post and comment operations performed on
// top of the Persistent Store.
package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"momskitchen/internal/models"
	"momskitchen/internal/repository"
	"momskitchen/internal/validation"
)

type PostService struct {
	postRepo repository.PostRepository
	newID    func() string
	now      func() time.Time

	// mu keeps a read of one post and the write derived from it together.
	mu sync.Mutex
}

// FeedFilter narrows the feed. Zero values match everything.
type FeedFilter struct {
	Search     string
	CategoryID string
}

func NewPostService(postRepo repository.PostRepository, newID func() string, now func() time.Time) *PostService {
	return &PostService{
		postRepo: postRepo,
		newID:    newID,
		now:      now,
	}
}

// Publish validates draft and stores it as a new post by author. The author
// is copied into the post as it is now.
func (s *PostService) Publish(ctx context.Context, author models.User, draft models.PostDraft) (*models.Post, error) {
	if err := validation.ValidatePostDraft(draft); err != nil {
		return nil, err
	}

	images := make([]string, len(draft.Images))
	copy(images, draft.Images)

	now := s.now()
	post := models.Post{
		ID:          s.newID(),
		AuthorID:    author.ID,
		Author:      author,
		Title:       draft.Title,
		Description: draft.Description,
		Images:      images,
		Recipe:      buildRecipe(draft.Recipe),
		Categories:  models.CategoriesByIDs(draft.CategoryIDs),
		Likes:       []string{},
		Comments:    []models.Comment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.postRepo.Add(ctx, post); err != nil {
		return nil, err
	}
	return &post, nil
}

// buildRecipe keeps a recipe only when at least one ingredient line has text,
// dropping blank ingredient and instruction lines.
func buildRecipe(in *models.Recipe) *models.Recipe {
	if in == nil {
		return nil
	}
	ingredients := nonBlank(in.Ingredients)
	if len(ingredients) == 0 {
		return nil
	}
	return &models.Recipe{
		Ingredients:  ingredients,
		Instructions: nonBlank(in.Instructions),
		PrepTime:     in.PrepTime,
		CookTime:     in.CookTime,
		Servings:     in.Servings,
		Difficulty:   in.Difficulty,
	}
}

func nonBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// Feed lists posts newest-first. Search matches title, description and author
// name without regard to case.
func (s *PostService) Feed(ctx context.Context, f FeedFilter) ([]models.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	query := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Title), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) &&
			!strings.Contains(strings.ToLower(p.Author.Name), query) {
			continue
		}
		if f.CategoryID != "" && !p.HasCategory(f.CategoryID) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *PostService) ByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	return s.postRepo.ListByAuthor(ctx, authorID)
}

// ToggleLike adds userID to the post's likes, or removes it when already present.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	likes := models.ToggleLike(post.Likes, userID)
	if err := s.postRepo.Update(ctx, postID, models.PostPatch{Likes: &likes}); err != nil {
		return nil, err
	}
	post.Likes = likes
	return post, nil
}

// AddComment appends a comment by author to the end of the post's thread.
func (s *PostService) AddComment(ctx context.Context, postID string, author models.User, content string) (*models.Comment, error) {
	text, err := validation.ValidateComment(content)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comment := models.Comment{
		ID:        s.newID(),
		AuthorID:  author.ID,
		Author:    author,
		Content:   text,
		CreatedAt: s.now(),
		Likes:     []string{},
	}
	comments := make([]models.Comment, len(post.Comments), len(post.Comments)+1)
	copy(comments, post.Comments)
	comments = append(comments, comment)
	if err := s.postRepo.Update(ctx, postID, models.PostPatch{Comments: &comments}); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ToggleCommentLike flips userID's like on one comment of a post.
func (s *PostService) ToggleCommentLike(ctx context.Context, postID, commentID, userID string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	idx := post.CommentIndex(commentID)
	if idx < 0 {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	comments := make([]models.Comment, len(post.Comments))
	copy(comments, post.Comments)
	comments[idx].Likes = models.ToggleLike(comments[idx].Likes, userID)
	if err := s.postRepo.Update(ctx, postID, models.PostPatch{Comments: &comments}); err != nil {
		return nil, err
	}
	return &comments[idx], nil
}

// Delete removes a post. Only its author may do so.
func (s *PostService) Delete(ctx context.Context, postID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}
