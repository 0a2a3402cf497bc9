package repository

import (
	"context"

	"momskitchen/internal/kvstore"
	"momskitchen/internal/models"
	"momskitchen/internal/observability"
)

// PostRepository defines persistence operations for posts. The collection is
// kept newest-first.
type PostRepository interface {
	List(ctx context.Context) ([]models.Post, error)
	// Add inserts the post at the head of the collection.
	Add(ctx context.Context, post models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
	// Update merges patch over the post with the given id. An unknown id is a
	// silent no-op and nothing is written.
	Update(ctx context.Context, id string, patch models.PostPatch) error
	Delete(ctx context.Context, id string) error
}

type postRepository struct {
	doc    *document[models.Post]
	logger *observability.RepoLogger
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(store kvstore.Store) PostRepository {
	return &postRepository{
		doc:    &document[models.Post]{store: store, key: KeyPosts},
		logger: observability.NewRepoLogger("posts"),
	}
}

func (r *postRepository) List(ctx context.Context) ([]models.Post, error) {
	return r.doc.load(ctx)
}

func (r *postRepository) Add(ctx context.Context, post models.Post) error {
	r.doc.mu.Lock()
	defer r.doc.mu.Unlock()

	posts, err := r.doc.load(ctx)
	if err != nil {
		r.logger.LogError(ctx, err, "create")
		return err
	}
	posts = append([]models.Post{post}, posts...)
	if err := r.doc.save(ctx, posts); err != nil {
		r.logger.LogError(ctx, err, "create")
		return err
	}
	r.logger.LogCreate(ctx, map[string]interface{}{"post_id": post.ID, "author_id": post.AuthorID})
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	posts, err := r.doc.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].ID == id {
			return &posts[i], nil
		}
	}
	return nil, models.NewNotFoundError("Post", id)
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	posts, err := r.doc.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Post, 0)
	for _, p := range posts {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *postRepository) Update(ctx context.Context, id string, patch models.PostPatch) error {
	r.doc.mu.Lock()
	defer r.doc.mu.Unlock()

	posts, err := r.doc.load(ctx)
	if err != nil {
		r.logger.LogError(ctx, err, "update")
		return err
	}
	for i := range posts {
		if posts[i].ID != id {
			continue
		}
		posts[i] = patch.Apply(posts[i])
		if err := r.doc.save(ctx, posts); err != nil {
			r.logger.LogError(ctx, err, "update")
			return err
		}
		r.logger.LogUpdate(ctx, map[string]interface{}{"post_id": id})
		return nil
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	r.doc.mu.Lock()
	defer r.doc.mu.Unlock()

	posts, err := r.doc.load(ctx)
	if err != nil {
		r.logger.LogError(ctx, err, "delete")
		return err
	}
	kept := posts[:0]
	for _, p := range posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if err := r.doc.save(ctx, kept); err != nil {
		r.logger.LogError(ctx, err, "delete")
		return err
	}
	r.logger.LogDelete(ctx, map[string]interface{}{"post_id": id})
	return nil
}
