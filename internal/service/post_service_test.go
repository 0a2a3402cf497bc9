package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"momskitchen/internal/kvstore"
	"momskitchen/internal/models"
	"momskitchen/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ann = models.User{ID: "u1", Email: "ann@x.com", Name: "Ann Baker"}
	bob = models.User{ID: "u2", Email: "bob@x.com", Name: "Bob Stew"}
)

func newTestService() (*PostService, repository.PostRepository) {
	repo := repository.NewPostRepository(kvstore.NewMemory())
	seq := 0
	clock := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := NewPostService(repo,
		func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
		func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		},
	)
	return svc, repo
}

func draft(title string, categories ...string) models.PostDraft {
	return models.PostDraft{Title: title, Description: title + " description", CategoryIDs: categories}
}

func TestPostService_Publish(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()

	servings := 4
	d := draft("Pancakes", "7", "1")
	d.Images = []string{"https://img.example.com/p.jpg"}
	d.Recipe = &models.Recipe{
		Ingredients:  []string{"flour", "  ", "eggs", ""},
		Instructions: []string{"mix", "", "fry"},
		Servings:     &servings,
		Difficulty:   models.DifficultyEasy,
	}

	post, err := svc.Publish(ctx, ann, d)
	require.NoError(t, err)
	assert.Equal(t, "id-1", post.ID)
	assert.Equal(t, "u1", post.AuthorID)
	assert.Equal(t, ann, post.Author)
	assert.Equal(t, post.CreatedAt, post.UpdatedAt)
	assert.Empty(t, post.Likes)
	assert.Empty(t, post.Comments)

	require.NotNil(t, post.Recipe)
	assert.Equal(t, []string{"flour", "eggs"}, post.Recipe.Ingredients)
	assert.Equal(t, []string{"mix", "fry"}, post.Recipe.Instructions)
	assert.Equal(t, 4, *post.Recipe.Servings)

	require.Len(t, post.Categories, 2)
	assert.Equal(t, "Breakfast", post.Categories[0].Name, "catalog order is kept")
	assert.Equal(t, "Healthy", post.Categories[1].Name)

	stored, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Title, stored.Title)
}

func TestPostService_PublishDropsEmptyRecipe(t *testing.T) {
	svc, _ := newTestService()
	d := draft("Toast", "1")
	d.Recipe = &models.Recipe{Ingredients: []string{" ", ""}, Instructions: []string{"toast it"}}

	post, err := svc.Publish(context.Background(), ann, d)
	require.NoError(t, err)
	assert.Nil(t, post.Recipe)
}

func TestPostService_PublishRejectsInvalidDraft(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Publish(context.Background(), ann, draft("", "1"))
	assert.True(t, models.IsCode(err, models.CodeValidation))

	posts, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostService_Feed(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Publish(ctx, ann, draft("Blueberry Pancakes", "1"))
	require.NoError(t, err)
	_, err = svc.Publish(ctx, bob, draft("Beef Stew", "3"))
	require.NoError(t, err)
	_, err = svc.Publish(ctx, ann, draft("Green Smoothie", "6", "7"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter FeedFilter
		want   []string
	}{
		{"all newest first", FeedFilter{}, []string{"Green Smoothie", "Beef Stew", "Blueberry Pancakes"}},
		{"title case-insensitive", FeedFilter{Search: "PANCAKE"}, []string{"Blueberry Pancakes"}},
		{"author name", FeedFilter{Search: "stew"}, []string{"Beef Stew"}},
		{"author only", FeedFilter{Search: "baker"}, []string{"Green Smoothie", "Blueberry Pancakes"}},
		{"description", FeedFilter{Search: "smoothie description"}, []string{"Green Smoothie"}},
		{"category", FeedFilter{CategoryID: "7"}, []string{"Green Smoothie"}},
		{"search and category", FeedFilter{Search: "ann", CategoryID: "3"}, []string{}},
		{"no match", FeedFilter{Search: "sushi"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := svc.Feed(ctx, tt.filter)
			require.NoError(t, err)
			titles := make([]string, 0, len(posts))
			for _, p := range posts {
				titles = append(titles, p.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestPostService_ByAuthor(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	_, err := svc.Publish(ctx, ann, draft("A", "1"))
	require.NoError(t, err)
	_, err = svc.Publish(ctx, bob, draft("B", "1"))
	require.NoError(t, err)

	posts, err := svc.ByAuthor(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "B", posts[0].Title)
}

func TestPostService_ToggleLikeTwiceRestores(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	post, err := svc.Publish(ctx, ann, draft("Soup", "3"))
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, post.ID, "u3")
	require.NoError(t, err)
	original, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)

	liked, err := svc.ToggleLike(ctx, post.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, []string{"u3", "u2"}, liked.Likes)

	unliked, err := svc.ToggleLike(ctx, post.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, original.Likes, unliked.Likes)
	assert.Len(t, unliked.Likes, len(original.Likes))

	_, err = svc.ToggleLike(ctx, "missing", "u2")
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestPostService_Comments(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	post, err := svc.Publish(ctx, ann, draft("Soup", "3"))
	require.NoError(t, err)

	first, err := svc.AddComment(ctx, post.ID, bob, "  Yum!  ")
	require.NoError(t, err)
	assert.Equal(t, "Yum!", first.Content)
	assert.Equal(t, bob, first.Author)
	assert.Empty(t, first.Likes)

	second, err := svc.AddComment(ctx, post.ID, ann, "Thanks")
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, stored.Comments, 2)
	assert.Equal(t, first.ID, stored.Comments[0].ID, "comments are appended")
	assert.Equal(t, second.ID, stored.Comments[1].ID)

	liked, err := svc.ToggleCommentLike(ctx, post.ID, first.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, liked.Likes)
	unliked, err := svc.ToggleCommentLike(ctx, post.ID, first.ID, "u1")
	require.NoError(t, err)
	assert.Empty(t, unliked.Likes)

	_, err = svc.ToggleCommentLike(ctx, post.ID, "nope", "u1")
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	_, err = svc.AddComment(ctx, post.ID, bob, "   ")
	assert.True(t, models.IsCode(err, models.CodeValidation))

	_, err = svc.AddComment(ctx, "missing", bob, "hi")
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestPostService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	post, err := svc.Publish(ctx, ann, draft("Soup", "3"))
	require.NoError(t, err)

	err = svc.Delete(ctx, post.ID, bob.ID)
	assert.True(t, models.IsCode(err, models.CodeForbidden))

	require.NoError(t, svc.Delete(ctx, post.ID, ann.ID))
	posts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)

	err = svc.Delete(ctx, post.ID, ann.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	repository.PostRepository
	addFn func(context.Context, models.Post) error
}

func (s *postRepoStub) Add(ctx context.Context, post models.Post) error {
	return s.addFn(ctx, post)
}

func TestPostService_PublishStorageError(t *testing.T) {
	boom := errors.New("write failed")
	svc := NewPostService(&postRepoStub{addFn: func(context.Context, models.Post) error { return boom }},
		func() string { return "x" }, time.Now)

	_, err := svc.Publish(context.Background(), ann, draft("Soup", "3"))
	assert.ErrorIs(t, err, boom)
}
