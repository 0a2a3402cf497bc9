// Package seed loads the demo community into empty collections.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"momskitchen/internal/models"
	"momskitchen/internal/repository"

	"gopkg.in/yaml.v3"
)

//go:embed sample_data.yml
var sampleData []byte

type sampleFile struct {
	Users []sampleUser `yaml:"users"`
	Posts []samplePost `yaml:"posts"`
}

type sampleUser struct {
	ID         string `yaml:"id"`
	Email      string `yaml:"email"`
	Name       string `yaml:"name"`
	Avatar     string `yaml:"avatar"`
	Bio        string `yaml:"bio"`
	JoinedDate string `yaml:"joined_date"`
	Location   string `yaml:"location"`
}

type sampleRecipe struct {
	Ingredients  []string `yaml:"ingredients"`
	Instructions []string `yaml:"instructions"`
	PrepTime     *int     `yaml:"prep_time"`
	CookTime     *int     `yaml:"cook_time"`
	Servings     *int     `yaml:"servings"`
	Difficulty   string   `yaml:"difficulty"`
}

type sampleComment struct {
	ID        string   `yaml:"id"`
	Author    string   `yaml:"author"`
	Content   string   `yaml:"content"`
	CreatedAt string   `yaml:"created_at"`
	Likes     []string `yaml:"likes"`
}

type samplePost struct {
	ID          string          `yaml:"id"`
	Author      string          `yaml:"author"`
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Images      []string        `yaml:"images"`
	Recipe      *sampleRecipe   `yaml:"recipe"`
	Categories  []string        `yaml:"categories"`
	Likes       []string        `yaml:"likes"`
	Comments    []sampleComment `yaml:"comments"`
	CreatedAt   string          `yaml:"created_at"`
}

// Sample returns the demo users and posts in file order. Authors are resolved
// into full snapshots.
func Sample() ([]models.User, []models.Post, error) {
	var f sampleFile
	if err := yaml.Unmarshal(sampleData, &f); err != nil {
		return nil, nil, fmt.Errorf("parse sample data: %w", err)
	}

	users := make([]models.User, 0, len(f.Users))
	byID := make(map[string]models.User, len(f.Users))
	for _, su := range f.Users {
		joined, err := parseTime(su.JoinedDate)
		if err != nil {
			return nil, nil, fmt.Errorf("user %s: %w", su.ID, err)
		}
		u := models.User{
			ID:         su.ID,
			Email:      su.Email,
			Name:       su.Name,
			Avatar:     su.Avatar,
			Bio:        su.Bio,
			JoinedDate: joined,
			Location:   su.Location,
		}
		users = append(users, u)
		byID[u.ID] = u
	}

	posts := make([]models.Post, 0, len(f.Posts))
	for _, sp := range f.Posts {
		p, err := sp.toPost(byID)
		if err != nil {
			return nil, nil, fmt.Errorf("post %s: %w", sp.ID, err)
		}
		posts = append(posts, p)
	}
	return users, posts, nil
}

func (sp samplePost) toPost(users map[string]models.User) (models.Post, error) {
	author, ok := users[sp.Author]
	if !ok {
		return models.Post{}, fmt.Errorf("unknown author %q", sp.Author)
	}
	created, err := parseTime(sp.CreatedAt)
	if err != nil {
		return models.Post{}, err
	}

	post := models.Post{
		ID:          sp.ID,
		AuthorID:    author.ID,
		Author:      author,
		Title:       sp.Title,
		Description: sp.Description,
		Images:      nonNil(sp.Images),
		Categories:  models.CategoriesByIDs(sp.Categories),
		Likes:       nonNil(sp.Likes),
		Comments:    make([]models.Comment, 0, len(sp.Comments)),
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	if sp.Recipe != nil {
		post.Recipe = &models.Recipe{
			Ingredients:  sp.Recipe.Ingredients,
			Instructions: sp.Recipe.Instructions,
			PrepTime:     sp.Recipe.PrepTime,
			CookTime:     sp.Recipe.CookTime,
			Servings:     sp.Recipe.Servings,
			Difficulty:   models.Difficulty(sp.Recipe.Difficulty),
		}
	}
	for _, sc := range sp.Comments {
		commenter, ok := users[sc.Author]
		if !ok {
			return models.Post{}, fmt.Errorf("comment %s: unknown author %q", sc.ID, sc.Author)
		}
		at, err := parseTime(sc.CreatedAt)
		if err != nil {
			return models.Post{}, fmt.Errorf("comment %s: %w", sc.ID, err)
		}
		post.Comments = append(post.Comments, models.Comment{
			ID:        sc.ID,
			AuthorID:  commenter.ID,
			Author:    commenter,
			Content:   sc.Content,
			CreatedAt: at,
			Likes:     nonNil(sc.Likes),
		})
	}
	return post, nil
}

// InitializeSampleData fills each collection with the demo records, but only
// when that collection is empty.
func InitializeSampleData(ctx context.Context, users repository.UserRepository, posts repository.PostRepository) error {
	sampleUsers, samplePosts, err := Sample()
	if err != nil {
		return err
	}

	existingUsers, err := users.List(ctx)
	if err != nil {
		return err
	}
	if len(existingUsers) == 0 {
		for _, u := range sampleUsers {
			if err := users.Add(ctx, u); err != nil {
				return fmt.Errorf("seed user %s: %w", u.ID, err)
			}
		}
	}

	existingPosts, err := posts.List(ctx)
	if err != nil {
		return err
	}
	if len(existingPosts) == 0 {
		for _, p := range samplePosts {
			if err := posts.Add(ctx, p); err != nil {
				return fmt.Errorf("seed post %s: %w", p.ID, err)
			}
		}
	}
	return nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
