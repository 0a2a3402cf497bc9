package seed

import (
	"context"
	"fmt"
	"time"

	"momskitchen/internal/models"
	"momskitchen/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
)

// Factory builds fake community members and posts for load and demo runs.
type Factory struct {
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewFactory returns a Factory. The same seed yields the same data.
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed), now: time.Now}
}

// User builds a member who joined within the last year.
func (f *Factory) User() models.User {
	now := f.now().UTC()
	return models.User{
		ID:         f.faker.UUID(),
		Email:      f.faker.Email(),
		Name:       f.faker.Name(),
		Avatar:     fmt.Sprintf("https://picsum.photos/seed/%s/200/200", f.faker.UUID()),
		Bio:        f.faker.Sentence(10),
		JoinedDate: f.faker.DateRange(now.AddDate(-1, 0, 0), now).UTC().Truncate(time.Millisecond),
		Location:   f.faker.City(),
	}
}

// Post builds a post by author with a recipe and one to three categories.
func (f *Factory) Post(author models.User) models.Post {
	created := f.faker.DateRange(author.JoinedDate, f.now().UTC()).UTC().Truncate(time.Millisecond)
	dish := f.dish()

	ingredients := make([]string, f.faker.Number(3, 8))
	for i := range ingredients {
		ingredients[i] = fmt.Sprintf("%d cups %s", f.faker.Number(1, 4), f.faker.Vegetable())
	}
	instructions := make([]string, f.faker.Number(2, 6))
	for i := range instructions {
		instructions[i] = f.faker.Sentence(6)
	}
	prep, cook, servings := f.faker.Number(5, 45), f.faker.Number(0, 90), f.faker.Number(1, 8)

	catalog := models.Categories()
	f.faker.ShuffleAnySlice(catalog)
	categories := catalog[:f.faker.Number(1, 3)]

	images := make([]string, f.faker.Number(0, models.MaxPostImages))
	for i := range images {
		images[i] = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", f.faker.UUID())
	}

	return models.Post{
		ID:          f.faker.UUID(),
		AuthorID:    author.ID,
		Author:      author,
		Title:       dish,
		Description: f.faker.Paragraph(1, 2, 12, " "),
		Images:      images,
		Recipe: &models.Recipe{
			Ingredients:  ingredients,
			Instructions: instructions,
			PrepTime:     &prep,
			CookTime:     &cook,
			Servings:     &servings,
			Difficulty: models.Difficulty(f.faker.RandomString([]string{
				string(models.DifficultyEasy), string(models.DifficultyMedium), string(models.DifficultyHard),
			})),
		},
		Categories: models.CategoriesByIDs(categoryIDs(categories)),
		Likes:      []string{},
		Comments:   []models.Comment{},
		CreatedAt:  created,
		UpdatedAt:  created,
	}
}

func (f *Factory) dish() string {
	switch f.faker.Number(0, 4) {
	case 0:
		return f.faker.Breakfast()
	case 1:
		return f.faker.Lunch()
	case 2:
		return f.faker.Dinner()
	case 3:
		return f.faker.Snack()
	default:
		return f.faker.Dessert()
	}
}

// Populate adds numUsers fake members and numPosts posts spread across them.
func (f *Factory) Populate(ctx context.Context, users repository.UserRepository, posts repository.PostRepository, numUsers, numPosts int) error {
	if numUsers <= 0 {
		return nil
	}
	members := make([]models.User, numUsers)
	for i := range members {
		members[i] = f.User()
		if err := users.Add(ctx, members[i]); err != nil {
			return fmt.Errorf("add fake user: %w", err)
		}
	}
	for i := 0; i < numPosts; i++ {
		author := members[f.faker.Number(0, numUsers-1)]
		if err := posts.Add(ctx, f.Post(author)); err != nil {
			return fmt.Errorf("add fake post: %w", err)
		}
	}
	return nil
}

func categoryIDs(cs []models.Category) []string {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	return ids
}
