package repository

import (
	"context"

	"momskitchen/internal/kvstore"
	"momskitchen/internal/models"
	"momskitchen/internal/observability"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	// Add appends the user at the tail of the collection.
	Add(ctx context.Context, user models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail matches the email exactly, case included.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Update merges patch over the user with the given id. An unknown id is a
	// silent no-op and nothing is written.
	Update(ctx context.Context, id string, patch models.UserPatch) error
}

type userRepository struct {
	doc    *document[models.User]
	logger *observability.RepoLogger
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(store kvstore.Store) UserRepository {
	return &userRepository{
		doc:    &document[models.User]{store: store, key: KeyUsers},
		logger: observability.NewRepoLogger("users"),
	}
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	return r.doc.load(ctx)
}

func (r *userRepository) Add(ctx context.Context, user models.User) error {
	r.doc.mu.Lock()
	defer r.doc.mu.Unlock()

	users, err := r.doc.load(ctx)
	if err != nil {
		r.logger.LogError(ctx, err, "create")
		return err
	}
	users = append(users, user)
	if err := r.doc.save(ctx, users); err != nil {
		r.logger.LogError(ctx, err, "create")
		return err
	}
	r.logger.LogCreate(ctx, map[string]interface{}{"user_id": user.ID})
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.find(ctx, "User", id, func(u *models.User) bool { return u.ID == id })
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(ctx, "User with email", email, func(u *models.User) bool { return u.Email == email })
}

func (r *userRepository) find(ctx context.Context, resource, id string, match func(*models.User) bool) (*models.User, error) {
	users, err := r.doc.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if match(&users[i]) {
			return &users[i], nil
		}
	}
	return nil, models.NewNotFoundError(resource, id)
}

func (r *userRepository) Update(ctx context.Context, id string, patch models.UserPatch) error {
	r.doc.mu.Lock()
	defer r.doc.mu.Unlock()

	users, err := r.doc.load(ctx)
	if err != nil {
		r.logger.LogError(ctx, err, "update")
		return err
	}
	for i := range users {
		if users[i].ID != id {
			continue
		}
		users[i] = patch.Apply(users[i])
		if err := r.doc.save(ctx, users); err != nil {
			r.logger.LogError(ctx, err, "update")
			return err
		}
		r.logger.LogUpdate(ctx, map[string]interface{}{"user_id": id})
		return nil
	}
	return nil
}
