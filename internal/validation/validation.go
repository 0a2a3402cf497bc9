// Package validation holds the input rules applied before a submission
// reaches the session manager or the post service.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"momskitchen/internal/models"
)

const (
	MinPasswordLength = 6
	MaxBioLength      = 200
)

// ValidateRegistration checks a sign-up form.
func ValidateRegistration(email, password, confirm, name string) error {
	if strings.TrimSpace(name) == "" {
		return models.NewValidationError("Name is required")
	}
	if strings.TrimSpace(email) == "" {
		return models.NewValidationError("Email is required")
	}
	if password != confirm {
		return models.NewValidationError("Passwords do not match")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return models.NewValidationError(fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	return nil
}

// ValidateLogin checks that both credentials were supplied.
func ValidateLogin(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return models.NewValidationError("Email and password are required")
	}
	return nil
}

// ValidateComment returns the trimmed content when it is acceptable.
func ValidateComment(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", models.NewValidationError("Comment cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > models.MaxCommentLength {
		return "", models.NewValidationError(fmt.Sprintf("Comment too long (max %d characters)", models.MaxCommentLength))
	}
	return trimmed, nil
}

// ValidateProfile checks the fields present in a profile patch.
func ValidateProfile(patch models.UserPatch) error {
	if patch.IsEmpty() {
		return models.NewValidationError("No profile fields to update")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return models.NewValidationError("Name cannot be empty")
	}
	if patch.Email != nil && strings.TrimSpace(*patch.Email) == "" {
		return models.NewValidationError("Email cannot be empty")
	}
	if patch.Bio != nil && utf8.RuneCountInString(*patch.Bio) > MaxBioLength {
		return models.NewValidationError(fmt.Sprintf("Bio too long (max %d characters)", MaxBioLength))
	}
	return nil
}

// ValidatePostDraft checks a draft before it is published.
func ValidatePostDraft(d models.PostDraft) error {
	if strings.TrimSpace(d.Title) == "" {
		return models.NewValidationError("Title is required")
	}
	if strings.TrimSpace(d.Description) == "" {
		return models.NewValidationError("Description is required")
	}
	if len(d.CategoryIDs) == 0 {
		return models.NewValidationError("Select at least one category")
	}
	for _, id := range d.CategoryIDs {
		if _, ok := models.CategoryByID(id); !ok {
			return models.NewValidationError(fmt.Sprintf("Unknown category %q", id))
		}
	}
	if len(d.Images) > models.MaxPostImages {
		return models.NewValidationError(fmt.Sprintf("At most %d images per post", models.MaxPostImages))
	}
	for _, img := range d.Images {
		if strings.TrimSpace(img) == "" {
			return models.NewValidationError("Image URL cannot be empty")
		}
	}
	if d.Recipe != nil {
		if !d.Recipe.Difficulty.Valid() {
			return models.NewValidationError(fmt.Sprintf("Unknown difficulty %q", d.Recipe.Difficulty))
		}
		for _, v := range []*int{d.Recipe.PrepTime, d.Recipe.CookTime, d.Recipe.Servings} {
			if v != nil && *v < 0 {
				return models.NewValidationError("Recipe times and servings cannot be negative")
			}
		}
	}
	return nil
}
