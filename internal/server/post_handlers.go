package server

import (
	"momskitchen/internal/models"
	"momskitchen/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CommentRequest struct {
	Content string `json:"content"`
}

// ListCategories returns the fixed category catalog.
func (s *Server) ListCategories(c *fiber.Ctx) error {
	return c.JSON(models.Categories())
}

// ListPosts returns the feed, optionally filtered by ?search= and ?category=.
func (s *Server) ListPosts(c *fiber.Ctx) error {
	posts, err := s.postService.Feed(c.UserContext(), service.FeedFilter{
		Search:     c.Query("search"),
		CategoryID: c.Query("category"),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(posts)
}

func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}

// CreatePost publishes a draft as the signed-in user.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var draft models.PostDraft
	if err := c.BodyParser(&draft); err != nil {
		return respondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}
	post, err := s.postService.Publish(c.UserContext(), *currentUser(c), draft)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (s *Server) DeletePost(c *fiber.Ctx) error {
	if err := s.postService.Delete(c.UserContext(), c.Params("id"), currentUser(c).ID); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) ToggleLike(c *fiber.Ctx) error {
	post, err := s.postService.ToggleLike(c.UserContext(), c.Params("id"), currentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"liked": models.HasLike(post.Likes, currentUser(c).ID),
		"likes": post.Likes,
	})
}

func (s *Server) AddComment(c *fiber.Ctx) error {
	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}
	comment, err := s.postService.AddComment(c.UserContext(), c.Params("id"), *currentUser(c), req.Content)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (s *Server) ToggleCommentLike(c *fiber.Ctx) error {
	comment, err := s.postService.ToggleCommentLike(c.UserContext(), c.Params("id"), c.Params("commentId"), currentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(comment)
}

// ListUserPosts returns the posts written by one user, newest first.
func (s *Server) ListUserPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ByAuthor(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(posts)
}
