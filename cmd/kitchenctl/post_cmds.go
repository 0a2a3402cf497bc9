package main

import (
	"fmt"
	"text/tabwriter"

	"momskitchen/internal/models"
	"momskitchen/internal/service"

	"github.com/spf13/cobra"
)

func newPostsCmd(k *kitchen) *cobra.Command {
	var filter service.FeedFilter
	var author string
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List the feed, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				posts []models.Post
				err   error
			)
			if author != "" {
				posts, err = k.feed.ByAuthor(cmd.Context(), author)
			} else {
				posts, err = k.feed.Feed(cmd.Context(), filter)
			}
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tLIKES\tCOMMENTS")
			for _, p := range posts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", p.ID, p.Title, p.Author.Name, len(p.Likes), len(p.Comments))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&filter.Search, "search", "", "Match title, description or author name")
	cmd.Flags().StringVar(&filter.CategoryID, "category", "", "Only posts in this category id")
	cmd.Flags().StringVar(&author, "author", "", "Only posts by this user id")

	cmd.AddCommand(newLikeCmd(k), newCommentCmd(k))
	return cmd
}

func newLikeCmd(k *kitchen) *cobra.Command {
	return &cobra.Command{
		Use:   "like <post-id>",
		Short: "Like or unlike a post as the signed-in user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user := k.session.CurrentUser()
			if user == nil {
				return models.NewNotLoggedInError()
			}
			post, err := k.feed.ToggleLike(cmd.Context(), args[0], user.ID)
			if err != nil {
				return err
			}
			verb := "Unliked"
			if models.HasLike(post.Likes, user.ID) {
				verb = "Liked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %q (%d likes)\n", verb, post.Title, len(post.Likes))
			return nil
		},
	}
}

func newCommentCmd(k *kitchen) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <post-id> <text>",
		Short: "Comment on a post as the signed-in user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user := k.session.CurrentUser()
			if user == nil {
				return models.NewNotLoggedInError()
			}
			comment, err := k.feed.AddComment(cmd.Context(), args[0], *user, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Comment %s added\n", comment.ID)
			return nil
		},
	}
}

func newCategoriesCmd(k *kitchen) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List post categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCOLOR")
			for _, c := range models.Categories() {
				fmt.Fprintf(w, "%s\t%s %s\t%s\n", c.ID, c.Icon, c.Name, c.Color)
			}
			return w.Flush()
		},
	}
}
