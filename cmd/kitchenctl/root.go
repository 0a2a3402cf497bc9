package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"momskitchen/internal/config"
	"momskitchen/internal/kvstore"
	"momskitchen/internal/observability"
	"momskitchen/internal/repository"
	"momskitchen/internal/seed"
	"momskitchen/internal/service"
	"momskitchen/internal/session"

	"github.com/spf13/cobra"
)

type (
	openFunc   func(ctx context.Context, cfg *config.Config) (kvstore.Store, error)
	configFunc func() (*config.Config, error)
)

// kitchen is what every subcommand works on. It is built in the root's
// PersistentPreRunE and torn down in PersistentPostRunE.
type kitchen struct {
	cfg     *config.Config
	store   kvstore.Store
	users   repository.UserRepository
	posts   repository.PostRepository
	session *session.Manager
	feed    *service.PostService
}

func newRootCmd(open openFunc, loadConfig configFunc) *cobra.Command {
	k := &kitchen{}
	var backend string

	rootCmd := &cobra.Command{
		Use:           "kitchenctl",
		Short:         "Manage the Mom's Kitchen session and feed from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if backend != "" {
				cfg.StorageBackend = backend
			}
			observability.SetGlobalLogger(observability.NewLogger(os.Stderr, cfg.Env, cfg.LogLevel))

			store, err := open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			k.cfg = cfg
			k.store = store
			k.users = repository.NewUserRepository(store)
			k.posts = repository.NewPostRepository(store)

			if cfg.SeedSampleData {
				if err := seed.InitializeSampleData(cmd.Context(), k.users, k.posts); err != nil {
					return err
				}
			}
			k.session, err = session.NewManager(cmd.Context(), repository.NewAuthRepository(store), k.users,
				session.WithDefaultAvatar(cfg.DefaultAvatarURL))
			if err != nil {
				return err
			}
			k.feed = service.NewPostService(k.posts, session.NewID, session.Now)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return kvstore.Close(k.store)
		},
	}
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Override STORAGE_BACKEND (memory, redis, sqlite, postgres, none)")

	rootCmd.AddCommand(
		newRegisterCmd(k),
		newLoginCmd(k),
		newLogoutCmd(k),
		newWhoamiCmd(k),
		newProfileCmd(k),
		newPostsCmd(k),
		newCategoriesCmd(k),
	)
	return rootCmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
