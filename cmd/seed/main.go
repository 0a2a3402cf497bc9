// Command main fills the configured storage backend with sample data.
package main

import (
	"context"
	"flag"
	"log"

	"momskitchen/internal/config"
	"momskitchen/internal/kvstore"
	"momskitchen/internal/repository"
	"momskitchen/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 0, "Number of generated users to add on top of the sample data")
	numPosts := flag.Int("posts", 0, "Number of generated posts to add")
	randSeed := flag.Int64("seed", 1, "Random seed for generated data")
	shouldClean := flag.Bool("clean", false, "Remove all stored collections before seeding")
	flag.Parse()

	log.Println("🌱 Kitchen Seeder")
	log.Println("=================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	store, err := kvstore.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer func() {
		if err := kvstore.Close(store); err != nil {
			log.Printf("Failed to close storage: %v", err)
		}
	}()

	if *shouldClean {
		for _, key := range []string{repository.KeyAuth, repository.KeyPosts, repository.KeyUsers, repository.KeyCurrentUser} {
			if err := store.Remove(ctx, key); err != nil {
				log.Fatalf("❌ Cleanup failed: %v", err)
			}
		}
		log.Printf("Cleared %s backend", cfg.StorageBackend)
	}

	users := repository.NewUserRepository(store)
	posts := repository.NewPostRepository(store)

	if err := seed.InitializeSampleData(ctx, users, posts); err != nil {
		log.Fatalf("❌ Sample data failed: %v", err)
	}

	if *numUsers > 0 {
		f := seed.NewFactory(*randSeed)
		if err := f.Populate(ctx, users, posts, *numUsers, *numPosts); err != nil {
			log.Fatalf("❌ Generated data failed: %v", err)
		}
		log.Printf("Generated %d users and %d posts", *numUsers, *numPosts)
	}

	log.Println("✨ All done! Sample accounts accept any password.")
}
