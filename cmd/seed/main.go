// Command seed fills a development database with generated users and posts.
package main

import (
	"flag"
	"log"

	"imageboard/internal/config"
	"imageboard/internal/database"
	"imageboard/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "number of users to create")
	numPosts := flag.Int("posts", 50, "number of posts to create")
	maxDays := flag.Int("max-days", 90, "spread pub_date over this many past days")
	clean := flag.Bool("clean", false, "truncate existing data first")
	fast := flag.Bool("fast", false, "skip bcrypt hashing for faster seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Env == "production" {
		log.Fatal("refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}

	err = seed.Seed(db, seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		MaxDays:     *maxDays,
		ShouldClean: *clean,
		SkipBcrypt:  *fast,
		MediaRoot:   cfg.MediaRoot,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
