// Command seed fills a development database with demo accounts, profiles and posts.
package main

import (
	"flag"
	"log"

	"devconnector/internal/config"
	"devconnector/internal/database"
	"devconnector/internal/seed"
)

func main() {
	opts := seed.Options{}
	flag.IntVar(&opts.NumUsers, "users", 25, "Number of users to create")
	flag.IntVar(&opts.NumPosts, "posts", 100, "Number of posts to create")
	flag.IntVar(&opts.MaxExperiences, "max-experience", 3, "Maximum experience entries per profile")
	flag.IntVar(&opts.MaxComments, "max-comments", 5, "Maximum comments per post")
	flag.Float64Var(&opts.LikeRatio, "like-ratio", 0.2, "Chance that a user likes a post")
	flag.IntVar(&opts.MaxDays, "max-days", 90, "Spread post timestamps over this many days")
	flag.BoolVar(&opts.FastHash, "fast-hash", false, "Hash the shared password at minimum bcrypt cost")
	flag.BoolVar(&opts.DryRun, "dry-run", false, "Build entities without writing them")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s, err := seed.NewSeeder(db, opts)
	if err != nil {
		log.Fatalf("Seeder setup failed: %v", err)
	}
	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}
	if _, err := s.Run(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Done. Every seeded account uses the password %q", seed.DefaultPassword)
}
