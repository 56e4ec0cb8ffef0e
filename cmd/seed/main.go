package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"platebook/client"
	"platebook/models"

	"github.com/brianvoe/gofakeit/v6"
)

// seed наполняет окружение фейковыми пользователями, рецептами
// и вовлеченностью через публичный API

type Config struct {
	BaseURL  string
	Users    int
	Posts    int
	Comments int
	Likes    int
}

func parseFlags() Config {
	config := Config{}

	flag.StringVar(&config.BaseURL, "url", "http://localhost:8080", "API base URL")
	flag.IntVar(&config.Users, "users", 20, "Number of users to create")
	flag.IntVar(&config.Posts, "posts", 100, "Number of recipe posts to create")
	flag.IntVar(&config.Comments, "comments", 150, "Number of comments to add")
	flag.IntVar(&config.Likes, "likes", 300, "Number of like toggles to perform")

	flag.Parse()
	return config
}

func fakeRecipe() string {
	return fmt.Sprintf("%s: %s. %s", gofakeit.Dinner(), gofakeit.Sentence(12), gofakeit.Phrase())
}

func main() {
	config := parseFlags()
	ctx := context.Background()

	log.Printf("Seeding %s: %d users, %d posts, %d comments, %d likes",
		config.BaseURL, config.Users, config.Posts, config.Comments, config.Likes)

	anon := client.NewAPIClient(config.BaseURL, 0)

	users := make([]*models.User, 0, config.Users)
	for i := 0; i < config.Users; i++ {
		nickname := fmt.Sprintf("%s_%d", gofakeit.Username(), gofakeit.Number(1000, 9999))
		user, err := anon.Register(ctx, nickname, gofakeit.Name(), gofakeit.ImageURL(128, 128), gofakeit.Password(true, true, true, false, false, 12))
		if err != nil {
			log.Printf("Failed to register user: %v", err)
			continue
		}
		users = append(users, user)
	}
	if len(users) == 0 {
		log.Fatal("No users created, aborting")
	}

	posts := make([]*models.Post, 0, config.Posts)
	for i := 0; i < config.Posts; i++ {
		owner := users[rand.Intn(len(users))]
		api := client.NewAPIClient(config.BaseURL, owner.ID)
		post, err := api.CreatePost(ctx, fakeRecipe())
		if err != nil {
			log.Printf("Failed to create post: %v", err)
			continue
		}
		posts = append(posts, post)
	}
	if len(posts) == 0 {
		log.Fatal("No posts created, aborting")
	}

	for i := 0; i < config.Comments; i++ {
		author := users[rand.Intn(len(users))]
		post := posts[rand.Intn(len(posts))]
		api := client.NewAPIClient(config.BaseURL, author.ID)
		if _, err := api.AddComment(ctx, post.ID, gofakeit.Sentence(10)); err != nil {
			log.Printf("Failed to add comment: %v", err)
		}
	}

	for i := 0; i < config.Likes; i++ {
		actor := users[rand.Intn(len(users))]
		post := posts[rand.Intn(len(posts))]
		api := client.NewAPIClient(config.BaseURL, actor.ID)
		if _, err := api.ToggleLike(ctx, post.ID); err != nil {
			log.Printf("Failed to toggle like: %v", err)
		}
	}

	log.Printf("Seed complete: %d users, %d posts", len(users), len(posts))
}
