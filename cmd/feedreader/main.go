package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"platebook/client"
	"syscall"
	"time"
)

// feedreader - терминальный клиент дискавери-ленты: имитирует бесконечный
// скролл через FeedConsumer, пока лента не истощится

type Config struct {
	BaseURL   string
	UserID    int64
	BatchSize int
	Interval  time.Duration
	LikeProb  float64
}

func parseFlags() Config {
	config := Config{}

	flag.StringVar(&config.BaseURL, "url", "http://localhost:8080", "API base URL")
	flag.Int64Var(&config.UserID, "user", 1, "Viewer user ID")
	flag.IntVar(&config.BatchSize, "batch", 5, "Feed sample batch size")
	flag.DurationVar(&config.Interval, "interval", 2*time.Second, "Delay between scroll triggers")
	flag.Float64Var(&config.LikeProb, "like-prob", 0.2, "Probability of liking a freshly shown post")

	flag.Parse()
	return config
}

func main() {
	config := parseFlags()

	log.Printf("Starting feed reader with config: %+v", config)

	api := client.NewAPIClient(config.BaseURL, config.UserID)
	consumer := client.NewFeedConsumer(api, config.BatchSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	ticker := time.NewTicker(config.Interval)
	defer ticker.Stop()

	shown := 0
	for {
		select {
		case <-ctx.Done():
			consumer.Reset()
			log.Printf("Session closed, %d posts shown", shown)
			return
		case <-ticker.C:
			if err := consumer.OnScrollNearBottom(ctx); err != nil {
				log.Printf("Load failed, will retry on next trigger: %v", err)
				continue
			}

			posts := consumer.Posts()
			for _, p := range posts[shown:] {
				fmt.Printf("#%d by %s (%d likes, %d comments): %.80s\n",
					p.ID, p.AuthorName, p.LikeCount, len(p.Comments), p.Content)

				if rand.Float64() < config.LikeProb {
					result, err := api.ToggleLike(ctx, p.ID)
					if err != nil {
						log.Printf("Failed to like post %d: %v", p.ID, err)
						continue
					}
					// Локальный мердж вместо перезагрузки ленты
					consumer.ApplyLike(p.ID, result.Liked, result.LikeCount)
					fmt.Printf("  liked=%v, likes=%d\n", result.Liked, result.LikeCount)
				}
			}
			shown = len(posts)

			if consumer.State() == client.StateExhausted {
				log.Printf("Feed exhausted after %d posts (%d excluded), stopping triggers", shown, consumer.SeenCount())
				return
			}
		}
	}
}
