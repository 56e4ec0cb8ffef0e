package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"platebook/api/middleware"
	"platebook/api/routes"
	"platebook/config"
	"platebook/db"
	"platebook/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	err := config.LoadConfig(configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	log.Println("Starting server...")

	if err := db.ConnectDB(); err != nil {
		panic("Failed to connect to the database: " + err.Error())
	}

	// Redis и RabbitMQ опциональны: без них работаем напрямую из БД
	if err := services.InitRedis(); err != nil {
		log.Printf("Warning: Redis initialization failed: %v", err)
	}
	defer services.CloseRedis()

	if err := services.InitRabbitMQ(); err != nil {
		log.Printf("Warning: RabbitMQ initialization failed: %v", err)
	} else {
		defer services.CloseRabbitMQ()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := services.StartEngagementConsumer(ctx, "engagement_counters"); err != nil {
			log.Printf("Warning: failed to start engagement consumer: %v", err)
		}
	}

	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.PrometheusMiddleware("platebook"))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	routes.PublicApi(router)

	addr := ":8080"
	if config.AppConfig.Backend.Port != 0 {
		addr = fmt.Sprintf("%s:%d", config.AppConfig.Backend.Host, config.AppConfig.Backend.Port)
	}
	if err := router.Run(addr); err != nil {
		panic(err)
	}
}
