package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"linkup/database"
	"linkup/handlers"
	"linkup/routes"
	"linkup/services"
	"linkup/store"
	"linkup/websocket"
)

func main() {
	log.Println("Starting Linkup backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Connect to MongoDB with retry.
	var st *store.MongoStore
	var dbErr error
	for i := 1; i <= 3; i++ {
		st, dbErr = database.Connect()
		if dbErr != nil {
			log.Printf("MongoDB connection attempt %d failed: %v", i, dbErr)
			time.Sleep(2 * time.Second)
			continue
		}
		break
	}
	if dbErr != nil {
		log.Fatal("Failed to connect to MongoDB:", dbErr)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	wsManager := websocket.NewManager()
	go wsManager.Start()

	svc := services.New(st)
	svc.SetRealtime(func(userID primitive.ObjectID, event string, payload interface{}) {
		wsManager.SendToUser(userID.Hex(), event, payload)
	})
	handlers.SetService(svc)

	router := routes.SetupRouter(wsManager)

	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server running on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Forced shutdown:", err)
	}
	if err := database.Disconnect(); err != nil {
		log.Println("MongoDB disconnect error:", err)
	}

	log.Println("Server stopped gracefully")
}
