// Package main wires the movie catalog service together: config, storage,
// the remote catalog client and the HTTP surface.
package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"moviedeck/config"
	"moviedeck/handlers"
	"moviedeck/internal/database"
	"moviedeck/services/catalog"
	"moviedeck/services/members"
	"moviedeck/services/store"
	"moviedeck/services/tmdb"
	"moviedeck/utils"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	configPath := os.Getenv("MOVIEDECK_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	settings, err := config.NewManager(configPath).Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if settings.Logging.Path != "" {
		log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   settings.Logging.Path,
			MaxSize:    settings.Logging.MaxSizeMB,
			MaxBackups: settings.Logging.MaxBackups,
			MaxAge:     settings.Logging.MaxAgeDays,
		}))
	}

	if settings.TMDB.APIKey == "" {
		log.Fatal("TMDB API key is required (set TMDB_API_KEY or tmdb.apiKey)")
	}

	db, err := database.NewDB(database.Config{DatabasePath: settings.Database.Path})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	collections := store.New(db.Repository)
	catalogSvc := catalog.NewService(tmdb.NewClient(settings.TMDB.APIKey))
	membersSvc := members.NewService(settings.Members.SnapshotPath, settings.Members.SnapshotURL)

	router := utils.NewRouter()
	handlers.NewMoviesHandler(catalogSvc, collections).RegisterRoutes(router)
	handlers.NewLibraryHandler(collections).RegisterRoutes(router)
	handlers.NewMembersHandler(membersSvc).RegisterRoutes(router)

	server := &http.Server{
		Addr:              settings.Server.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("[main] listening on %s", settings.Server.ListenAddr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
