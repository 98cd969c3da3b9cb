package main

import (
	"flag"
	"log"

	"github.com/NoteHub-io/notehub/internal/api"
	"github.com/NoteHub-io/notehub/internal/auth"
	"github.com/NoteHub-io/notehub/internal/config"
	"github.com/NoteHub-io/notehub/internal/database"
	"github.com/NoteHub-io/notehub/internal/mail"
	"github.com/NoteHub-io/notehub/internal/storage"
	"github.com/NoteHub-io/notehub/internal/store"
)

const version = "0.1.0"

func initializeAPI(configPath string) (*api.Api, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}

	st := store.New(db)

	uploader, err := storage.NewS3Client(cfg)
	if err != nil {
		return nil, err
	}

	authSvc := &auth.Auth{
		Store:     st,
		Sessions:  auth.NewSessionManager(st),
		Cookies:   auth.NewCookieTransport(cfg.IsProduction()),
		Tokens:    auth.NewResetTokenManager(cfg.JWTSecret),
		Mailer:    mail.New(cfg),
		AppDomain: cfg.AppDomain,
	}

	return api.NewApi(cfg, st, authSvc, uploader)
}

func main() {
	configPath := flag.String("config", "app.yml", "Path to configuration file")
	flag.Parse()

	log.Printf("Starting NoteHub API v%s with config: %s", version, *configPath)

	api, err := initializeAPI(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	api.Serve()
}
