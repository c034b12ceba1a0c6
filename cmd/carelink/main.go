package main

import (
	"log"

	"github.com/glucocare/carelink/internal/carelink/app"
)

func main() {
	if err := app.LoadDotEnv(".env"); err != nil {
		log.Fatalf("failed to load environment: %v", err)
	}

	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
