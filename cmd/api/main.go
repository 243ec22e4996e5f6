package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/bullionboard/bullionboard/internal/auth/app"
)

func main() {
	// A missing .env is fine; production supplies real environment vars.
	_ = godotenv.Load()

	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
