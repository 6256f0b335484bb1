package main

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
	"github.com/vlatan/video-notes/internal/app"
)

func main() {

	// A local .env is optional, the environment always wins
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("couldn't load the .env file; %v", err)
	}

	if err := app.New().Run(); err != nil {
		log.Fatalf("http server error: %v", err)
	}
}
