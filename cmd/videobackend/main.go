package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/pH-1491/Video-Backend/internal/app"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
