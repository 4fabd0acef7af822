package main

import (
	"errors"
	"log"
	"os"

	"github.com/hmalik/txnpipe/internal/cli"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("failed to load .env: %v", err)
	}

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
