package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"lolreport/internal/config"
	"lolreport/internal/riot"
)

func main() {
	cfg := config.Load()
	if cfg.RiotAPIKey == "" {
		log.Fatal("RIOT_API_KEY environment variable not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	validator := riot.NewKeyValidator()
	valid, err := validator.ValidateKey(ctx, cfg.RiotAPIKey)
	if err != nil {
		log.Fatalf("Could not verify key: %v", err)
	}

	if !valid {
		fmt.Println("Key REJECTED (401/403). Dev keys expire after 24h; regenerate at https://developer.riotgames.com")
		os.Exit(1)
	}
	fmt.Println("Key OK")
}
