package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"association-storefront/internal/adminclient"
	"association-storefront/internal/config"
)

func main() {
	var profileID string
	flag.StringVar(&profileID, "profile", "", "Profile id to seed (a new one is generated when empty)")
	flag.Parse()

	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := adminclient.New(cfg.AdminURL, 10*time.Second).Seed(ctx, profileID)
	if err != nil {
		cancel()
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Printf("seed applied: %d lines, total %s; set cookie profile_id=%s to use it", res.Lines, res.Total, res.ProfileID)
}
