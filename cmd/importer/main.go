package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"association-storefront/internal/adminclient"
	"association-storefront/internal/config"
	"association-storefront/internal/service/session"
)

func main() {
	var (
		filePath  string
		profileID string
	)
	flag.StringVar(&filePath, "file", "", "Path to a merch CSV (id,name,price,image,quantity,color,size)")
	flag.StringVar(&profileID, "profile", "", "Profile id whose cart receives the lines")
	flag.Parse()

	if filePath == "" || !session.ValidProfileID(profileID) {
		flag.Usage()
		os.Exit(2)
	}

	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if err := run(filePath, profileID); err != nil {
		logger.Fatalf("import failed, cart left unchanged: %v", err)
	}
}

func run(filePath, profileID string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	res, err := adminclient.New(cfg.AdminURL, 30*time.Second).Import(ctx, profileID, f)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d lines (%d skipped) into profile %s in %s; cart now holds %d units\n",
		res.Added, res.Skipped, res.ProfileID, time.Since(start).Truncate(time.Millisecond), res.Units)
	return nil
}
