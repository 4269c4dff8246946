package main

import (
	"log"

	"github.com/mic325hkg/CathayPriceChecker/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ cxroute failed to start: %v", err)
	}
}
