package main

import (
	"fmt"
	"log"

	"github.com/maisoncms/backend/internal/config"
	"github.com/maisoncms/backend/internal/db"
)

// Seeds a development database with an admin account and the standard home
// page sections.
func main() {
	cfg := config.Load()
	if err := db.Init(cfg.DatabaseDriver, cfg.DatabaseDSN); err != nil {
		log.Fatal("failed to initialize database: ", err)
	}

	email := cfg.BootstrapAdminEmail
	password := cfg.BootstrapAdminPass
	if email == "" {
		email = "admin@example.com"
	}
	if password == "" {
		password = "changeme123"
	}
	if err := db.EnsureAdmin(email, password, cfg.BootstrapAdminName); err != nil {
		log.Fatal("failed to create admin account: ", err)
	}
	fmt.Printf("admin account ready: %s\n", email)

	sections := []db.HomeContent{
		{
			SectionKey:   "hero",
			Title:        "Maison",
			Subtitle:     "Seasonal cooking, open fire",
			Content:      "Book a table for an evening **worth remembering**.",
			ButtonText:   "Reserve",
			ButtonURL:    "/reservations",
			DisplayOrder: 1,
			IsActive:     true,
		},
		{
			SectionKey:   "about",
			Title:        "Our Kitchen",
			Content:      "We cook with what the market brings, every morning.",
			DisplayOrder: 2,
			IsActive:     true,
		},
		{
			SectionKey:   "hours",
			Title:        "Opening Hours",
			Content:      "Tuesday to Sunday, 18:00 - 23:00",
			DisplayOrder: 3,
			IsActive:     true,
		},
	}

	for _, section := range sections {
		var existing db.HomeContent
		if err := db.DB.Where("section_key = ?", section.SectionKey).First(&existing).Error; err == nil {
			continue
		}
		if err := db.DB.Create(&section).Error; err != nil {
			log.Fatalf("failed to seed section %s: %v", section.SectionKey, err)
		}
		fmt.Printf("seeded home section: %s\n", section.SectionKey)
	}

	fmt.Println("seed complete")
}
