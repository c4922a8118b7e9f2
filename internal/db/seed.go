package database

import (
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Niloy28/rhythmflow/internal/models"
)

// SeedAdminUser ensures at least one admin account exists so the dev-mode
// dashboard is reachable on a fresh database.
func SeedAdminUser(db *gorm.DB, email, password string) {
	if email == "" || password == "" {
		log.Println("Skipping admin seed: no credentials configured")
		return
	}

	var count int64
	db.Model(&models.Users{}).Where("role = ?", "admin").Count(&count)
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	admin := models.Users{
		ID:           uuid.NewString(),
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Role:         "admin",
	}

	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&admin).Error; err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}
	log.Println("✅ Seeded default admin user")
}

// SeedDemoCatalog inserts a tiny browsable catalog for local development.
// It is a no-op when any artist already exists.
func SeedDemoCatalog(db *gorm.DB) {
	var count int64
	db.Model(&models.Artist{}).Count(&count)
	if count > 0 {
		return
	}

	artists := []models.Artist{
		{
			Name:  "Midnight Parallax",
			Image: "artists/midnight-parallax.jpg",
			Albums: []models.Album{
				{
					Name:  "Glass Orbit",
					Cover: "albums/glass-orbit.jpg",
					Year:  2019,
					Songs: []models.Song{
						{Name: "Perihelion", Audio: "songs/perihelion.mp3", Duration: 214, Year: 2019},
						{Name: "Low Earth Lullaby", Audio: "songs/low-earth-lullaby.mp3", Duration: 187, Year: 2019},
					},
				},
			},
		},
		{
			Name:  "The Copper Larks",
			Image: "artists/copper-larks.jpg",
			Albums: []models.Album{
				{
					Name:  "Field Recordings",
					Cover: "albums/field-recordings.jpg",
					Year:  2021,
					Songs: []models.Song{
						{Name: "Hedgerow", Audio: "songs/hedgerow.mp3", Duration: 243, Year: 2021},
					},
				},
			},
		},
	}

	if err := db.Create(&artists).Error; err != nil {
		log.Printf("⚠️ Demo catalog seed failed: %v", err)
		return
	}
	log.Println("✅ Seeded demo catalog")
}
