package database

import (
	"log"

	"gorm.io/gorm"

	"styledecor-server/models"
)

// defaultCatalog is the starter set of decoration listings installed on an
// empty database when seeding is enabled.
var defaultCatalog = []models.Service{
	{
		Name:        "Wedding Stage Decoration",
		Description: "Full stage setup with floral arch, backdrop, and lighting for wedding ceremonies.",
		Image:       "https://i.ibb.co/8s3WqkL/wedding-stage.jpg",
		Mode:        "onsite",
		Unit:        "per event",
		PriceBDT:    25000,
	},
	{
		Name:        "Birthday Party Decoration",
		Description: "Balloon arrangements, themed backdrop, and table styling for birthday parties.",
		Image:       "https://i.ibb.co/4Y2mX0P/birthday.jpg",
		Mode:        "onsite",
		Unit:        "per event",
		PriceBDT:    8000,
	},
	{
		Name:        "Home Interior Styling",
		Description: "Living room and bedroom restyling with curtains, cushions, and wall decor.",
		Image:       "https://i.ibb.co/Gt9cXnD/home-interior.jpg",
		Mode:        "onsite",
		Unit:        "per day",
		PriceBDT:    12000,
	},
	{
		Name:        "Corporate Event Decoration",
		Description: "Branded backdrops, seating decor, and stage styling for corporate programs.",
		Image:       "https://i.ibb.co/Jq7Wr0v/corporate.jpg",
		Mode:        "onsite",
		Unit:        "per event",
		PriceBDT:    30000,
	},
	{
		Name:        "Studio Photoshoot Set",
		Description: "Themed studio set design for portrait and product photoshoots.",
		Image:       "https://i.ibb.co/ZL1n6kq/studio-set.jpg",
		Mode:        "studio",
		Unit:        "per day",
		PriceBDT:    6000,
	},
}

// SeedCatalog installs the default listings if the catalog is empty. A
// non-empty catalog is left untouched so reruns never duplicate rows.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Service{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("Catalog already has %d listings, skipping seed", count)
		return nil
	}

	if err := db.Create(&defaultCatalog).Error; err != nil {
		return err
	}
	log.Printf("✅ Seeded %d catalog listings", len(defaultCatalog))
	return nil
}
