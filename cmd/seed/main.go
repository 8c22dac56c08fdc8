package main

import (
	"log"
	"os"

	"lab-assistant-be/internal/model"
	"lab-assistant-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gorm.io/gorm/clause"
)

// Past incidents exported from the old tracker. The worker's
// query_incidents tool searches these by title/description/resolution.
var incidents = []model.Incident{
	{
		Id:          "INC-001",
		Title:       "Database connection pool exhausted",
		Description: "API requests timed out because every pooled connection was held by long-running analytics queries.",
		Resolution:  "Increased max pool size from 10 to 50 and moved analytics queries to a read replica.",
	},
	{
		Id:          "INC-002",
		Title:       "Centrifuge firmware update failed mid-flash",
		Description: "The lab centrifuge controller lost power during a firmware update and refused to boot.",
		Resolution:  "Re-flashed firmware over the serial recovery port and added the unit to the UPS circuit.",
	},
	{
		Id:          "INC-003",
		Title:       "Sample queue backlog after scheduler restart",
		Description: "Queued sample-processing jobs were never picked up after the scheduler was restarted.",
		Resolution:  "Re-enqueued pending jobs on startup and added a health check for the scheduler subscription.",
	},
	{
		Id:          "INC-004",
		Title:       "Disk full on results storage volume",
		Description: "Result writes began failing once the storage volume for instrument output hit 100% usage.",
		Resolution:  "Rotated out raw instrument dumps older than 90 days and set an 85% usage alert.",
	},
	{
		Id:          "INC-005",
		Title:       "Spectrometer calibration drift",
		Description: "Readings drifted out of tolerance between weekly calibrations after a lamp replacement.",
		Resolution:  "Switched to daily automatic calibration runs and logged drift metrics per instrument.",
	},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding incidents...")

	for _, inc := range incidents {
		// Upsert so re-running the seeder refreshes existing rows.
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&inc).Error
		if err != nil {
			color.Red("Failed to seed %s: %v", inc.Id, err)
			os.Exit(1)
		}
		color.Green("  seeded %s: %s", inc.Id, inc.Title)
	}

	color.Green("Done. Seeded %d incidents.", len(incidents))
}
