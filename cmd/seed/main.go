package main

import (
	"context"
	"log"
	"time"

	"powertown/internal/database"
	"powertown/internal/domain/survey"
)

const (
	demoParkName     = "Demo Industrial Park"
	demoParkLocation = "Fall River, MA (demo)"
)

type buildingSpec struct {
	name    string
	address string
	notes   []string
}

var demoBuildings = []buildingSpec{
	{
		name:    "Matouk Factory",
		address: "Approx: Textile plant near main road",
		notes: []string{
			"Large paved lot; visible HVAC units. Mentioned transformer near loading dock. Facilities manager gave business card.",
			"Cold storage area reported; three-phase service likely. Significant truck traffic and distribution activity.",
		},
	},
	{
		name:    "Riverside Cold Storage",
		address: "Rear entrance off service lane",
		notes: []string{
			"Refrigeration compressors audible; multiple chillers. Switchgear cabinet visible near side wall.",
			"Ample yard space behind building; forklifts and loading docks active. Contact: maintenance supervisor @ example.com.",
		},
	},
	{
		name:    "South Bay Logistics",
		address: "Warehouse row, unit 12",
		notes: []string{
			"High bay warehouse; heavy forklift activity. Large parking lot with unused corner suitable for containers.",
			"No direct electrical info yet. Need follow-up on utility service size; ask for facilities contact.",
		},
	},
	{
		name:    "Fall River Plastics",
		address: "Corner lot, near substation fence",
		notes: []string{
			"Manufacturing floor; odor + machinery noise. Substation fence adjacent; transformer signage nearby.",
			"Spoke with receptionist; facilities manager name obtained; follow-up requested.",
		},
	},
	{
		name:    "Bayview Distribution",
		address: "Dock-facing frontage",
		notes: []string{
			"Multiple loading docks and trucks. Large paved staging area; good siting potential.",
			"Solar panels on roof; inverter boxes near utility room. Strong candidate; get electrical single-line diagram.",
		},
	},
	{
		name:    "Pier 9 Storage",
		address: "Small warehouse cluster",
		notes: []string{
			"Minimal activity; unclear load. Plenty of space but unknown utility service.",
			"No contacts found. Might deprioritize unless utility upgrades are easy.",
		},
	},
}

func main() {
	db, err := database.Connect("powertown.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&survey.IndustrialPark{},
		&survey.Building{},
		&survey.Observation{},
		&survey.MediaAsset{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	ctx := context.Background()

	parks := survey.NewParkRepository(db)
	buildings := survey.NewBuildingRepository(db)
	observations := survey.NewObservationRepository(db)

	park, err := parks.GetByKey(ctx, survey.NormalizeKey(demoParkName))
	if err != nil {
		park = &survey.IndustrialPark{
			Name:      demoParkName,
			NameKey:   survey.NormalizeKey(demoParkName),
			Location:  demoParkLocation,
			CreatedAt: time.Now().UTC(),
		}
		if err := parks.Create(ctx, park); err != nil {
			log.Fatal("Failed to create demo park:", err)
		}
	}

	createdBuildings := 0
	for _, spec := range demoBuildings {
		key := survey.NormalizeKey(spec.name)
		building, err := buildings.GetByParkAndKey(ctx, park.ID, key)
		if err != nil {
			building = &survey.Building{
				IndustrialParkID: park.ID,
				Name:             spec.name,
				LabelKey:         key,
				Address:          spec.address,
				CreatedAt:        time.Now().UTC(),
			}
			if err := buildings.Create(ctx, building); err != nil {
				log.Fatal("Failed to create building:", err)
			}
			createdBuildings++
		}

		for _, text := range spec.notes {
			obs := &survey.Observation{
				BuildingID: building.ID,
				Observer:   "Demo Seeder",
				NoteText:   text,
				ObservedAt: time.Now().UTC(),
				CreatedAt:  time.Now().UTC(),
			}
			if err := observations.Create(ctx, obs); err != nil {
				log.Fatal("Failed to create observation:", err)
			}
		}
	}

	log.Printf("Seeded demo park %q. New buildings created: %d", demoParkName, createdBuildings)
	log.Println("Try: GET /api/v1/parks, then /api/v1/parks/<id>/summary")
}
