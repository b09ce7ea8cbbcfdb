package main

import (
	"context"
	"log"

	"github.com/voltpath/voltpath/internal/adapters/postgres"
	"github.com/voltpath/voltpath/internal/core/domain"
	"github.com/voltpath/voltpath/internal/pkg/config"
)

// demoStations covers the Delhi-Jaipur corridor used in development.
var demoStations = []domain.Station{
	{
		Name:           "ChargePoint Delhi Central",
		Location:       domain.StationLocation{Lat: 28.6139, Lng: 77.2090, Address: "Connaught Place, New Delhi"},
		ChargerTypes:   []string{"Type2", "CCS2"},
		CostPerKwh:     15,
		AvailableSlots: 4,
		Rating:         4.2,
	},
	{
		Name:           "GreenPower Gurgaon",
		Location:       domain.StationLocation{Lat: 28.4595, Lng: 77.0266, Address: "Cyber Hub, Gurgaon"},
		ChargerTypes:   []string{"DC Fast", "Type2"},
		CostPerKwh:     18,
		AvailableSlots: 2,
		Rating:         4.0,
	},
	{
		Name:           "EV Hub Noida",
		Location:       domain.StationLocation{Lat: 28.5355, Lng: 77.3910, Address: "Sector 18, Noida"},
		ChargerTypes:   []string{"Type2"},
		CostPerKwh:     12,
		AvailableSlots: 6,
		Rating:         3.8,
	},
	{
		Name:           "Highway Charger Jaipur",
		Location:       domain.StationLocation{Lat: 26.9124, Lng: 75.7873, Address: "MI Road, Jaipur"},
		ChargerTypes:   []string{"CCS2", "DC Fast"},
		CostPerKwh:     20,
		AvailableSlots: 3,
		Rating:         4.5,
	},
	{
		// Midway on the Delhi-Jaipur highway
		Name:           "Midway Halt",
		Location:       domain.StationLocation{Lat: 27.8, Lng: 76.5, Address: "NH48 Behror"},
		ChargerTypes:   []string{"DC Fast"},
		CostPerKwh:     22,
		AvailableSlots: 5,
		Rating:         4.1,
	},
}

func main() {
	cfg, err := config.Load("voltpath-seed")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	repo := postgres.NewStationRepo(db)
	for i := range demoStations {
		st := demoStations[i]
		if err := repo.Create(ctx, &st); err != nil {
			log.Fatalf("seed %q: %v", st.Name, err)
		}
		log.Printf("seeded %s (%s)", st.Name, st.ID)
	}

	log.Printf("done: %d stations", len(demoStations))
}
