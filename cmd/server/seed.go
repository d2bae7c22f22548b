package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/bucharest-discover/internal/model"
	"github.com/iliyamo/bucharest-discover/internal/repository"
)

// seedCatalogue inserts a small demo catalogue so a fresh database has
// something to browse and sell.  It refuses to run against a database that
// already has categories.
func seedCatalogue(ctx context.Context, db *sql.DB) error {
	cats := repository.NewCategoryRepo(db)
	existing, err := cats.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return fmt.Errorf("seed: database already has %d categories", len(existing))
	}

	now := time.Now().UTC()
	parks := model.Category{ID: uuid.NewString(), Name: "Parks", Icon: "tree", Color: "#2e7d32", CreatedAt: now}
	music := model.Category{ID: uuid.NewString(), Name: "Concerts", Icon: "music", Color: "#6a1b9a", CreatedAt: now}
	for _, c := range []model.Category{parks, music} {
		if err := cats.Create(ctx, c); err != nil {
			return err
		}
	}

	locations := repository.NewLocationRepo(db)
	athenaeum := model.Location{
		ID: uuid.NewString(), Name: "Romanian Athenaeum", Address: "Strada Benjamin Franklin 1-3",
		Latitude: 44.4413, Longitude: 26.0973, CategoryID: music.ID, PriceRange: "$$",
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	herastrau := model.Location{
		ID: uuid.NewString(), Name: "King Michael I Park", Address: "Soseaua Kiseleff 32",
		Latitude: 44.4697, Longitude: 26.0822, CategoryID: parks.ID, PriceRange: "free",
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	for _, l := range []model.Location{athenaeum, herastrau} {
		if err := locations.Create(ctx, l); err != nil {
			return err
		}
	}

	seats := 300
	start := time.Date(now.Year(), now.Month(), now.Day(), 19, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	ev := model.Event{
		ID: uuid.NewString(), Name: "Philharmonic evening", LocationID: athenaeum.ID, CategoryID: music.ID,
		StartDate: start, EndDate: start.Add(2 * time.Hour), PriceCents: 9000, Currency: "RON",
		MaxCapacity: &seats, Organizer: "George Enescu Philharmonic", IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	return repository.NewEventRepo(db).Create(ctx, ev)
}
