package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"powertown/internal/domain/survey"
)

// Created reports which entities a Resolve call inserted.
type Created struct {
	Park     bool
	Building bool
}

// Resolver maps (park name, building label) pairs onto persisted rows,
// creating them on first reference. Matching is on the normalized key, so
// " Acme Park" and "ACME PARK" land on one row. A lost insert race bounces
// off the unique indexes and is answered with a re-fetch, so the resolver is
// idempotent without locking.
type Resolver struct {
	parks     survey.ParkRepository
	buildings survey.BuildingRepository
	now       func() time.Time

	parkCache     map[string]*survey.IndustrialPark
	buildingCache map[string]*survey.Building
}

func NewResolver(parks survey.ParkRepository, buildings survey.BuildingRepository, now func() time.Time) *Resolver {
	return &Resolver{
		parks:         parks,
		buildings:     buildings,
		now:           now,
		parkCache:     make(map[string]*survey.IndustrialPark),
		buildingCache: make(map[string]*survey.Building),
	}
}

func (r *Resolver) Resolve(ctx context.Context, parkName, buildingLabel string) (*survey.IndustrialPark, *survey.Building, Created, error) {
	var created Created

	park, parkCreated, err := r.resolvePark(ctx, parkName)
	if err != nil {
		return nil, nil, created, err
	}
	created.Park = parkCreated

	building, buildingCreated, err := r.resolveBuilding(ctx, park, buildingLabel)
	if err != nil {
		return nil, nil, created, err
	}
	created.Building = buildingCreated

	return park, building, created, nil
}

func (r *Resolver) resolvePark(ctx context.Context, name string) (*survey.IndustrialPark, bool, error) {
	key := survey.NormalizeKey(name)
	if park, ok := r.parkCache[key]; ok {
		return park, false, nil
	}

	park, err := r.parks.GetByKey(ctx, key)
	if err == nil {
		r.parkCache[key] = park
		return park, false, nil
	}
	if !errors.Is(err, survey.ErrParkNotFound) {
		return nil, false, fmt.Errorf("failed to look up park %q: %w", name, err)
	}

	park = &survey.IndustrialPark{
		Name:      name,
		NameKey:   key,
		CreatedAt: r.now(),
	}
	if err := r.parks.Create(ctx, park); err != nil {
		// A unique-index violation means another writer inserted the same
		// normalized key first; the row we want now exists, so re-fetch.
		if existing, ferr := r.parks.GetByKey(ctx, key); ferr == nil {
			r.parkCache[key] = existing
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create park %q: %w", name, err)
	}

	r.parkCache[key] = park
	return park, true, nil
}

func (r *Resolver) resolveBuilding(ctx context.Context, park *survey.IndustrialPark, label string) (*survey.Building, bool, error) {
	key := survey.NormalizeKey(label)
	cacheKey := fmt.Sprintf("%d/%s", park.ID, key)
	if b, ok := r.buildingCache[cacheKey]; ok {
		return b, false, nil
	}

	building, err := r.buildings.GetByParkAndKey(ctx, park.ID, key)
	if err == nil {
		r.buildingCache[cacheKey] = building
		return building, false, nil
	}
	if !errors.Is(err, survey.ErrBuildingNotFound) {
		return nil, false, fmt.Errorf("failed to look up building %q: %w", label, err)
	}

	building = &survey.Building{
		IndustrialParkID: park.ID,
		Name:             label,
		LabelKey:         key,
		CreatedAt:        r.now(),
	}
	if err := r.buildings.Create(ctx, building); err != nil {
		if existing, ferr := r.buildings.GetByParkAndKey(ctx, park.ID, key); ferr == nil {
			r.buildingCache[cacheKey] = existing
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create building %q: %w", label, err)
	}

	r.buildingCache[cacheKey] = building
	return building, true, nil
}
