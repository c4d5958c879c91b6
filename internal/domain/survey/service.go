package survey

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"powertown/internal/domain/scoring"
	"powertown/internal/storage"
)

// Service handles the single-record capture and review reads.
type Service struct {
	parks        ParkRepository
	buildings    BuildingRepository
	observations ObservationRepository
	media        MediaRepository
	store        storage.Store
}

func NewService(repos *Repositories, store storage.Store) *Service {
	return &Service{
		parks:        repos.Parks,
		buildings:    repos.Buildings,
		observations: repos.Observations,
		media:        repos.Media,
		store:        store,
	}
}

// CreatePark creates a park, or returns the existing row when the normalized
// name is already taken. Lookup-then-create is safe here because the unique
// index on name_key rejects a lost race, which is answered with a re-fetch.
func (s *Service) CreatePark(ctx context.Context, name, location string) (*IndustrialPark, error) {
	key := NormalizeKey(name)

	existing, err := s.parks.GetByKey(ctx, key)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrParkNotFound) {
		return nil, err
	}

	park := &IndustrialPark{
		Name:      name,
		NameKey:   key,
		Location:  location,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.parks.Create(ctx, park); err != nil {
		// Lost the insert race on name_key: the row exists now.
		if existing, ferr := s.parks.GetByKey(ctx, key); ferr == nil {
			return existing, nil
		}
		return nil, err
	}
	return park, nil
}

func (s *Service) ListParks(ctx context.Context) ([]*IndustrialPark, error) {
	return s.parks.List(ctx)
}

// CreateBuilding creates a building within a park, returning the existing
// row when the normalized label is already taken in that park.
func (s *Service) CreateBuilding(ctx context.Context, parkID int64, name, address string) (*Building, error) {
	if _, err := s.parks.GetByID(ctx, parkID); err != nil {
		return nil, err
	}

	key := NormalizeKey(name)

	existing, err := s.buildings.GetByParkAndKey(ctx, parkID, key)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrBuildingNotFound) {
		return nil, err
	}

	building := &Building{
		IndustrialParkID: parkID,
		Name:             name,
		LabelKey:         key,
		Address:          address,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.buildings.Create(ctx, building); err != nil {
		if existing, ferr := s.buildings.GetByParkAndKey(ctx, parkID, key); ferr == nil {
			return existing, nil
		}
		return nil, err
	}
	return building, nil
}

// AddObservation appends a field note to a building. A zero observedAt
// defaults to now.
func (s *Service) AddObservation(ctx context.Context, buildingID int64, observer, noteText string, observedAt time.Time) (*Observation, error) {
	if _, err := s.buildings.GetByID(ctx, buildingID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if observedAt.IsZero() {
		observedAt = now
	}

	obs := &Observation{
		BuildingID: buildingID,
		Observer:   observer,
		NoteText:   noteText,
		ObservedAt: observedAt,
		CreatedAt:  now,
	}
	if err := s.observations.Create(ctx, obs); err != nil {
		return nil, err
	}
	return obs, nil
}

// SaveMedia stores the file bytes and records the asset. The file is written
// fully before the row is inserted; a failed insert removes the file again so
// no asset ever points at missing bytes.
func (s *Service) SaveMedia(ctx context.Context, observationID int64, mediaType, originalName string, r io.Reader) (*MediaAsset, error) {
	obs, err := s.observations.GetByID(ctx, observationID)
	if err != nil {
		return nil, err
	}
	if !AllowedMediaTypes[mediaType] {
		return nil, ErrInvalidMediaType
	}
	if originalName == "" {
		return nil, ErrMissingFilename
	}

	path := storage.UploadPath(obs.ID, originalName)
	if err := s.store.Write(path, r); err != nil {
		return nil, fmt.Errorf("failed to store media file: %w", err)
	}

	asset := &MediaAsset{
		ObservationID: obs.ID,
		MediaType:     mediaType,
		FilePath:      path,
		OriginalName:  originalName,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.media.Create(ctx, asset); err != nil {
		_ = s.store.Remove(path)
		return nil, fmt.Errorf("failed to save media record: %w", err)
	}
	return asset, nil
}

// Dossier returns one building with its full observation history (newest
// first), attached media, and the current readiness score.
func (s *Service) Dossier(ctx context.Context, buildingID int64) (*Dossier, error) {
	building, err := s.buildings.GetByID(ctx, buildingID)
	if err != nil {
		return nil, err
	}

	observations, err := s.observations.ListByBuilding(ctx, buildingID)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(observations))
	ids := make([]int64, len(observations))
	for i, o := range observations {
		texts[i] = o.NoteText
		ids[i] = o.ID
	}

	assets, err := s.media.ListByObservations(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &Dossier{
		Building:     building,
		Observations: observations,
		MediaAssets:  assets,
		Score:        scoring.Score(texts),
	}, nil
}

// ParkSummary computes the review view for one park: every building scored,
// best candidates first, plus aggregate stats.
func (s *Service) ParkSummary(ctx context.Context, parkID int64) (*ParkSummary, error) {
	park, err := s.parks.GetByID(ctx, parkID)
	if err != nil {
		return nil, err
	}

	buildings, err := s.buildings.ListByPark(ctx, parkID)
	if err != nil {
		return nil, err
	}

	cards := make([]BuildingCard, 0, len(buildings))
	for _, b := range buildings {
		observations, err := s.observations.ListByBuilding(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		texts := make([]string, len(observations))
		for i, o := range observations {
			texts[i] = o.NoteText
		}
		card := BuildingCard{
			Building:         b,
			ObservationCount: len(observations),
			Score:            scoring.Score(texts),
		}
		if len(observations) > 0 {
			card.LastObservedAt = &observations[0].ObservedAt
		}
		cards = append(cards, card)
	}

	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Score.Score > cards[j].Score.Score
	})

	summary := &ParkSummary{
		Park:          park,
		BuildingCount: len(cards),
		Buildings:     cards,
	}

	total := 0
	for _, c := range cards {
		total += c.Score.Score
		if c.Score.Score >= 70 {
			summary.Count70Plus++
		}
		if c.Score.Score >= 50 {
			summary.Count50Plus++
		}
	}
	if len(cards) > 0 {
		summary.AvgScore = float64(total) / float64(len(cards))
	}

	top := len(cards)
	if top > 3 {
		top = 3
	}
	summary.TopCandidates = cards[:top]

	return summary, nil
}
