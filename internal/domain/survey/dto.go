package survey

import (
	"time"

	"powertown/internal/domain/scoring"
)

// CreateParkRequest creates an industrial park.
type CreateParkRequest struct {
	Name     string `json:"name" validate:"required"`
	Location string `json:"location"`
}

// CreateBuildingRequest creates a building within a park.
type CreateBuildingRequest struct {
	IndustrialParkID int64  `json:"industrial_park_id" validate:"required"`
	Name             string `json:"name" validate:"required"`
	Address          string `json:"address"`
}

// CreateObservationRequest appends an observation to a building.
// ObservedAt is optional RFC-3339; empty means "now".
type CreateObservationRequest struct {
	Observer   string `json:"observer" validate:"required"`
	NoteText   string `json:"note_text" validate:"required"`
	ObservedAt string `json:"observed_at"`
}

// Dossier is the full review view of one building.
type Dossier struct {
	Building     *Building      `json:"building"`
	Observations []*Observation `json:"observations"`
	MediaAssets  []*MediaAsset  `json:"media_assets"`
	Score        scoring.Result `json:"score"`
}

// BuildingCard is one scored row in a park summary.
type BuildingCard struct {
	Building         *Building      `json:"building"`
	ObservationCount int            `json:"observation_count"`
	LastObservedAt   *time.Time     `json:"last_observed_at,omitempty"`
	Score            scoring.Result `json:"score"`
}

// ParkSummary aggregates the review stats for one park.
type ParkSummary struct {
	Park          *IndustrialPark `json:"park"`
	BuildingCount int             `json:"building_count"`
	AvgScore      float64         `json:"avg_score"`
	Count70Plus   int             `json:"count_70_plus"`
	Count50Plus   int             `json:"count_50_plus"`
	TopCandidates []BuildingCard  `json:"top_candidates"`
	Buildings     []BuildingCard  `json:"buildings"`
}
