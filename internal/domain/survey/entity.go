package survey

import (
	"strings"
	"time"
)

// Media types accepted for attachments.
const (
	MediaTypePhoto = "photo"
	MediaTypeAudio = "audio"
	MediaTypeCard  = "card"
	MediaTypeOther = "other"
)

// AllowedMediaTypes defines which media types are accepted on upload.
var AllowedMediaTypes = map[string]bool{
	MediaTypePhoto: true,
	MediaTypeAudio: true,
	MediaTypeCard:  true,
	MediaTypeOther: true,
}

// NormalizeKey builds the dedup key used for park names and building labels:
// whitespace-trimmed, lowercased.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IndustrialPark is a named cluster of buildings surveyed together.
// NameKey carries the uniqueness constraint so "  Acme Park" and "ACME PARK"
// are one row.
type IndustrialPark struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name" json:"name"`
	NameKey   string    `gorm:"column:name_key;uniqueIndex" json:"-"`
	Location  string    `gorm:"column:location" json:"location,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (IndustrialPark) TableName() string { return "industrial_parks" }

// Building is a single structure within a park, the unit of readiness
// scoring. LabelKey is unique per park.
type Building struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	IndustrialParkID int64     `gorm:"column:industrial_park_id;uniqueIndex:idx_buildings_park_label" json:"industrial_park_id"`
	Name             string    `gorm:"column:name" json:"name"`
	LabelKey         string    `gorm:"column:label_key;uniqueIndex:idx_buildings_park_label" json:"-"`
	Address          string    `gorm:"column:address" json:"address,omitempty"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Building) TableName() string { return "buildings" }

// Observation is one append-only field note about a building. Observations
// are only ever inserted, never updated or deleted.
type Observation struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	BuildingID int64     `gorm:"column:building_id;index" json:"building_id"`
	Observer   string    `gorm:"column:observer" json:"observer"`
	NoteText   string    `gorm:"column:note_text" json:"note_text"`
	ObservedAt time.Time `gorm:"column:observed_at" json:"observed_at"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Observation) TableName() string { return "observations" }

// MediaAsset is a stored file (photo/audio/etc.) attached to an observation.
// The row is only inserted after the file bytes are fully durable.
type MediaAsset struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ObservationID int64     `gorm:"column:observation_id;index" json:"observation_id"`
	MediaType     string    `gorm:"column:media_type" json:"media_type"`
	FilePath      string    `gorm:"column:file_path" json:"file_path"`
	OriginalName  string    `gorm:"column:original_name" json:"original_name"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
}

func (MediaAsset) TableName() string { return "media_assets" }
