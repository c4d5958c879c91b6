package survey

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ParkRepository is the relational-store surface for industrial parks.
type ParkRepository interface {
	Create(ctx context.Context, p *IndustrialPark) error
	GetByID(ctx context.Context, id int64) (*IndustrialPark, error)
	GetByKey(ctx context.Context, nameKey string) (*IndustrialPark, error)
	List(ctx context.Context) ([]*IndustrialPark, error)
}

type BuildingRepository interface {
	Create(ctx context.Context, b *Building) error
	GetByID(ctx context.Context, id int64) (*Building, error)
	GetByParkAndKey(ctx context.Context, parkID int64, labelKey string) (*Building, error)
	ListByPark(ctx context.Context, parkID int64) ([]*Building, error)
	ListAll(ctx context.Context) ([]*Building, error)
}

type ObservationRepository interface {
	Create(ctx context.Context, o *Observation) error
	GetByID(ctx context.Context, id int64) (*Observation, error)
	// ListByBuilding returns observations newest first.
	ListByBuilding(ctx context.Context, buildingID int64) ([]*Observation, error)
}

type MediaRepository interface {
	Create(ctx context.Context, m *MediaAsset) error
	ListByObservations(ctx context.Context, observationIDs []int64) ([]*MediaAsset, error)
}

// Repositories bundles the four stores over one gorm handle, so the importer
// can rebind them to a transaction in a single call.
type Repositories struct {
	Parks        ParkRepository
	Buildings    BuildingRepository
	Observations ObservationRepository
	Media        MediaRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Parks:        NewParkRepository(db),
		Buildings:    NewBuildingRepository(db),
		Observations: NewObservationRepository(db),
		Media:        NewMediaRepository(db),
	}
}

type parkRepository struct {
	db *gorm.DB
}

func NewParkRepository(db *gorm.DB) ParkRepository {
	return &parkRepository{db: db}
}

func (r *parkRepository) Create(ctx context.Context, p *IndustrialPark) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *parkRepository) GetByID(ctx context.Context, id int64) (*IndustrialPark, error) {
	var p IndustrialPark
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrParkNotFound
	}
	return &p, err
}

func (r *parkRepository) GetByKey(ctx context.Context, nameKey string) (*IndustrialPark, error) {
	var p IndustrialPark
	err := r.db.WithContext(ctx).Where("name_key = ?", nameKey).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrParkNotFound
	}
	return &p, err
}

func (r *parkRepository) List(ctx context.Context) ([]*IndustrialPark, error) {
	var parks []*IndustrialPark
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&parks).Error
	return parks, err
}

type buildingRepository struct {
	db *gorm.DB
}

func NewBuildingRepository(db *gorm.DB) BuildingRepository {
	return &buildingRepository{db: db}
}

func (r *buildingRepository) Create(ctx context.Context, b *Building) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *buildingRepository) GetByID(ctx context.Context, id int64) (*Building, error) {
	var b Building
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBuildingNotFound
	}
	return &b, err
}

func (r *buildingRepository) GetByParkAndKey(ctx context.Context, parkID int64, labelKey string) (*Building, error) {
	var b Building
	err := r.db.WithContext(ctx).
		Where("industrial_park_id = ? AND label_key = ?", parkID, labelKey).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBuildingNotFound
	}
	return &b, err
}

func (r *buildingRepository) ListByPark(ctx context.Context, parkID int64) ([]*Building, error) {
	var buildings []*Building
	err := r.db.WithContext(ctx).
		Where("industrial_park_id = ?", parkID).
		Order("id ASC").
		Find(&buildings).Error
	return buildings, err
}

func (r *buildingRepository) ListAll(ctx context.Context) ([]*Building, error) {
	var buildings []*Building
	err := r.db.WithContext(ctx).
		Order("industrial_park_id ASC, id ASC").
		Find(&buildings).Error
	return buildings, err
}

type observationRepository struct {
	db *gorm.DB
}

func NewObservationRepository(db *gorm.DB) ObservationRepository {
	return &observationRepository{db: db}
}

func (r *observationRepository) Create(ctx context.Context, o *Observation) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *observationRepository) GetByID(ctx context.Context, id int64) (*Observation, error) {
	var o Observation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrObservationNotFound
	}
	return &o, err
}

func (r *observationRepository) ListByBuilding(ctx context.Context, buildingID int64) ([]*Observation, error) {
	var obs []*Observation
	err := r.db.WithContext(ctx).
		Where("building_id = ?", buildingID).
		Order("observed_at DESC, id DESC").
		Find(&obs).Error
	return obs, err
}

type mediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, m *MediaAsset) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *mediaRepository) ListByObservations(ctx context.Context, observationIDs []int64) ([]*MediaAsset, error) {
	if len(observationIDs) == 0 {
		return nil, nil
	}
	var assets []*MediaAsset
	err := r.db.WithContext(ctx).
		Where("observation_id IN ?", observationIDs).
		Order("created_at DESC").
		Find(&assets).Error
	return assets, err
}
