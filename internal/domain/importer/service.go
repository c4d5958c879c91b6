package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"powertown/internal/domain/survey"
	"powertown/internal/storage"
)

// Service is the import orchestrator. One Run drives parse → resolve →
// observation insert → media attach per row and accumulates the report.
//
// All row writes for a run happen inside one transaction: a fatal failure
// persists nothing. Row-scoped problems (validation errors, missing media)
// never abort the run. Single-writer by assumption; concurrent runs are not
// coordinated beyond the store's unique indexes.
type Service struct {
	db    *gorm.DB
	store storage.Store
	clock clockwork.Clock
}

func NewService(db *gorm.DB, store storage.Store, clock clockwork.Clock) *Service {
	return &Service{db: db, store: store, clock: clock}
}

// RunBundle imports a ZIP bundle: one manifest CSV plus media entries.
func (s *Service) RunBundle(ctx context.Context, archive []byte) (*Report, error) {
	manifest, src, err := OpenBundle(archive)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, manifest, src)
}

// Run imports a manifest against a media source. CSV-only callers pass
// NoSource{}. The returned error is non-nil only for fatal runs (bad
// header, unreadable input); every other outcome is described by the report.
func (s *Service) Run(ctx context.Context, manifest io.Reader, src MediaSource) (*Report, error) {
	parser, err := NewParser(manifest)
	if err != nil {
		return nil, err
	}

	report := newReport(s.clock.Now().UTC())

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := survey.NewRepositories(tx)
		now := func() time.Time { return s.clock.Now().UTC() }
		resolver := NewResolver(repos.Parks, repos.Buildings, now)
		attacher := NewAttacher(repos.Media, s.store, now)

		for {
			row, err := parser.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}

			var rowErr *RowError
			if errors.As(err, &rowErr) {
				report.Rows++
				report.addRowError(rowErr.Line, rowErr.Message)
				continue
			}
			if err != nil {
				// Manifest became unreadable mid-stream: fatal, roll back.
				return err
			}

			report.Rows++

			if err := s.processRow(ctx, repos, resolver, attacher, row, src, report); err != nil {
				return err
			}
		}
	})
	if err != nil {
		return nil, err
	}

	report.FinishedAt = s.clock.Now().UTC()
	return report, nil
}

func (s *Service) processRow(
	ctx context.Context,
	repos *survey.Repositories,
	resolver *Resolver,
	attacher *Attacher,
	row *Row,
	src MediaSource,
	report *Report,
) error {
	park, building, created, err := resolver.Resolve(ctx, row.ParkName, row.BuildingLabel)
	if err != nil {
		return err
	}
	if created.Park {
		report.ParksCreated++
	}
	if created.Building {
		report.BuildingsCreated++
	}

	observedAt := row.ObservedAt
	if observedAt.IsZero() {
		observedAt = s.clock.Now().UTC()
	}

	obs := &survey.Observation{
		BuildingID: building.ID,
		Observer:   row.Observer,
		NoteText:   row.NoteText,
		ObservedAt: observedAt,
		CreatedAt:  s.clock.Now().UTC(),
	}
	if err := repos.Observations.Create(ctx, obs); err != nil {
		return fmt.Errorf("failed to create observation for row %d: %w", row.Line, err)
	}

	report.Created++
	report.touchPark(park.ID, park.Name)

	// Missing media never skips the row: the observation text is already in.
	result := attacher.Attach(ctx, obs, row.MediaFile, src)
	if result.Status == StatusMissing {
		report.addMediaMissing(row.Line, row.MediaFile, result.Reason)
	}

	return nil
}
