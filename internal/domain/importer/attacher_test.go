package importer

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powertown/internal/domain/survey"
	"powertown/internal/storage"
)

func setupAttacher(t *testing.T) (*Attacher, survey.MediaRepository, *storage.LocalStore, *survey.Observation) {
	t.Helper()
	db := setupDB(t)
	ctx := context.Background()

	park := &survey.IndustrialPark{Name: "P", NameKey: "p", CreatedAt: testNow()}
	require.NoError(t, survey.NewParkRepository(db).Create(ctx, park))
	building := &survey.Building{IndustrialParkID: park.ID, Name: "B", LabelKey: "b", CreatedAt: testNow()}
	require.NoError(t, survey.NewBuildingRepository(db).Create(ctx, building))
	obs := &survey.Observation{BuildingID: building.ID, Observer: "kim", NoteText: "n", ObservedAt: testNow(), CreatedAt: testNow()}
	require.NoError(t, survey.NewObservationRepository(db).Create(ctx, obs))

	media := survey.NewMediaRepository(db)
	store := storage.NewLocalStore(t.TempDir())
	return NewAttacher(media, store, testNow), media, store, obs
}

func TestAttachNoFilename(t *testing.T) {
	a, _, _, obs := setupAttacher(t)

	res := a.Attach(context.Background(), obs, "", NoSource{})
	assert.Equal(t, StatusNone, res.Status)
}

func TestAttachMissingFromSource(t *testing.T) {
	a, media, _, obs := setupAttacher(t)

	res := a.Attach(context.Background(), obs, "photo.jpg", NoSource{})
	assert.Equal(t, StatusMissing, res.Status)
	assert.Equal(t, ReasonFileAbsent, res.Reason)

	assets, err := media.ListByObservations(context.Background(), []int64{obs.ID})
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestAttachFromDirectory(t *testing.T) {
	a, media, store, obs := setupAttacher(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.jpg"), []byte("jpeg-bytes"), 0644))

	res := a.Attach(context.Background(), obs, "site.jpg", NewDirSource(dir))
	require.Equal(t, StatusAttached, res.Status)
	require.NotNil(t, res.Asset)
	assert.Equal(t, survey.MediaTypePhoto, res.Asset.MediaType)
	assert.Equal(t, "site.jpg", res.Asset.OriginalName)
	assert.True(t, store.Exists(res.Asset.FilePath))

	f, err := store.Open(res.Asset.FilePath)
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)

	assets, err := media.ListByObservations(context.Background(), []int64{obs.ID})
	require.NoError(t, err)
	assert.Len(t, assets, 1)
}

type failingStore struct{}

func (failingStore) Write(string, io.Reader) error { return errors.New("disk full") }

func (failingStore) Exists(string) bool { return false }

func (failingStore) Open(string) (io.ReadCloser, error) { return nil, os.ErrNotExist }

func (failingStore) Remove(string) error { return nil }

func TestAttachWriteFailureIsRowScoped(t *testing.T) {
	_, media, _, obs := setupAttacher(t)
	a := NewAttacher(media, failingStore{}, testNow)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.jpg"), []byte("x"), 0644))

	res := a.Attach(context.Background(), obs, "site.jpg", NewDirSource(dir))
	assert.Equal(t, StatusMissing, res.Status)
	assert.Equal(t, ReasonWriteFailed, res.Reason)

	assets, err := media.ListByObservations(context.Background(), []int64{obs.ID})
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestGuessMediaType(t *testing.T) {
	assert.Equal(t, survey.MediaTypePhoto, guessMediaType("a.JPG"))
	assert.Equal(t, survey.MediaTypeAudio, guessMediaType("note.m4a"))
	assert.Equal(t, survey.MediaTypeOther, guessMediaType("scan.pdf"))
}
