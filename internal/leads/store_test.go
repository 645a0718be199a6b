package leads

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esklenchen/server/config"
	"esklenchen/server/internal/models"
)

var now = time.Date(2025, time.April, 1, 10, 0, 0, 0, time.UTC)

func testLeads() []models.Lead {
	return []models.Lead{
		models.NewContactLead(models.ContactRequest{Name: "Anna", Email: "anna@example.com"}, now),
		models.NewRenovationLead(models.RenovationRequest{Name: "Pau", Phone: "+34611111111"}, now),
		models.NewContactLead(models.ContactRequest{Name: "Laia"}, now),
	}
}

func readLines(t *testing.T, path string) []models.Lead {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []models.Lead
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var lead models.Lead
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &lead))
		out = append(out, lead)
	}
	require.NoError(t, scanner.Err())
	return out
}

func TestFileStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "leads")
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	defer store.Close()

	leads := testLeads()
	require.NoError(t, store.Save(context.Background(), leads))
	require.NoError(t, store.Save(context.Background(), leads[:1]))

	contacts := readLines(t, store.Path(models.LeadContact))
	require.Len(t, contacts, 3)
	assert.Equal(t, "Anna", contacts[0].Name)
	assert.Equal(t, "Laia", contacts[1].Name)
	assert.Equal(t, leads[0].ID, contacts[2].ID)

	renovations := readLines(t, store.Path(models.LeadRenovation))
	require.Len(t, renovations, 1)
	assert.Equal(t, "Pau", renovations[0].Name)
	assert.Equal(t, now, renovations[0].CreatedAt)
}

func TestFileStore_CanceledContext(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = store.Save(ctx, testLeads())
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, store.Path(models.LeadContact))
}

func TestSQLStore_Save(t *testing.T) {
	store, err := NewSQLStore(filepath.Join(t.TempDir(), "db", "leads.db"))
	require.NoError(t, err)
	defer store.Close()

	leads := testLeads()
	require.NoError(t, store.Save(context.Background(), leads))
	require.NoError(t, store.Save(context.Background(), nil))

	var count int64
	require.NoError(t, store.GetDB().Model(&models.Lead{}).Where("kind = ?", models.LeadContact).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	var stored models.Lead
	require.NoError(t, store.GetDB().First(&stored, "id = ?", leads[1].ID).Error)
	assert.Equal(t, "Pau", stored.Name)
	assert.Equal(t, models.LeadRenovation, stored.Kind)

	// duplicate IDs roll the whole batch back
	err = store.Save(context.Background(), []models.Lead{
		models.NewContactLead(models.ContactRequest{Name: "New"}, now),
		leads[0],
	})
	assert.Error(t, err)
	require.NoError(t, store.GetDB().Model(&models.Lead{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestOpen(t *testing.T) {
	logger := logrus.New()

	cfg := &config.Config{}
	cfg.Leads.Store = config.LeadStoreFile
	cfg.Leads.Dir = t.TempDir()
	store, err := Open(cfg, logger)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)

	cfg.Leads.Store = config.LeadStoreSQLite
	cfg.Leads.DBPath = filepath.Join(t.TempDir(), "leads.db")
	store, err = Open(cfg, logger)
	require.NoError(t, err)
	assert.IsType(t, &SQLStore{}, store)
	require.NoError(t, store.Close())

	cfg.Leads.Store = "postgres"
	_, err = Open(cfg, logger)
	assert.Error(t, err)
}
