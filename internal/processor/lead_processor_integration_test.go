package processor

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esklenchen/server/internal/leads"
	"esklenchen/server/internal/models"
	"esklenchen/server/internal/queue"
)

func generateTestLeads(count int) []models.Lead {
	now := time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)
	batch := make([]models.Lead, count)
	for i := range batch {
		if i%2 == 0 {
			batch[i] = models.NewContactLead(models.ContactRequest{
				Name:  fmt.Sprintf("Contact %d", i),
				Email: fmt.Sprintf("lead%d@example.com", i),
			}, now)
		} else {
			batch[i] = models.NewRenovationLead(models.RenovationRequest{
				Name:            fmt.Sprintf("Owner %d", i),
				PropertyAddress: fmt.Sprintf("Carrer Major %d", i),
			}, now)
		}
	}
	return batch
}

func setupSQLStore(tb testing.TB) *leads.SQLStore {
	tb.Helper()
	store, err := leads.NewSQLStore(filepath.Join(tb.TempDir(), "leads.db"))
	require.NoError(tb, err)
	tb.Cleanup(func() { store.Close() })
	return store
}

func TestLeadProcessingIntegration(t *testing.T) {
	store := setupSQLStore(t)
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	q := queue.NewLeadQueue(16, logger)
	processor := NewLeadProcessor(store, q, testConfig(2), nil, logger)
	processor.Start()
	q.Start()

	all := generateTestLeads(20)
	for i := 0; i < len(all); i += 5 {
		require.NoError(t, q.Push(all[i:i+5]))
	}

	require.NoError(t, q.Close())
	q.Wait()
	processor.Stop()

	var count int64
	require.NoError(t, store.GetDB().Model(&models.Lead{}).Count(&count).Error)
	assert.Equal(t, int64(20), count)

	var renovations []models.Lead
	require.NoError(t, store.GetDB().Where("kind = ?", models.LeadRenovation).Order("name").Find(&renovations).Error)
	require.Len(t, renovations, 10)
	for _, lead := range renovations {
		assert.Contains(t, lead.PropertyAddress, "Carrer Major")
		assert.Equal(t, models.NoPhone, lead.Phone)
	}
}

func BenchmarkLeadProcessing(b *testing.B) {
	for _, batchSize := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("BatchSize_%d", batchSize), func(b *testing.B) {
			store := setupSQLStore(b)
			logger := logrus.New()
			logger.SetLevel(logrus.WarnLevel)

			processor := NewLeadProcessor(store, queue.NewLeadQueue(1, logger), testConfig(0), nil, logger)
			batches := make([][]models.Lead, b.N)
			for i := range batches {
				batches[i] = generateTestLeads(batchSize)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := processor.processBatch(batches[i]); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
