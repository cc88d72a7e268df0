package settings

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neonfood/internal/logger"
	"neonfood/internal/models"
)

type fakeStore struct {
	mu     sync.Mutex
	stored *models.Settings
	loads  int
	saves  int
	fail   error
}

func (f *fakeStore) Load(ctx context.Context) (*models.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.fail != nil {
		return nil, f.fail
	}
	return f.stored, nil
}

func (f *fakeStore) Init(ctx context.Context, s *models.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	if f.stored == nil {
		f.stored = s
	}
	return nil
}

func (f *fakeStore) Save(ctx context.Context, s *models.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.fail != nil {
		return f.fail
	}
	f.stored = s
	return nil
}

func TestGet_CreatesDefaultsLazily(t *testing.T) {
	store := &fakeStore{}
	provider := NewProvider(store, logger.New("test"))

	require.Nil(t, provider.Current(), "no snapshot before first load")

	got, err := provider.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), got)
	assert.NotNil(t, store.stored, "defaults were persisted")

	// Second Get serves the cached snapshot.
	again, err := provider.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, got, again)
	assert.Equal(t, 1, store.loads)
}

func TestGet_LoadFailure(t *testing.T) {
	store := &fakeStore{fail: errors.New("connection refused")}
	provider := NewProvider(store, logger.New("test"))

	_, err := provider.Get(context.Background())
	var persistenceErr *models.PersistenceError
	require.ErrorAs(t, err, &persistenceErr)
	assert.Nil(t, provider.Current())
}

func TestSave_SwapsSnapshot(t *testing.T) {
	store := &fakeStore{}
	provider := NewProvider(store, logger.New("test"))

	_, err := provider.Get(context.Background())
	require.NoError(t, err)

	updated := models.DefaultSettings()
	updated.TaxRate = 12.0
	require.NoError(t, provider.Save(context.Background(), updated))

	assert.Same(t, updated, provider.Current())
	assert.Equal(t, 1, store.saves)
}

func TestSave_RejectsInvalidRanges(t *testing.T) {
	store := &fakeStore{}
	provider := NewProvider(store, logger.New("test"))

	bad := models.DefaultSettings()
	bad.TaxRate = 75

	err := provider.Save(context.Background(), bad)
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 0, store.saves, "invalid settings never reach the store")
}

func TestRefresh_ReloadsFromStore(t *testing.T) {
	store := &fakeStore{}
	provider := NewProvider(store, logger.New("test"))

	_, err := provider.Get(context.Background())
	require.NoError(t, err)

	// Simulate an out-of-band edit.
	store.mu.Lock()
	external := models.DefaultSettings()
	external.ServiceFee = 3.75
	store.stored = external
	store.mu.Unlock()

	require.NoError(t, provider.Refresh(context.Background()))
	assert.InDelta(t, 3.75, provider.Current().ServiceFee, 0.001)
}

func TestConcurrentReadersSeeCompleteSnapshots(t *testing.T) {
	store := &fakeStore{}
	provider := NewProvider(store, logger.New("test"))

	seed := models.DefaultSettings()
	seed.ServiceFee = 0.5
	seed.TaxRate = 0.5
	require.NoError(t, provider.Save(context.Background(), seed))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(fee float64) {
			defer wg.Done()
			s := models.DefaultSettings()
			s.ServiceFee = fee
			s.TaxRate = fee
			_ = provider.Save(context.Background(), s)
		}(float64(i + 1))
	}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap := provider.Current()
			require.NotNil(t, snap)
			// Snapshot-swap semantics: both fields come from the same write.
			assert.InDelta(t, snap.TaxRate, snap.ServiceFee, 0.001)
		}()
	}
	wg.Wait()
}

func TestSettingsMergeSemantics(t *testing.T) {
	current := models.DefaultSettings()

	merged := *current
	body := []byte(`{"tax_rate": 10, "notifications": {"newOrders": false}}`)
	require.NoError(t, json.Unmarshal(body, &merged))

	assert.InDelta(t, 10, merged.TaxRate, 0.001)
	assert.False(t, merged.Notifications.NewOrders)
	// Untouched fields keep their previous values.
	assert.InDelta(t, current.ServiceFee, merged.ServiceFee, 0.001)
	assert.True(t, merged.Notifications.OrderReady)
	assert.Equal(t, current.RestaurantName, merged.RestaurantName)
}
