package cascade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bimeh/internal/errors"
)

func loadTier(t *testing.T, r *Resolver, req FetchRequest, options ...Option) {
	t.Helper()
	require.True(t, r.Deliver(FetchResult{Tier: req.Tier, Epoch: req.Epoch, Options: options}))
	require.Equal(t, Loaded, r.StateOf(req.Tier))
}

func TestResolver_SelectWalksDownTheHierarchy(t *testing.T) {
	r := New()
	stateID := uuid.New()
	cityID := uuid.New()

	req := r.Init()
	assert.Equal(t, TierState, req.Tier)
	loadTier(t, r, req, Option{ID: stateID, Name: "تهران"})

	req, ok, err := r.Select(TierState, stateID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, TierCity, req.Tier)
	assert.Equal(t, stateID, req.ParentID)
	loadTier(t, r, req, Option{ID: cityID, Name: "تهران"})

	req, ok, err = r.Select(TierCity, cityID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, TierCounty, req.Tier)

	selected, found := r.Selected(TierState)
	require.True(t, found)
	assert.Equal(t, stateID, selected)
}

func TestResolver_SelectClearsDescendants(t *testing.T) {
	r := New()
	firstState := uuid.New()
	secondState := uuid.New()
	cityID := uuid.New()
	countyID := uuid.New()

	req := r.Init()
	loadTier(t, r, req, Option{ID: firstState}, Option{ID: secondState})

	req, _, err := r.Select(TierState, firstState)
	require.NoError(t, err)
	loadTier(t, r, req, Option{ID: cityID})

	req, _, err = r.Select(TierCity, cityID)
	require.NoError(t, err)
	loadTier(t, r, req, Option{ID: countyID})

	_, _, err = r.Select(TierCounty, countyID)
	require.NoError(t, err)

	// Re-selecting the state must wipe everything below it in one step.
	_, _, err = r.Select(TierState, secondState)
	require.NoError(t, err)

	for tier := TierCounty; tier <= TierSchool; tier++ {
		_, found := r.Selected(tier)
		assert.False(t, found, "tier %s still selected", tier)
		assert.Equal(t, NotFetched, r.StateOf(tier), "tier %s not cleared", tier)
	}
	assert.Equal(t, Loading, r.StateOf(TierCity))
}

func TestResolver_StaleDeliveryIsDiscarded(t *testing.T) {
	r := New()
	firstState := uuid.New()
	secondState := uuid.New()

	req := r.Init()
	loadTier(t, r, req, Option{ID: firstState}, Option{ID: secondState})

	first, _, err := r.Select(TierState, firstState)
	require.NoError(t, err)

	// A newer selection supersedes the pending city fetch.
	second, _, err := r.Select(TierState, secondState)
	require.NoError(t, err)

	assert.False(t, r.Deliver(FetchResult{Tier: TierCity, Epoch: first.Epoch, Options: []Option{{ID: uuid.New()}}}))
	assert.Equal(t, Loading, r.StateOf(TierCity))

	assert.True(t, r.Deliver(FetchResult{Tier: TierCity, Epoch: second.Epoch, Options: []Option{{ID: uuid.New()}}}))
	assert.Equal(t, Loaded, r.StateOf(TierCity))
}

func TestResolver_EmptyAndFailedAreDistinct(t *testing.T) {
	r := New()
	stateID := uuid.New()

	req := r.Init()
	loadTier(t, r, req, Option{ID: stateID})

	req, _, err := r.Select(TierState, stateID)
	require.NoError(t, err)

	require.True(t, r.Deliver(FetchResult{Tier: req.Tier, Epoch: req.Epoch}))
	assert.Equal(t, Empty, r.StateOf(TierCity))

	// Selecting on an empty tier is rejected, not treated as pending.
	_, _, err = r.Select(TierCity, uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTierNotLoaded))

	// A failed fetch lands in Failed and can be retried.
	req, _, err = r.Select(TierState, stateID)
	require.NoError(t, err)
	require.True(t, r.Deliver(FetchResult{Tier: req.Tier, Epoch: req.Epoch, Err: errors.New("boom")}))
	assert.Equal(t, Failed, r.StateOf(TierCity))

	retry, ok := r.Retry(TierCity)
	require.True(t, ok)
	assert.Equal(t, TierCity, retry.Tier)
	assert.Equal(t, stateID, retry.ParentID)
	assert.Equal(t, Loading, r.StateOf(TierCity))
}

func TestResolver_SelectRejectsUnknownOption(t *testing.T) {
	r := New()

	req := r.Init()
	loadTier(t, r, req, Option{ID: uuid.New()})

	_, _, err := r.Select(TierState, uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownOption))
}

func TestResolver_ReadyOnlyWithLeafSelection(t *testing.T) {
	r := New()
	assert.False(t, r.Ready(TierSchool))

	req := r.Init()
	for {
		id := uuid.New()
		loadTier(t, r, req, Option{ID: id})

		next, ok, err := r.Select(req.Tier, id)
		require.NoError(t, err)
		if !ok {
			break
		}
		assert.False(t, r.Ready(TierSchool))
		req = next
	}

	assert.True(t, r.Ready(TierSchool))
}

func TestResolver_ReadyAtIntermediateLeaf(t *testing.T) {
	r := New()

	req := r.Init()
	for tier := TierState; tier <= TierRegion; tier++ {
		id := uuid.New()
		loadTier(t, r, req, Option{ID: id})

		next, ok, err := r.Select(tier, id)
		require.NoError(t, err)
		require.True(t, ok)
		req = next
	}

	assert.False(t, r.Ready(TierDistrict))
	assert.False(t, r.Ready(TierSchool))

	id := uuid.New()
	loadTier(t, r, req, Option{ID: id})
	_, _, err := r.Select(TierDistrict, id)
	require.NoError(t, err)

	assert.True(t, r.Ready(TierDistrict))
	assert.False(t, r.Ready(TierSchool))
	assert.False(t, r.Ready(Tier(99)))
}

func TestParseTier(t *testing.T) {
	for tier := TierState; tier <= TierSchool; tier++ {
		parsed, ok := ParseTier(tier.String())
		require.True(t, ok)
		assert.Equal(t, tier, parsed)
	}

	_, ok := ParseTier("village")
	assert.False(t, ok)
}
