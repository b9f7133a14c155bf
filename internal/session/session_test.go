package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetReturnsFreshSession(t *testing.T) {
	store := NewMemoryStore(0)

	sess, err := store.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), sess.ChatID)
	assert.Equal(t, StateShopCategories, sess.State)
	assert.Equal(t, BrandDraft{}, sess.BrandDraft)
	assert.Equal(t, VariantDraft{}, sess.VariantDraft)
}

func TestMemoryStore_PutGetRoundTrip(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	sess := &Session{
		ChatID: 42,
		State:  StateAddVariantPrice,
		VariantDraft: VariantDraft{
			CategoryID: 1,
			ProductID:  7,
			Option:     "Black",
		},
	}
	require.NoError(t, store.Put(ctx, sess))

	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	// The store must hand out copies, not aliases.
	got.VariantDraft.Option = "White"
	again, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Black", again.VariantDraft.Option)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &Session{ChatID: 42, State: StateAdminMenu}))
	require.NoError(t, store.Delete(ctx, 42))

	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, StateShopCategories, got.State)
}

func TestMemoryStore_TTLExpiresIdleSessions(t *testing.T) {
	store := NewMemoryStore(30 * time.Minute)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	store.now = func() time.Time { return now }

	require.NoError(t, store.Put(ctx, &Session{ChatID: 42, State: StateAddBrandName, BrandDraft: BrandDraft{CategoryID: 2}}))

	// Still inside the TTL window: the session survives.
	now = base.Add(29 * time.Minute)
	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, StateAddBrandName, got.State)

	// Past the TTL: the caller gets a fresh shop-root session.
	now = base.Add(31 * time.Minute)
	got, err = store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, StateShopCategories, got.State)
	assert.Equal(t, BrandDraft{}, got.BrandDraft)
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	store.now = func() time.Time { return now }

	require.NoError(t, store.Put(ctx, &Session{ChatID: 42, State: StateDeleteMenu}))

	now = base.Add(1000 * time.Hour)
	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, StateDeleteMenu, got.State)
}

func TestSession_Reset(t *testing.T) {
	sess := &Session{
		ChatID:       42,
		State:        StateAddVariantImage,
		BrandDraft:   BrandDraft{CategoryID: 1, Name: "Acme"},
		VariantDraft: VariantDraft{ProductID: 7, Option: "Black", Price: 25, Stock: 3},
	}
	sess.Reset()

	assert.Equal(t, int64(42), sess.ChatID)
	assert.Equal(t, StateShopCategories, sess.State)
	assert.Equal(t, BrandDraft{}, sess.BrandDraft)
	assert.Equal(t, VariantDraft{}, sess.VariantDraft)
}

func TestState_IsAdmin(t *testing.T) {
	for _, s := range []State{StateShopCategories, StateShopBrands, StateShopVariants} {
		assert.False(t, s.IsAdmin(), "state %d", s)
	}
	for _, s := range []State{
		StateAdminMenu, StateAddBrandCategory, StateAddBrandName, StateAddBrandConfirm,
		StateAddVariantCategory, StateAddVariantBrand, StateAddVariantOption,
		StateAddVariantPrice, StateAddVariantStock, StateAddVariantImage,
		StateDeleteMenu, StateDeleteBrandCategory, StateDeleteBrandPick, StateDeleteBrandConfirm,
		StateDeleteVariantCategory, StateDeleteVariantBrand, StateDeleteVariantPick,
	} {
		assert.True(t, s.IsAdmin(), "state %d", s)
	}
}
