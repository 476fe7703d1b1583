package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazarly/vendor-portal/internal/core/domain"
)

func TestDraftStore_GetOrCreate(t *testing.T) {
	store := NewDraftStore()
	ctx := context.Background()

	first, err := store.GetOrCreate(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.NotEmpty(t, first.DraftID)
	assert.Equal(t, "s1", first.SessionID)
	assert.Equal(t, domain.StepBusiness, first.ActiveStep)

	// Same session, same draft.
	second, err := store.GetOrCreate(ctx, "s1")
	require.NoError(t, err)
	assert.Same(t, first, second)

	// A different session gets its own draft.
	other, err := store.GetOrCreate(ctx, "s2")
	require.NoError(t, err)
	assert.NotEqual(t, first.DraftID, other.DraftID)
}

func TestDraftStore_GetMissing(t *testing.T) {
	store := NewDraftStore()

	_, err := store.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}

func TestDraftStore_Delete(t *testing.T) {
	store := NewDraftStore()
	ctx := context.Background()

	_, err := store.GetOrCreate(ctx, "s1")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)

	// Deleting again is a no-op.
	assert.NoError(t, store.Delete(ctx, "s1"))
}

func TestDraftStore_DraftsDoNotSurviveNewStore(t *testing.T) {
	ctx := context.Background()

	store := NewDraftStore()
	draft, err := store.GetOrCreate(ctx, "s1")
	require.NoError(t, err)
	draft.Form.Sections[domain.StepBusiness]["businessNameEn"] = "Dates of Arabia"

	// A new store models a portal restart: the draft is gone by design.
	fresh := NewDraftStore()
	_, err = fresh.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}
