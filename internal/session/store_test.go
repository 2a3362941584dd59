package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/blank122/alumni-link-wizard/internal/wizard"
)

func TestStoreRoundtrip(t *testing.T) {
	store := NewStore(time.Minute, zap.NewNop())
	w := wizard.New()
	store.Put(w)

	got, err := store.Get(w.ID())
	require.NoError(t, err)
	assert.Same(t, w, got)
	assert.Equal(t, 1, store.Len())
}

func TestStoreUnknownSession(t *testing.T) {
	store := NewStore(time.Minute, zap.NewNop())
	_, err := store.Get(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreDelete(t *testing.T) {
	store := NewStore(time.Minute, zap.NewNop())
	w := wizard.New()
	store.Put(w)
	store.Delete(w.ID())

	_, err := store.Get(w.ID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreExpiry(t *testing.T) {
	store := NewStore(30*time.Millisecond, zap.NewNop())
	w := wizard.New()
	store.Put(w)

	time.Sleep(80 * time.Millisecond)
	_, err := store.Get(w.ID())
	assert.ErrorIs(t, err, ErrNotFound)
}
