package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/engine"
	"backend/internal/models"
)

func TestStore_PutAndGet(t *testing.T) {
	store := NewStore(DefaultTTL)
	id := store.Put(engine.Result{Daily: []models.DailyOutput{{Worker: "Anders"}}})

	session, ok := store.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Anders", session.Daily[0].Worker)
}

func TestStore_GetUnknownSession(t *testing.T) {
	store := NewStore(DefaultTTL)
	_, ok := store.Get("does-not-exist")
	assert.False(t, ok)
}

func TestStore_SweepsExpiredSessions(t *testing.T) {
	store := NewStore(1 * time.Millisecond)
	id := store.Put(engine.Result{})

	time.Sleep(5 * time.Millisecond)
	store.Put(engine.Result{}) // triggers a sweep on insert

	_, ok := store.Get(id)
	assert.False(t, ok, "session older than ttl must be swept")
}

func TestStore_Replace(t *testing.T) {
	store := NewStore(DefaultTTL)
	id := store.Put(engine.Result{Daily: []models.DailyOutput{{Worker: "Anders"}}})

	ok := store.Replace(id, engine.Result{Daily: []models.DailyOutput{{Worker: "Berit"}}})
	require.True(t, ok)

	session, _ := store.Get(id)
	assert.Equal(t, "Berit", session.Daily[0].Worker)
}

func TestStore_ReplaceUnknownSessionFails(t *testing.T) {
	store := NewStore(DefaultTTL)
	ok := store.Replace("nope", engine.Result{})
	assert.False(t, ok)
}
