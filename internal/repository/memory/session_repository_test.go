package memory

import (
	"testing"
	"time"

	"asistentas-gateway/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestSessionRepository(t *testing.T) {
	repo := NewSessionRepository(time.Hour)
	var evicted []string
	repo.OnExpired(func(id string) { evicted = append(evicted, id) })

	s := store.NewSession("s-1", "projektu-zvalgas", "model", time.Now())
	repo.Save(s)
	assert.Equal(t, 1, repo.Count())

	got, ok := repo.Get("s-1")
	assert.True(t, ok)
	assert.Same(t, s, got)

	_, ok = repo.Get("missing")
	assert.False(t, ok)

	assert.True(t, repo.Delete("s-1"))
	assert.False(t, repo.Delete("s-1"))
	assert.Equal(t, []string{"s-1"}, evicted)
	assert.Equal(t, 0, repo.Count())
}

func TestSessionRepositoryExpiry(t *testing.T) {
	repo := NewSessionRepository(10 * time.Millisecond)
	repo.Save(store.NewSession("s-1", "projektu-zvalgas", "model", time.Now()))

	time.Sleep(30 * time.Millisecond)
	_, ok := repo.Get("s-1")
	assert.False(t, ok)
}
