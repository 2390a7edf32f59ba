package memory

import (
	"time"

	"asistentas-gateway/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps open chat sessions in process memory. Sessions are
// dropped after ttl without access.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	cleanup := ttl / 6
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &SessionRepository{
		cache: cache.New(ttl, cleanup),
	}
}

// OnExpired registers fn for sessions evicted by the TTL janitor or Delete.
func (r *SessionRepository) OnExpired(fn func(sessionID string)) {
	r.cache.OnEvicted(func(key string, _ interface{}) {
		fn(key)
	})
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

// Get also slides the session's expiration forward.
func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	x, found := r.cache.Get(sessionID)
	if !found {
		return nil, false
	}
	session := x.(*store.Session)
	r.cache.Set(sessionID, session, cache.DefaultExpiration)
	return session, true
}

func (r *SessionRepository) Delete(sessionID string) bool {
	if _, found := r.cache.Get(sessionID); !found {
		return false
	}
	r.cache.Delete(sessionID)
	return true
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
