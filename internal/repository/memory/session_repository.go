package memory

import (
	"time"

	"prados-legal-be/pkg/avatar"

	"github.com/patrickmn/go-cache"
)

// AvatarSessionRepository remembers avatar sessions created through the API
// so interrupt and close requests can be checked against them.
type AvatarSessionRepository struct {
	cache *cache.Cache
}

func NewAvatarSessionRepository(ttl time.Duration) *AvatarSessionRepository {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &AvatarSessionRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *AvatarSessionRepository) Save(session *avatar.Session) {
	r.cache.Set(session.SessionID, session, cache.DefaultExpiration)
}

func (r *AvatarSessionRepository) Get(sessionID string) (*avatar.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*avatar.Session), true
	}
	return nil, false
}

// Touch extends the expiry of an active session.
func (r *AvatarSessionRepository) Touch(sessionID string) {
	if s, ok := r.Get(sessionID); ok {
		r.cache.Set(sessionID, s, cache.DefaultExpiration)
	}
}

func (r *AvatarSessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *AvatarSessionRepository) Count() int {
	return r.cache.ItemCount()
}
