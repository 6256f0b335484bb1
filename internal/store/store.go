// Package store keeps gorilla sessions in Redis.
// The cookie carries only a signed session ID.
package store

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
	"github.com/vlatan/video-notes/internal/config"
	"github.com/vlatan/video-notes/internal/drivers/rdb"
)

type RedisStore struct {
	config    *config.Config
	rdb       *rdb.Service
	keyPrefix string
	maxAge    int
	codecs    []securecookie.Codec
}

func NewRedisStore(
	config *config.Config,
	rdb *rdb.Service,
	keyPrefix string,
	maxAge int,
	keyPairs ...[]byte) *RedisStore {

	codecs := securecookie.CodecsFromPairs(keyPairs...)
	for _, codec := range codecs {
		if sc, ok := codec.(*securecookie.SecureCookie); ok {
			sc.MaxAge(maxAge)
		}
	}

	return &RedisStore{
		config:    config,
		rdb:       rdb,
		keyPrefix: keyPrefix,
		maxAge:    maxAge,
		codecs:    codecs,
	}
}

// Get returns a session for the given name after adding it to the registry.
// It returns a new session if the sessions doesn't exist.
func (rs *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(rs, name)
}

// New loads the session from Redis or if none creates a new session
func (rs *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	// Create new session object
	session := rs.newSession(name)
	session.IsNew = true

	// Get the cookie
	cookie, err := r.Cookie(name)
	if err != nil {
		return session, nil // New session
	}

	// The cookie holds only the signed session ID
	var id string
	if err := securecookie.DecodeMulti(name, cookie.Value, &id, rs.codecs...); err != nil {
		return session, nil // New session
	}

	// Get from Redis
	val, err := rs.rdb.Client.Get(r.Context(), rs.key(id)).Result()
	if err == redis.Nil {
		return session, nil // New session
	}

	if err != nil {
		return session, err
	}

	// Decode session data
	err = securecookie.DecodeMulti(name, val, &session.Values, rs.codecs...)
	if err != nil {
		return session, nil // New session
	}

	session.ID = id
	session.IsNew = false
	return session, nil
}

// Save persists the session values in Redis and sets the ID cookie.
// A negative MaxAge deletes the session.
func (rs *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {

	// Delete the session
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := rs.rdb.Client.Del(r.Context(), rs.key(session.ID)).Err(); err != nil {
				return err
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = rs.generateSessionID()
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.Values, rs.codecs...)
	if err != nil {
		return err
	}

	ttl := time.Duration(session.Options.MaxAge) * time.Second
	if err := rs.rdb.Client.Set(r.Context(), rs.key(session.ID), encoded, ttl).Err(); err != nil {
		return err
	}

	signedID, err := securecookie.EncodeMulti(session.Name(), session.ID, rs.codecs...)
	if err != nil {
		return err
	}

	http.SetCookie(w, sessions.NewCookie(session.Name(), signedID, session.Options))
	return nil
}

// newSession creates a new session object
func (rs *RedisStore) newSession(name string) *sessions.Session {
	session := sessions.NewSession(rs, name)
	session.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   rs.maxAge,
		HttpOnly: true,
		Secure:   !rs.config.Debug,
		SameSite: http.SameSiteLaxMode,
	}
	return session
}

func (rs *RedisStore) key(id string) string {
	return rs.keyPrefix + ":" + id
}

func (rs *RedisStore) generateSessionID() string {
	return uuid.NewString()
}
