package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"wordquiz/internal/domain"
)

const keyPrefix = "wordquiz:session:"

// SessionRepo stores user states in Redis with a sliding TTL
type SessionRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func NewSessionRepo(cfg Config) *SessionRepo {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &SessionRepo{
		rdb: rdb,
		ttl: cfg.TTL,
	}
}

type sessionEntry struct {
	State         string    `json:"state"`
	PendingWordID int64     `json:"pending_word_id,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (r *SessionRepo) GetSession(ctx context.Context, userID int64) (domain.Session, error) {
	val, err := r.rdb.Get(ctx, key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.IdleSession(userID), nil
		}
		return domain.Session{}, fmt.Errorf("get session from redis: %w", err)
	}

	var e sessionEntry
	if err := json.Unmarshal([]byte(val), &e); err != nil {
		return domain.Session{}, fmt.Errorf("deserialize session: %w", err)
	}

	s := domain.Session{
		UserID:        userID,
		State:         domain.State(e.State),
		PendingWordID: e.PendingWordID,
		UpdatedAt:     e.UpdatedAt,
	}
	if !s.State.Valid() {
		return domain.IdleSession(userID), nil
	}

	return s, nil
}

func (r *SessionRepo) SaveSession(ctx context.Context, s domain.Session) error {
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now()
	}

	b, err := json.Marshal(sessionEntry{
		State:         string(s.State),
		PendingWordID: s.PendingWordID,
		UpdatedAt:     s.UpdatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("serialize session: %w", err)
	}

	if err := r.rdb.Set(ctx, key(s.UserID), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("store session in redis: %w", err)
	}
	return nil
}

// PruneSessions is a no-op: Redis expires keys on its own
func (r *SessionRepo) PruneSessions(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (r *SessionRepo) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *SessionRepo) Close() error {
	return r.rdb.Close()
}

func key(userID int64) string {
	return keyPrefix + strconv.FormatInt(userID, 10)
}
