package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Store backed by Redis. Records never expire, matching
// the process-lifetime semantics of the memory store.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// record is the wire form of a session. Attribute values round-trip as
// JSON, so a restored session carries the principal only as its account
// name, not the original typed record.
type record struct {
	ID         string         `json:"id"`
	Account    string         `json:"account,omitempty"`
	Attributes map[string]any `json:"attributes"`
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "session:",
	}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

func (r *RedisStore) userKey(account string) string {
	return r.prefix + "user:" + account
}

func (r *RedisStore) Add(ctx context.Context, s *Session) error {
	rec := record{
		ID:         s.ID(),
		Account:    s.PrincipalName(),
		Attributes: s.attributes(),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}

	ok, err := r.client.SetNX(ctx, r.key(s.ID()), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrDuplicateID
	}

	if rec.Account != "" {
		if err := r.client.Set(ctx, r.userKey(rec.Account), s.ID(), 0).Err(); err != nil {
			return err
		}
	}
	return nil
}

func (r *RedisStore) Find(ctx context.Context, id string) (*Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}

	val, err := r.client.Get(ctx, r.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("session: unmarshal: %w", err)
	}

	s := New(rec.ID)
	for k, v := range rec.Attributes {
		s.SetAttribute(k, v)
	}
	return s, nil
}

func (r *RedisStore) FindSessionIDForUser(ctx context.Context, account string) (string, error) {
	if account == "" {
		return "", nil
	}

	id, err := r.client.Get(ctx, r.userKey(account)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *RedisStore) Invalidate(ctx context.Context, id string) error {
	val, err := r.client.Get(ctx, r.key(id)).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}

	var rec record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return fmt.Errorf("session: unmarshal: %w", err)
	}

	if rec.Account != "" {
		if err := r.client.Del(ctx, r.userKey(rec.Account)).Err(); err != nil {
			return err
		}
	}

	rec.Account = ""
	rec.Attributes = map[string]any{}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	return r.client.Set(ctx, r.key(id), data, 0).Err()
}
