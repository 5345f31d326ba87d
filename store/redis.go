package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/redis/go-redis/v9"
)

const defaultRedisTimeout = 3 * time.Second

// Redis is a CredentialStore backed by Redis, for deployments where several
// client replicas must share one session and one refreshed token pair. All
// three slots are written in a single transactional pipeline and cleared
// with a single DEL so no reader observes a half state.
type Redis struct {
	redis   redis.UniversalClient
	prefix  string
	timeout time.Duration
}

// NewRedis describes the newredis operation and its observable behavior.
//
// NewRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = "gs"
	}
	return &Redis{
		redis:   client,
		prefix:  prefix,
		timeout: defaultRedisTimeout,
	}
}

func (r *Redis) accessKey() string  { return r.prefix + ":access" }
func (r *Redis) refreshKey() string { return r.prefix + ":refresh" }
func (r *Redis) profileKey() string { return r.prefix + ":user" }

func (r *Redis) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

// Save describes the save operation and its observable behavior.
//
// Save may return an error when input validation, dependency calls, or security checks fail.
func (r *Redis) Save(cred goSession.Credential, profile *goSession.UserProfile) error {
	if err := checkPair(cred); err != nil {
		return err
	}

	ctx, cancel := r.opContext()
	defer cancel()

	pipe := r.redis.TxPipeline()
	pipe.Set(ctx, r.accessKey(), cred.AccessToken, 0)
	pipe.Set(ctx, r.refreshKey(), cred.RefreshToken, 0)

	if profile != nil {
		encoded, err := json.Marshal(profile)
		if err != nil {
			return fmt.Errorf("encode profile: %w", err)
		}
		pipe.Set(ctx, r.profileKey(), encoded, 0)
	} else {
		pipe.Del(ctx, r.profileKey())
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// Load describes the load operation and its observable behavior.
//
// Load may return an error when input validation, dependency calls, or security checks fail.
func (r *Redis) Load() (goSession.Credential, error) {
	ctx, cancel := r.opContext()
	defer cancel()

	values, err := r.redis.MGet(ctx, r.accessKey(), r.refreshKey()).Result()
	if err != nil {
		return goSession.Credential{}, fmt.Errorf("load credentials: %w", err)
	}

	cred := goSession.Credential{
		AccessToken:  stringValue(values[0]),
		RefreshToken: stringValue(values[1]),
	}
	if !cred.Complete() {
		// a half pair in redis is not a session
		return goSession.Credential{}, nil
	}
	return cred, nil
}

// LoadProfile describes the loadprofile operation and its observable behavior.
//
// LoadProfile may return an error when input validation, dependency calls, or security checks fail.
func (r *Redis) LoadProfile() (*goSession.UserProfile, error) {
	ctx, cancel := r.opContext()
	defer cancel()

	encoded, err := r.redis.Get(ctx, r.profileKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}

	profile := &goSession.UserProfile{}
	if err := json.Unmarshal(encoded, profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return profile, nil
}

// Clear describes the clear operation and its observable behavior.
//
// Clear may return an error when input validation, dependency calls, or security checks fail.
func (r *Redis) Clear() error {
	ctx, cancel := r.opContext()
	defer cancel()

	if err := r.redis.Del(ctx, r.accessKey(), r.refreshKey(), r.profileKey()).Err(); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}
