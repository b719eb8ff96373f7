// Package session is the small persistent key-value layer: login sessions
// with a sliding expiry, the onboarding-completion flag, biometric sign-in
// enablement and the cached last-known location. Everything lives in Redis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// session:{uid} -> JWT. Sliding expiry: every read re-arms the TTL.
	keySession = "session:%s"

	// onboarding:{uid} -> completed onboarding version tag.
	keyOnboarding = "onboarding:%s"

	// location:{uid} -> JSON last-known location.
	keyLocation = "location:%s"

	// biometric:{device} -> user id associated at enablement time.
	keyBiometric = "biometric:%s"
)

// OnboardingVersion tags completed onboardings. Bumping it forces every user
// back through onboarding on their next launch.
const OnboardingVersion = "v2"

var (
	SessionTTL  = 30 * time.Minute
	LocationTTL = 24 * time.Hour
)

// ErrNotFound is returned for absent or expired keys.
var ErrNotFound = errors.New("session: not found")

// Location is a cached device position.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Place     string  `json:"place,omitempty"`
}

// Store wraps the Redis client with the app's key scheme.
type Store struct {
	rdb *redis.Client
}

// NewStore creates a store over an existing client.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// SaveToken stores the user's session token with the sliding TTL.
func (s *Store) SaveToken(ctx context.Context, userID, token string) error {
	return s.rdb.Set(ctx, fmt.Sprintf(keySession, userID), token, SessionTTL).Err()
}

// Token returns the user's session token and re-arms the sliding expiry.
// Expired or missing sessions return ErrNotFound.
func (s *Store) Token(ctx context.Context, userID string) (string, error) {
	key := fmt.Sprintf(keySession, userID)
	token, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if err := s.rdb.Expire(ctx, key, SessionTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// DeleteToken ends the user's session.
func (s *Store) DeleteToken(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, fmt.Sprintf(keySession, userID)).Err()
}

// CompleteOnboarding marks onboarding done at the current version.
func (s *Store) CompleteOnboarding(ctx context.Context, userID string) error {
	return s.rdb.Set(ctx, fmt.Sprintf(keyOnboarding, userID), OnboardingVersion, 0).Err()
}

// OnboardingDone reports whether the user finished onboarding at the current
// version. A flag from an older version counts as not done.
func (s *Store) OnboardingDone(ctx context.Context, userID string) (bool, error) {
	v, err := s.rdb.Get(ctx, fmt.Sprintf(keyOnboarding, userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == OnboardingVersion, nil
}

// SaveLocation caches the device's last-known position.
func (s *Store) SaveLocation(ctx context.Context, userID string, loc Location) error {
	payload, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, fmt.Sprintf(keyLocation, userID), payload, LocationTTL).Err()
}

// LastLocation returns the cached position, or ErrNotFound.
func (s *Store) LastLocation(ctx context.Context, userID string) (Location, error) {
	raw, err := s.rdb.Get(ctx, fmt.Sprintf(keyLocation, userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Location{}, ErrNotFound
	}
	if err != nil {
		return Location{}, err
	}
	var loc Location
	if err := json.Unmarshal(raw, &loc); err != nil {
		return Location{}, err
	}
	return loc, nil
}

// EnableBiometric associates a device with a user for biometric sign-in.
func (s *Store) EnableBiometric(ctx context.Context, deviceID, userID string) error {
	return s.rdb.Set(ctx, fmt.Sprintf(keyBiometric, deviceID), userID, 0).Err()
}

// DisableBiometric removes the device association.
func (s *Store) DisableBiometric(ctx context.Context, deviceID string) error {
	return s.rdb.Del(ctx, fmt.Sprintf(keyBiometric, deviceID)).Err()
}

// BiometricUser returns the user id a device was enrolled for, or ErrNotFound
// when biometric sign-in was never enabled on it.
func (s *Store) BiometricUser(ctx context.Context, deviceID string) (string, error) {
	userID, err := s.rdb.Get(ctx, fmt.Sprintf(keyBiometric, deviceID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return userID, err
}
