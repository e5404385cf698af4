package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	reUUID  = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[1-5][a-f0-9]{3}-[89ab][a-f0-9]{3}-[a-f0-9]{12}$`)
	reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)
)

// epoch values above this are milliseconds
const epochMillisFloor = 1e12

func nowUTC() time.Time { return time.Now().UTC() }

func bodyHash(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// buildKey scopes a request id to one route and one caller.
func buildKey(method, path, caller, requestID string) string {
	return strings.Join([]string{"idemp", "ax", strings.ToLower(method), path, caller, requestID}, ":")
}

// validReqID expects an already lowercased id: a UUID (v1-v5) or 32 hex chars.
func validReqID(id string) bool {
	return reHex32.MatchString(id) || reUUID.MatchString(id)
}

// parseAxRequestAt reads epoch seconds, epoch milliseconds or an RFC3339
// timestamp carrying a zone. Zone-less timestamps are rejected.
func parseAxRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing Ax-Request-At")
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > epochMillisFloor {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	// RFC3339Nano also accepts values without fractional seconds
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New("Ax-Request-At must be epoch (s/ms) or RFC3339 with timezone")
}

func (e idempEntry) encode() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode idempotency entry: %w", err)
	}
	return b, nil
}

// provisionalSet claims key for an in-flight request. false means someone holds it.
func provisionalSet(ctx context.Context, rdb *redis.Client, key string, entry idempEntry) (bool, error) {
	payload, err := entry.encode()
	if err != nil {
		return false, err
	}
	return rdb.SetNX(ctx, key, payload, provisionalLockTTL).Result()
}

// loadEntry fails on a missing key and on a value that does not decode.
func loadEntry(ctx context.Context, rdb *redis.Client, key string) (idempEntry, error) {
	var e idempEntry
	raw, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return e, err
	}
	if err := json.Unmarshal(raw, &e); err != nil {
		return idempEntry{}, fmt.Errorf("decode idempotency entry %s: %w", key, err)
	}
	return e, nil
}

func saveFinal(ctx context.Context, rdb *redis.Client, key string, entry idempEntry, ttl time.Duration) error {
	payload, err := entry.encode()
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, payload, ttl).Err()
}
