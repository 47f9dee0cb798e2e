package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"time"

	"hiring-screener/internal/common/database"
	"hiring-screener/internal/common/logger"
)

// Deduper suppresses repeated webhook deliveries. The form engine
// retries callbacks on slow responses, and re-validating the same
// submission would re-send outcome notifications.
type Deduper struct {
	redis  *database.RedisClient
	expiry time.Duration
	logger logger.Logger
}

func NewDeduper(redis *database.RedisClient, expiry time.Duration, log logger.Logger) *Deduper {
	return &Deduper{
		redis:  redis,
		expiry: expiry,
		logger: log.With(map[string]interface{}{"component": "dedup"}),
	}
}

// FirstDelivery reports whether this exact parameter set has not been
// seen inside the expiry window. The key is a digest of the canonical
// query encoding, so identical retries collapse and different
// candidates never collide.
func (d *Deduper) FirstDelivery(ctx context.Context, params url.Values) (bool, error) {
	digest := sha256.Sum256([]byte(params.Encode()))
	key := "submission:" + hex.EncodeToString(digest[:])
	return d.redis.SetNX(ctx, key, 1, d.expiry)
}
