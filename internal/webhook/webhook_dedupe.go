package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const dedupeTTL = 10 * time.Minute

// Deduper drops redelivered webhook messages by their WhatsApp message id.
// SetNX gives one atomic claim per id; Redis being down fails open, the
// engine's per-phone lock and day-unique ledger row still bound the damage.
type Deduper struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewDeduper(rdb *redis.Client, logger *zap.Logger) *Deduper {
	return &Deduper{rdb: rdb, logger: logger.Named("webhook.dedupe")}
}

// Seen reports whether this message id was already claimed by an earlier
// delivery.
func (d *Deduper) Seen(ctx context.Context, messageID string) bool {
	if d.rdb == nil || messageID == "" {
		return false
	}

	key := fmt.Sprintf("webhook:seen:%s", messageID)
	claimed, err := d.rdb.SetNX(ctx, key, "1", dedupeTTL).Result()
	if err != nil {
		d.logger.Warn("dedupe check failed, processing anyway", zap.Error(err))
		return false
	}
	return !claimed
}
