package readingcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"

	"github.com/AlexHuggler/LCI-tracker/internal/domain/lsi"
	"github.com/AlexHuggler/LCI-tracker/internal/domain/pool"
)

// ValkeyCache keeps last readings in a Valkey-compatible database.
type ValkeyCache struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string, ttl time.Duration) *ValkeyCache {
	if prefix == "" {
		prefix = "lci"
	}
	return &ValkeyCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *ValkeyCache) LastReading(ctx context.Context, poolID uuid.UUID) (lsi.Reading, bool, error) {
	cmd := c.client.B().Get().Key(c.readingKey(poolID)).Build()
	payload, err := c.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return lsi.Reading{}, false, nil
		}
		return lsi.Reading{}, false, err
	}
	var reading lsi.Reading
	if err := json.Unmarshal([]byte(payload), &reading); err != nil {
		return lsi.Reading{}, false, err
	}
	return reading, true, nil
}

func (c *ValkeyCache) SaveReading(ctx context.Context, poolID uuid.UUID, reading lsi.Reading) error {
	payload, err := json.Marshal(reading)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.readingKey(poolID)).Value(string(payload))
	var cmd valkey.Completed
	if c.ttl > 0 {
		ttl := c.ttl
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) readingKey(poolID uuid.UUID) string {
	return fmt.Sprintf("%s:reading:%s", c.prefix, poolID)
}

var _ pool.ReadingCache = (*ValkeyCache)(nil)
