package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/HassanAliMAli/you-trend/pkg/hash"
)

// cachedReport serves a report from cache when possible and otherwise
// computes and stores it. generation is the fingerprint of the engine that
// compute uses. Cache failures are logged and never fail the call.
func cachedReport[T any](ctx context.Context, cache ReportCache, log zerolog.Logger, prefix, generation string, req any, compute func() T) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}

	var key string
	if cache != nil {
		k, err := hash.CacheKey(prefix, generation, req)
		if err != nil {
			log.Warn().Err(err).Str("prefix", prefix).Msg("cache key error, bypassing cache")
		} else {
			key = k
		}
	}

	if key != "" {
		data, err := cache.Get(ctx, key)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("prefix", prefix).Msg("cache get error")
		case data != nil:
			var report T
			decodeErr := json.Unmarshal(data, &report)
			if decodeErr == nil {
				return report, true, nil
			}
			log.Warn().Err(decodeErr).Str("prefix", prefix).Msg("undecodable cache entry, recomputing")
		}
	}

	report := compute()

	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if key != "" {
		if err := cache.Set(ctx, key, report); err != nil {
			log.Warn().Err(err).Str("prefix", prefix).Msg("cache set error")
		}
	}
	return report, false, nil
}
