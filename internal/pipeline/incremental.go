package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/soiree/internal/logger"
	"github.com/theirongolddev/soiree/internal/model"
	"github.com/theirongolddev/soiree/internal/source"
	"github.com/theirongolddev/soiree/internal/store"
)

// LoadWithCache returns the cached parse of the record file when its mtime,
// size and the rounding mode are unchanged, and re-parses (refreshing the
// cache) otherwise. Cache write failures are logged, not returned: the CSV
// file stays the source of truth.
func LoadWithCache(st *source.Store, cache *store.Cache) (*LoadResult, error) {
	key, err := filepath.Abs(st.Path())
	if err != nil {
		key = st.Path()
	}

	info, exists, err := st.Stat()
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cache.DeleteFile(key); err != nil {
			logger.Warn("dropping cache for %s: %v", key, err)
		}
		return &LoadResult{Records: model.RecordSet{}, Missing: true}, nil
	}

	tracked, ok, err := cache.GetTrackedFile(key)
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	rounding := st.Rounding().String()
	if ok && tracked.MtimeNs == info.MtimeNs && tracked.SizeBytes == info.SizeBytes && tracked.Rounding == rounding {
		records, err := cache.LoadRecords(key)
		if err == nil {
			logger.Debug("cache hit for %s (%d records)", key, len(records))
			return &LoadResult{Records: records, Rederived: tracked.Rederived, FromCache: true}, nil
		}
		logger.Warn("cached records for %s unreadable, re-parsing: %v", key, err)
	}

	result, err := Load(st)
	if err != nil {
		return nil, err
	}

	err = cache.SaveRecords(key, result.Records, store.Tracked{
		MtimeNs:   info.MtimeNs,
		SizeBytes: info.SizeBytes,
		Rounding:  rounding,
		Rederived: result.Rederived,
	})
	if err != nil {
		logger.Warn("caching %s: %v", key, err)
	}
	return result, nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "soiree")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "soiree")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "records.db")
}
