package pipeline

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/soiree/internal/logger"
	"github.com/theirongolddev/soiree/internal/model"
	"github.com/theirongolddev/soiree/internal/source"
	"github.com/theirongolddev/soiree/internal/store"
	"github.com/theirongolddev/soiree/internal/ticket"
)

// State is the application state: the loaded record set and the store it
// persists to. Callers own a State and pass it around explicitly.
type State struct {
	Store   *source.Store
	Cache   *store.Cache // optional
	Records model.RecordSet
	// Pending is set when the last persist failed. Records then holds data
	// the file does not, and Save must be retried before exit.
	Pending   bool
	Rederived int
}

// NewState returns an empty state bound to st. cache may be nil.
func NewState(st *source.Store, cache *store.Cache) *State {
	return &State{Store: st, Cache: cache, Records: model.RecordSet{}}
}

// LoadState builds a State for st and loads it, going through the SQLite
// cache at CachePath when useCache is set. Cache problems fall back to a
// direct parse; storage errors on the record file itself are returned. The
// returned State holds no cache handle.
func LoadState(st *source.Store, useCache bool) (*State, error) {
	if useCache {
		cache, err := store.Open(CachePath())
		if err != nil {
			logger.Warn("cache unavailable, doing full parse: %v", err)
		} else {
			state := NewState(st, cache)
			err = state.Load()
			state.Cache = nil
			if cerr := cache.Close(); cerr != nil {
				logger.Warn("closing cache: %v", cerr)
			}
			if err == nil {
				return state, nil
			}
			if IsIOError(err) {
				return nil, err
			}
			logger.Warn("cache-assisted load failed, falling back: %v", err)
		}
	}

	state := NewState(st, nil)
	if err := state.Load(); err != nil {
		return nil, err
	}
	return state, nil
}

// Load replaces the in-memory records with the file contents.
func (s *State) Load() error {
	var (
		result *LoadResult
		err    error
	)
	if s.Cache != nil {
		result, err = LoadWithCache(s.Store, s.Cache)
	} else {
		result, err = Load(s.Store)
	}
	if err != nil {
		return err
	}
	s.Records = result.Records
	s.Rederived = result.Rederived
	s.Pending = false
	if result.Rederived > 0 {
		logger.Warn("%d stored tickets did not match revenue/participants and were recomputed", result.Rederived)
	}
	return nil
}

// Submit validates in, derives the record, appends it and persists the full
// set. Invalid input leaves the state untouched. A failed persist keeps the
// appended record in memory, marks the state Pending and returns the record
// together with an error wrapping model.ErrIO.
func (s *State) Submit(in model.EventInput) (model.EventRecord, error) {
	rec, err := ticket.NewRecord(s.Store.Rounding(), in)
	if err != nil {
		return model.EventRecord{}, err
	}

	s.Records = s.Records.Append(rec)
	if err := s.Store.Persist(s.Records); err != nil {
		s.Pending = true
		logger.Error("saving record for %s: %v", rec.Date.Format(model.DateLayout), err)
		return rec, err
	}
	s.Pending = false
	logger.Debug("saved %s: %d participants, %s revenue", rec.Date.Format(model.DateLayout), rec.Participants, rec.Revenue.StringFixed(2))
	return rec, nil
}

// Save persists the in-memory records, clearing Pending on success.
func (s *State) Save() error {
	if err := s.Store.Persist(s.Records); err != nil {
		s.Pending = true
		return err
	}
	s.Pending = false
	return nil
}

// IsIOError reports whether err came from the storage layer, as opposed to
// a validation or data-sufficiency failure.
func IsIOError(err error) bool {
	return errors.Is(err, model.ErrIO)
}

// Describe renders err for the user, prefixing storage failures with a hint
// that the data is still held in memory.
func Describe(err error, pending bool) string {
	if IsIOError(err) && pending {
		return fmt.Sprintf("%v (record kept in memory, not yet saved)", err)
	}
	return err.Error()
}
