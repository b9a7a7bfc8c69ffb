package pipeline

import (
	"github.com/theirongolddev/soiree/internal/model"
	"github.com/theirongolddev/soiree/internal/source"
)

// LoadResult holds the output of the record loading pipeline.
type LoadResult struct {
	Records model.RecordSet
	// Rederived counts rows whose stored ticket disagreed with the value
	// recomputed from revenue and participants.
	Rederived int
	FromCache bool
	Missing   bool
}

// Load reads the record file directly, bypassing any cache.
func Load(st *source.Store) (*LoadResult, error) {
	result, err := st.Load()
	if err != nil {
		return nil, err
	}
	return &LoadResult{
		Records:   result.Records,
		Rederived: result.Rederived,
		Missing:   !st.Exists(),
	}, nil
}
