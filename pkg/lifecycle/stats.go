package lifecycle

import (
	"maps"
	"sync"
)

// Stats counts objects of one type.
type Stats struct {
	Live int
	Ever int
}

var (
	statsMu sync.Mutex
	stats   = map[string]*Stats{}
)

func track(typeName string, delta int) {
	statsMu.Lock()
	defer statsMu.Unlock()
	s := stats[typeName]
	if s == nil {
		s = &Stats{}
		stats[typeName] = s
	}
	s.Live += delta
	if delta > 0 {
		s.Ever += delta
	}
}

// LiveObjects returns a snapshot of per-type object counts.
func LiveObjects() map[string]Stats {
	statsMu.Lock()
	defer statsMu.Unlock()
	out := make(map[string]Stats, len(stats))
	for k, v := range stats {
		out[k] = *v
	}
	return out
}

// LiveCount returns the number of live objects of typeName.
func LiveCount(typeName string) int {
	statsMu.Lock()
	defer statsMu.Unlock()
	if s := stats[typeName]; s != nil {
		return s.Live
	}
	return 0
}

// DiffLive returns the change in live counts between two snapshots,
// omitting unchanged types.
func DiffLive(before, after map[string]Stats) map[string]int {
	out := map[string]int{}
	keys := maps.Clone(before)
	for k := range after {
		keys[k] = Stats{}
	}
	for k := range keys {
		if d := after[k].Live - before[k].Live; d != 0 {
			out[k] = d
		}
	}
	return out
}
