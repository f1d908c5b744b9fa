// Package detector decides which games changed since the last
// observation, bounding downstream traffic to the true rate of score
// and status change rather than the polling rate.
package detector

import "github.com/preston-bernstein/nba-live-sync/internal/domain"

// ChangeDetector owns the last-seen fingerprint per game. The map is
// mutated only inside Detect; the polling loop runs one cycle at a
// time, so no locking is needed.
type ChangeDetector struct {
	lastSeen map[string]string
}

// New constructs an empty ChangeDetector.
func New() *ChangeDetector {
	return &ChangeDetector{lastSeen: make(map[string]string)}
}

// Detect returns the subset of games whose fingerprint differs from the
// last observation, in input order. A never-seen game is always
// reported as changed. Stored fingerprints are overwritten as a side
// effect.
func (d *ChangeDetector) Detect(games []domain.GameState) []domain.GameState {
	changed := make([]domain.GameState, 0, len(games))
	for _, g := range games {
		fp := Fingerprint(g)
		if prev, ok := d.lastSeen[g.GameID]; !ok || prev != fp {
			changed = append(changed, g)
			d.lastSeen[g.GameID] = fp
		}
	}
	return changed
}

// Tracked reports how many games have a stored fingerprint.
func (d *ChangeDetector) Tracked() int {
	return len(d.lastSeen)
}
