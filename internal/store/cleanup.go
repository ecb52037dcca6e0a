package store

import (
	"fmt"
	"time"
)

// CleanupResult reports what a retention pass deleted, broken down by the
// rule that triggered each deletion.
type CleanupResult struct {
	PerPlaylistDeleted int
	AgeDeleted         int
	BudgetDeleted      int
	Deleted            []string
	Errors             []error
}

// TotalDeleted returns the combined deletion count across all passes.
func (r CleanupResult) TotalDeleted() int {
	return r.PerPlaylistDeleted + r.AgeDeleted + r.BudgetDeleted
}

// CleanupBackups applies the retention policy to every backup in dir in
// three best-effort passes: per-playlist trim down to maxPerPlaylist, removal
// of backups older than maxAgeDays, then a trim of the whole directory down
// to maxTotal. Each pass keeps the newest files. A failed deletion is
// recorded and never aborts the remaining passes; a limit of zero or less
// disables its pass.
func (s *Store) CleanupBackups(dir string, maxPerPlaylist, maxTotal, maxAgeDays int) CleanupResult {
	var result CleanupResult

	if maxPerPlaylist > 0 {
		byStem := map[string][]backupInfo{}
		for _, b := range s.listBackups(dir) {
			byStem[b.stem] = append(byStem[b.stem], b)
		}
		for _, backups := range byStem {
			for _, b := range backups[min(maxPerPlaylist, len(backups)):] {
				s.remove(b, &result.PerPlaylistDeleted, &result)
			}
		}
	}

	if maxAgeDays > 0 {
		cutoff := s.clock.Now().Add(-time.Duration(maxAgeDays) * 24 * time.Hour)
		for _, b := range s.listBackups(dir) {
			if b.mod.Before(cutoff) {
				s.remove(b, &result.AgeDeleted, &result)
			}
		}
	}

	if maxTotal > 0 {
		backups := s.listBackups(dir)
		if len(backups) > maxTotal {
			for _, b := range backups[maxTotal:] {
				s.remove(b, &result.BudgetDeleted, &result)
			}
		}
	}

	if result.TotalDeleted() > 0 || len(result.Errors) > 0 {
		s.log.Info("backup cleanup finished",
			"per_playlist", result.PerPlaylistDeleted,
			"age", result.AgeDeleted,
			"budget", result.BudgetDeleted,
			"errors", len(result.Errors))
	}
	return result
}

func (s *Store) remove(b backupInfo, counter *int, result *CleanupResult) {
	if err := s.fs.Remove(b.path); err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("removing %s: %w", b.path, err))
		return
	}
	*counter++
	result.Deleted = append(result.Deleted, b.path)
}
