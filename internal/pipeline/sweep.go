package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/logger"
)

// SweepUploads removes temp files left in the upload directory longer
// than maxAge. Jobs clean up after themselves; this catches files
// orphaned by a crash mid-job.
func SweepUploads(dir string, maxAge time.Duration) func(ctx context.Context) {
	return func(ctx context.Context) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Warn("upload sweep failed", zap.Error(err))
			}
			return
		}
		cutoff := time.Now().Add(-maxAge)
		removed := 0
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			info, err := e.Info()
			if err != nil || info.ModTime().After(cutoff) {
				continue
			}
			if err := os.Remove(filepath.Join(dir, e.Name())); err == nil {
				removed++
			}
		}
		if removed > 0 {
			logger.Info("upload sweep removed stale files", zap.Int("count", removed))
		}
	}
}
