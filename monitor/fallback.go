package monitor

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mohitkumar/nodebridge/logger"
	"github.com/mohitkumar/nodebridge/model"
	"go.uber.org/zap"
)

// scanFallback polls the watched output directory for a file matching the
// configured pattern. No change notification is involved, a plain listing
// on each cycle is the contract.
func (em *ExecutionMonitor) scanFallback(aj *activeJob) (*model.AssetRef, bool) {
	if em.conf.FallbackDir == "" {
		return nil, false
	}
	id := aj.job.RemoteId
	if id == "" {
		id = aj.job.Id
	}
	pattern := strings.ReplaceAll(em.conf.FallbackPattern, "{jobId}", id)
	entries, err := os.ReadDir(em.conf.FallbackDir)
	if err != nil {
		logger.Debug("fallback directory unreadable", zap.String("dir", em.conf.FallbackDir), zap.Error(err))
		return nil, false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matched, err := filepath.Match(pattern, entry.Name())
		if err != nil || !matched {
			continue
		}
		ref := &model.AssetRef{
			Path:     filepath.Join(em.conf.FallbackDir, entry.Name()),
			Filename: entry.Name(),
			Kind:     "fallback",
		}
		logger.Info("fallback detection found output", zap.String("job", aj.job.Id), zap.String("file", entry.Name()))
		return ref, true
	}
	return nil, false
}
