package summary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"

	"orgclone/internal/gitrepo"
)

// Summarize folds the outcomes into a success count and the failure lines.
func Summarize(outcomes []gitrepo.Outcome) (ok int, failures []string) {
	ok = lo.CountBy(outcomes, func(o gitrepo.Outcome) bool {
		return !o.Failed()
	})
	failures = lo.FilterMap(outcomes, func(o gitrepo.Outcome, _ int) (string, bool) {
		return o.String(), o.Failed()
	})
	return ok, failures
}

// WriteLog persists one line per outcome to a timestamped log file in the
// destination directory and returns its path. A write failure here is the
// caller's problem; the clone work is already done and must stay visible.
func WriteLog(dest string, outcomes []gitrepo.Outcome) (string, error) {
	path := filepath.Join(dest, fmt.Sprintf("clone_summary_%d.log", time.Now().Unix()))
	lines := lo.Map(outcomes, func(o gitrepo.Outcome, _ int) string {
		return o.String()
	})
	data := strings.Join(lines, "\n")
	if len(lines) > 0 {
		data += "\n"
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return "", fmt.Errorf("could not write summary log: %w", err)
	}
	return path, nil
}
