package gitrepo

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	retry "github.com/avast/retry-go/v4"

	"orgclone/internal/appConfig"
	"orgclone/internal/color"
	"orgclone/internal/console"
	"orgclone/internal/git"
	logger "orgclone/internal/log"
)

// RepoSpec identifies one repository to clone or update. Immutable once
// built from the listing; workers only read it.
type RepoSpec struct {
	Name     string
	CloneURL string
	SSHURL   string
	Archived bool
}

type Status string

const (
	StatusCloned  Status = "cloned"
	StatusUpdated Status = "updated"
	StatusFailed  Status = "failed"
)

// Outcome is the result of processing one repository.
type Outcome struct {
	Status Status
	Name   string
	Detail string
}

func (o Outcome) Failed() bool {
	return o.Status == StatusFailed
}

// String renders the log line format, "<status>: <name or detail>".
func (o Outcome) String() string {
	if o.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", o.Status, o.Name, o.Detail)
	}
	return fmt.Sprintf("%s: %s", o.Status, o.Name)
}

const retryBaseDelay = 5 * time.Second

// Syncer clones or updates repositories below one destination directory.
type Syncer struct {
	Dest       string
	UseSSH     bool
	Shallow    bool
	Mirror     bool
	RetryLimit int

	runner  git.Runner
	console *console.Console

	// First retry delay, doubled on every further attempt. Tests shrink it.
	baseDelay time.Duration
}

func NewSyncer(cfg *appConfig.AppConfig, runner git.Runner, cons *console.Console) *Syncer {
	return &Syncer{
		Dest:       cfg.Dest,
		UseSSH:     cfg.UseSSH,
		Shallow:    cfg.Shallow,
		Mirror:     cfg.Mirror,
		RetryLimit: cfg.RetryLimit,
		runner:     runner,
		console:    cons,
		baseDelay:  retryBaseDelay,
	}
}

// Process clones or updates one repository. Failures never escape as
// errors; every path folds into the outcome.
func (s *Syncer) Process(spec RepoSpec) Outcome {
	target := filepath.Join(s.Dest, spec.Name)
	if s.Mirror {
		target += ".git"
	}

	// Existence on disk is the only state tracked across runs: an existing
	// target means update, anything else means fresh clone.
	if _, err := os.Stat(target); err == nil {
		if s.update(spec, target) {
			return Outcome{Status: StatusUpdated, Name: spec.Name}
		}
		// Fall through and attempt a fresh clone instead.
	}

	return s.clone(spec, target)
}

func (s *Syncer) update(spec RepoSpec, target string) bool {
	if s.Mirror {
		if err := s.runner.Run(target, "remote", "update", "--prune"); err != nil {
			logger.Log.Warnf("Mirror update failed for %s: %v", color.FgRed(spec.Name), err)
			return false
		}
		return true
	}

	if err := s.runner.Run(target, "fetch", "--all", "--prune"); err != nil {
		logger.Log.Warnf("Fetch failed for %s, retrying as a fresh clone: %v", color.FgRed(spec.Name), err)
		return false
	}
	// A refused fast-forward (diverged local branch) still counts as
	// updated: the refs are fresh, which is what a bulk sync is for.
	if err := s.runner.Run(target, "pull", "--ff-only"); err != nil {
		logger.Log.Warnf("Fast-forward pull failed for %s: %v", color.FgMagenta(spec.Name), err)
	}
	return true
}

func (s *Syncer) clone(spec RepoSpec, target string) Outcome {
	args := []string{"clone"}
	if s.Mirror {
		args = append(args, "--mirror")
	} else if s.Shallow {
		args = append(args, "--depth", "1", "--no-single-branch")
	}
	url := spec.CloneURL
	if s.UseSSH {
		url = spec.SSHURL
	}
	args = append(args, url, target)

	err := retry.Do(
		func() error {
			return s.runner.Run("", args...)
		},
		retry.Attempts(uint(s.RetryLimit)+1),
		retry.Delay(s.baseDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.console.Printf("[%s] clone failed (%v). Retrying in %s (attempt %d/%d)...",
				spec.Name, err, s.baseDelay<<n, n+1, s.RetryLimit)
		}),
	)
	if err != nil {
		logger.Log.Errorf("Failed to clone %s: %v", color.FgRed(spec.Name), err)
		return Outcome{Status: StatusFailed, Name: spec.Name, Detail: err.Error()}
	}

	logger.Log.Infof("Cloned %s to %s", color.FgMagenta(spec.Name), color.FgMagenta(target))
	return Outcome{Status: StatusCloned, Name: spec.Name}
}
