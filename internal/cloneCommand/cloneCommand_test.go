package cloneCommand

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"orgclone/internal/appConfig"
	"orgclone/internal/console"
	"orgclone/internal/git"
)

// fakeRunner answers clone invocations by creating the target directory,
// so a second run goes down the update path like real git would.
type fakeRunner struct {
	failNames map[string]bool
}

func (f fakeRunner) Run(dir string, args ...string) error {
	if len(args) > 0 && args[0] == "clone" {
		target := args[len(args)-1]
		if f.failNames[filepath.Base(target)] {
			return &git.ExitError{Args: args, Code: 128}
		}
		return os.MkdirAll(target, 0o755)
	}
	return nil
}

func orgServer(t *testing.T, repos []map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		page := r.URL.Query().Get("page")
		if page == "1" {
			require.NoError(t, json.NewEncoder(w).Encode(repos))
			return
		}
		fmt.Fprint(w, "[]")
	}))
}

func repoJSON(name string, archived bool) map[string]any {
	return map[string]any{
		"name":      name,
		"clone_url": "https://example.com/testorg/" + name + ".git",
		"ssh_url":   "git@example.com:testorg/" + name + ".git",
		"archived":  archived,
	}
}

func testConfig(t *testing.T, baseURL string) *appConfig.AppConfig {
	t.Helper()
	return &appConfig.AppConfig{
		Dest:         filepath.Join(t.TempDir(), "checkouts"),
		Organization: "testorg",
		APIBaseURL:   baseURL,
		Workers:      4,
		Shallow:      true,
		RetryLimit:   0,
	}
}

func runPipeline(t *testing.T, cfg *appConfig.AppConfig, runner git.Runner) (exitCode int, output string) {
	t.Helper()
	out, err := os.CreateTemp(t.TempDir(), "console")
	require.NoError(t, err)
	defer out.Close()

	newRunner := func(*console.Console) git.Runner { return runner }
	code := execute(cfg, newRunner, out, false)

	data, err := os.ReadFile(out.Name())
	require.NoError(t, err)
	return code, string(data)
}

func summaryLogLines(t *testing.T, dest string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dest, "clone_summary_*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	sort.Strings(lines)
	return lines
}

func TestExecuteClonesWholeOrganization(t *testing.T) {
	srv := orgServer(t, []map[string]any{
		repoJSON("alpha", false),
		repoJSON("beta", false),
		repoJSON("gamma", false),
	})
	defer srv.Close()
	cfg := testConfig(t, srv.URL)

	code, output := runPipeline(t, cfg, fakeRunner{})

	require.Equal(t, 0, code)
	require.Contains(t, output, "Found 3 repositories to process")
	require.Contains(t, output, "Summary:")
	require.Equal(t, []string{"cloned: alpha", "cloned: beta", "cloned: gamma"}, summaryLogLines(t, cfg.Dest))

	for _, name := range []string{"alpha", "beta", "gamma"} {
		require.DirExists(t, filepath.Join(cfg.Dest, name))
	}
}

func TestExecuteSkipsArchivedRepositories(t *testing.T) {
	srv := orgServer(t, []map[string]any{
		repoJSON("active", false),
		repoJSON("dusty", true),
	})
	defer srv.Close()
	cfg := testConfig(t, srv.URL)

	code, _ := runPipeline(t, cfg, fakeRunner{})

	require.Equal(t, 0, code)
	require.Equal(t, []string{"cloned: active"}, summaryLogLines(t, cfg.Dest))
	require.NoDirExists(t, filepath.Join(cfg.Dest, "dusty"))
}

func TestExecuteReportsPerRepositoryFailuresWithoutFailingTheRun(t *testing.T) {
	srv := orgServer(t, []map[string]any{
		repoJSON("alpha", false),
		repoJSON("broken", false),
		repoJSON("gamma", false),
	})
	defer srv.Close()
	cfg := testConfig(t, srv.URL)

	code, output := runPipeline(t, cfg, fakeRunner{failNames: map[string]bool{"broken": true}})

	// Per-repo failures are reported, not propagated into the exit code.
	require.Equal(t, 0, code)
	require.Contains(t, output, "Failures:")
	require.Contains(t, output, "broken")

	lines := summaryLogLines(t, cfg.Dest)
	require.Len(t, lines, 3)
	require.Contains(t, lines[2], "failed: broken")
}

func TestExecuteSecondRunUpdates(t *testing.T) {
	srv := orgServer(t, []map[string]any{repoJSON("alpha", false)})
	defer srv.Close()
	cfg := testConfig(t, srv.URL)
	runner := fakeRunner{}

	code, _ := runPipeline(t, cfg, runner)
	require.Equal(t, 0, code)
	require.Equal(t, []string{"cloned: alpha"}, summaryLogLines(t, cfg.Dest))

	// Drop the first log so the second run's log is the only one left.
	matches, _ := filepath.Glob(filepath.Join(cfg.Dest, "clone_summary_*.log"))
	for _, match := range matches {
		require.NoError(t, os.Remove(match))
	}

	code, _ = runPipeline(t, cfg, runner)
	require.Equal(t, 0, code)
	require.Equal(t, []string{"updated: alpha"}, summaryLogLines(t, cfg.Dest))
}

func TestExecuteExitsTwoOnListingError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "kaboom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	cfg := testConfig(t, srv.URL)

	code, _ := runPipeline(t, cfg, fakeRunner{})
	require.Equal(t, 2, code)
}

func TestExecuteHandlesEmptyOrganization(t *testing.T) {
	srv := orgServer(t, []map[string]any{})
	defer srv.Close()
	cfg := testConfig(t, srv.URL)

	code, output := runPipeline(t, cfg, fakeRunner{})

	require.Equal(t, 0, code)
	require.Contains(t, output, "No repositories found")
}
