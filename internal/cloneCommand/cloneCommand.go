package cloneCommand

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"orgclone/internal/appConfig"
	"orgclone/internal/cloneCommand/terminalView"
	"orgclone/internal/color"
	"orgclone/internal/console"
	"orgclone/internal/git"
	"orgclone/internal/github"
	"orgclone/internal/gitrepo"
	logger "orgclone/internal/log"
	"orgclone/internal/summary"
	"orgclone/internal/view"
)

const nonTTYWidth = 80

// Execute runs the whole pipeline (list, clone/update, summarize) and
// returns the process exit code: 2 on a fatal listing error, 1 on a summary
// persistence error, 0 otherwise. Per-repository failures are reported but
// deliberately do not affect the exit code.
func Execute(cfg *appConfig.AppConfig) int {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	newRunner := func(cons *console.Console) git.Runner {
		return git.StreamingRunner{Console: cons}
	}
	return execute(cfg, newRunner, os.Stdout, isTTY)
}

func execute(cfg *appConfig.AppConfig, newRunner func(*console.Console) git.Runner, out *os.File, isTTY bool) int {
	startTime := time.Now()

	if err := os.MkdirAll(cfg.Dest, os.ModePerm); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create destination directory: %v\n", err)
		return 1
	}

	cons := console.New(out)
	viewModel := terminalView.NewCloneViewModel(cfg.Organization, cfg.Dest)
	composite := view.NewCompositeView([]view.View{
		terminalView.NewCloneView(viewModel, cons.Writer()),
		view.NewTimeElapsedView(startTime, cons.Writer(), time.Since),
	})

	ctx, cancelRender := context.WithCancel(context.Background())
	defer cancelRender()
	renderDone := make(chan struct{})
	if isTTY {
		go func() {
			view.StartTTYRenderLoop(ctx, cons, composite, out)
			close(renderDone)
		}()
	} else {
		close(renderDone)
	}
	// stopRenderLoop blocks until the loop has exited, so nothing repaints
	// over the output that follows.
	stopRenderLoop := func() {
		cancelRender()
		<-renderDone
	}

	api := github.NewAPIClient(cfg.Token, cfg.Organization, cfg.APIBaseURL, viewModel.PageCount)
	records, err := api.ListRepositories(cfg.IncludeArchived)
	if err != nil {
		stopRenderLoop()
		logger.Log.Errorf("Failed to list repositories for %s: %v", cfg.Organization, err)
		fmt.Fprintf(os.Stderr, "Error fetching repositories list: %v\n", err)
		return 2
	}
	if len(records) == 0 {
		stopRenderLoop()
		cons.Println("No repositories found. (Maybe the organization is empty or the token lacks access?)")
		return 0
	}

	specs := make([]gitrepo.RepoSpec, 0, len(records))
	for _, record := range records {
		specs = append(specs, gitrepo.RepoSpec{
			Name:     record.Name,
			CloneURL: record.CloneURL,
			SSHURL:   record.SSHURL,
			Archived: record.Archived,
		})
	}
	viewModel.RepoCount.Add(len(specs))
	cons.Printf("Found %d repositories to process (dest: %s)", len(specs), color.FgCyan(cfg.Dest))
	logger.Log.Infof("Processing %d repositories from %s into %s with %d workers",
		len(specs), cfg.Organization, cfg.Dest, cfg.Workers)

	syncer := gitrepo.NewSyncer(cfg, newRunner(cons), cons)
	pool := &gitrepo.Pool{
		Workers: cfg.Workers,
		Process: syncer.Process,
		OnDone: func(outcome gitrepo.Outcome) {
			viewModel.DoneCount.Add(1)
			switch outcome.Status {
			case gitrepo.StatusCloned:
				viewModel.ClonedCount.Add(1)
			case gitrepo.StatusUpdated:
				viewModel.UpdatedCount.Add(1)
			case gitrepo.StatusFailed:
				viewModel.FailedCount.Add(1)
			}
		},
	}
	outcomes := pool.Run(specs)

	stopRenderLoop()
	width := nonTTYWidth
	if isTTY {
		if w, _, err := term.GetSize(int(out.Fd())); err == nil {
			width = w
		}
	}
	cons.Repaint(composite, width)

	ok, failures := summary.Summarize(outcomes)
	cons.Println("")
	cons.Println("Summary:")
	cons.Printf("  Success: %s/%d", color.FgGreen(fmt.Sprintf("%d", ok)), len(specs))
	if len(failures) > 0 {
		cons.Println("  Failures:")
		for _, failure := range failures {
			cons.Printf("    - %s", color.FgRed(failure))
		}
	}

	logPath, err := summary.WriteLog(cfg.Dest, outcomes)
	if err != nil {
		logger.Log.Errorf("Failed to persist summary: %v", err)
		fmt.Fprintf(os.Stderr, "Error writing summary log: %v\n", err)
		return 1
	}
	cons.Println("")
	cons.Printf("Detailed log saved to: %s", color.FgCyan(logPath))
	return 0
}
