package terminalView

import (
	"fmt"
	"io"
	"strings"

	"orgclone/internal/color"
	"orgclone/internal/counter"
	"orgclone/internal/ext"
	"orgclone/internal/view"
)

type CloneViewModel struct {
	Organization string
	CloneRoot    string
	PageCount    *counter.Counter
	RepoCount    *counter.Counter
	DoneCount    *counter.Counter
	ClonedCount  *counter.Counter
	UpdatedCount *counter.Counter
	FailedCount  *counter.Counter
}

func NewCloneViewModel(organization string, cloneRoot string) *CloneViewModel {
	return &CloneViewModel{
		Organization: organization,
		CloneRoot:    cloneRoot,
		PageCount:    counter.NewCounter(),
		RepoCount:    counter.NewCounter(),
		DoneCount:    counter.NewCounter(),
		ClonedCount:  counter.NewCounter(),
		UpdatedCount: counter.NewCounter(),
		FailedCount:  counter.NewCounter(),
	}
}

// CloneView renders the live clone counters for one organization.
type CloneView struct {
	viewModel *CloneViewModel
	stdout    io.Writer
}

func NewCloneView(viewModel *CloneViewModel, stdout io.Writer) *CloneView {
	return &CloneView{
		viewModel: viewModel,
		stdout:    stdout,
	}
}

func (r *CloneView) Render(width int) (lines int) {
	vm := r.viewModel
	out := fmt.Sprintf(
		"%s\n  <- %s:\n    %s pages listed\n    %s/%s repos processed\n    %s cloned, %s updated, %s failed\n",
		color.FgCyan(view.TruncateTextToWidth(width, ext.ReplaceHomeDirWithTilde(vm.CloneRoot))),
		color.FgCyan(view.TrimTextToWidth(max(width-6, 1), vm.Organization)),
		color.FgMagenta(fmt.Sprintf("%d", vm.PageCount.Count())),
		color.FgMagenta(fmt.Sprintf("%d", vm.DoneCount.Count())),
		color.FgMagenta(fmt.Sprintf("%d", vm.RepoCount.Count())),
		color.FgMagenta(fmt.Sprintf("%d", vm.ClonedCount.Count())),
		color.FgMagenta(fmt.Sprintf("%d", vm.UpdatedCount.Count())),
		color.FgMagenta(fmt.Sprintf("%d", vm.FailedCount.Count())),
	)
	if _, err := fmt.Fprint(r.stdout, out); err != nil {
		return 0
	}
	return strings.Count(out, "\n")
}
