package git

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"orgclone/internal/console"
)

// Runner executes one git command in dir (empty dir means the current
// working directory). A non-zero exit is returned as *ExitError.
type Runner interface {
	Run(dir string, args ...string) error
}

// ExitError reports a git command that ran but exited non-zero.
type ExitError struct {
	Args []string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("git %s exited with code %d", strings.Join(e.Args, " "), e.Code)
}

// StreamingRunner runs git and forwards every line of combined output
// through the coordinated console, so subprocess chatter never tears the
// progress block.
type StreamingRunner struct {
	Console *console.Console
}

func (r StreamingRunner) Run(dir string, args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = os.Environ()

	lw := &lineWriter{console: r.Console}
	// With stdout and stderr set to the same writer, os/exec serializes
	// the Write calls for us.
	cmd.Stdout = lw
	cmd.Stderr = lw

	err := cmd.Run()
	lw.flush()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Args: args, Code: exitErr.ExitCode()}
		}
		return err
	}
	return nil
}

// lineWriter buffers subprocess output and emits it to the console one
// complete line at a time.
type lineWriter struct {
	console *console.Console
	buf     bytes.Buffer
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// No full line yet, keep the remainder buffered.
			w.buf.WriteString(line)
			return len(p), nil
		}
		w.emit(line)
	}
}

func (w *lineWriter) flush() {
	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

func (w *lineWriter) emit(line string) {
	line = strings.TrimRight(line, "\r\n")
	if line != "" {
		w.console.Println(line)
	}
}
