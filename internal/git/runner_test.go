package git

import (
	"bytes"
	"testing"

	"orgclone/internal/console"
)

func TestLineWriterEmitsCompleteLines(t *testing.T) {
	var buf bytes.Buffer
	lw := &lineWriter{console: console.New(&buf)}

	_, _ = lw.Write([]byte("Cloning into 'alpha'...\nremote: Enumer"))
	_, _ = lw.Write([]byte("ating objects: 5, done.\n"))
	lw.flush()

	expected := "Cloning into 'alpha'...\nremote: Enumerating objects: 5, done.\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestLineWriterFlushesTrailingPartialLine(t *testing.T) {
	var buf bytes.Buffer
	lw := &lineWriter{console: console.New(&buf)}

	_, _ = lw.Write([]byte("no trailing newline"))
	lw.flush()

	if buf.String() != "no trailing newline\n" {
		t.Errorf("expected flushed partial line, got %q", buf.String())
	}
}

func TestLineWriterSkipsBlankLines(t *testing.T) {
	var buf bytes.Buffer
	lw := &lineWriter{console: console.New(&buf)}

	_, _ = lw.Write([]byte("\n\r\n  \nreal output\n"))
	lw.flush()

	if buf.String() != "  \nreal output\n" {
		t.Errorf("expected blank lines dropped, got %q", buf.String())
	}
}

func TestExitErrorMessage(t *testing.T) {
	err := &ExitError{Args: []string{"clone", "x"}, Code: 128}
	expected := "git clone x exited with code 128"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}
