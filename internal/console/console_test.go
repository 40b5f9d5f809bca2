package console

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"
)

type fakeView struct {
	lines int
	out   io.Writer
}

func (v fakeView) Render(_ int) int {
	for i := 0; i < v.lines; i++ {
		fmt.Fprintf(v.out, "line %d\n", i)
	}
	return v.lines
}

func TestPrintlnWithoutBlock(t *testing.T) {
	var buf bytes.Buffer
	cons := New(&buf)

	cons.Println("hello")

	if buf.String() != "hello\n" {
		t.Errorf("Println without a block should write plainly, got %q", buf.String())
	}
}

func TestRepaintMovesCursorOverPreviousBlock(t *testing.T) {
	var buf bytes.Buffer
	cons := New(&buf)
	v := fakeView{lines: 2, out: &buf}

	cons.Repaint(v, 80)
	cons.Repaint(v, 80)

	out := buf.String()
	if strings.Count(out, "\033[2A") != 1 {
		t.Errorf("second repaint should move the cursor up over the 2-line block, got %q", out)
	}
	if strings.HasPrefix(out, "\033[") {
		t.Errorf("first repaint should not move the cursor, got %q", out)
	}
}

func TestPrintlnErasesBlockFirst(t *testing.T) {
	var buf bytes.Buffer
	cons := New(&buf)
	v := fakeView{lines: 3, out: &buf}

	cons.Repaint(v, 80)
	cons.Println("fetching origin")
	cons.Repaint(v, 80)

	out := buf.String()
	if !strings.Contains(out, "\033[3A\033[J") {
		t.Errorf("Println should erase the 3-line block before writing, got %q", out)
	}
	// The block was erased, so the following repaint starts fresh.
	if strings.Contains(strings.SplitN(out, "fetching origin", 2)[1], "\033[3A\033[J") {
		t.Errorf("repaint after Println should not erase again, got %q", out)
	}
}
