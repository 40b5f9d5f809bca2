package console

import (
	"fmt"
	"io"
	"sync"
)

// Renderer matches view.View; declared here so the console does not depend
// on the view package.
type Renderer interface {
	Render(width int) (lines int)
}

// Console coordinates free-form output lines with a live progress block.
// Worker goroutines stream git output and retry notices through Println
// while the render loop repaints the counter block; the shared lock keeps
// the two from tearing each other.
type Console struct {
	mu        sync.Mutex
	out       io.Writer
	lineCount int
}

func New(out io.Writer) *Console {
	return &Console{out: out}
}

// Writer exposes the underlying writer. Views constructed around it must
// only render via Repaint, which holds the lock.
func (c *Console) Writer() io.Writer {
	return c.out
}

// Println writes one line above the progress block. The block is erased
// first; the next Repaint redraws it below the new line.
func (c *Console) Println(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eraseBlock()
	_, _ = fmt.Fprintln(c.out, line)
}

func (c *Console) Printf(format string, a ...any) {
	c.Println(fmt.Sprintf(format, a...))
}

// Repaint moves the cursor back over the previously rendered block and
// renders the view anew.
func (c *Console) Repaint(r Renderer, width int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lineCount > 0 {
		_, _ = fmt.Fprintf(c.out, "\033[%dA", c.lineCount)
	}
	c.lineCount = r.Render(width)
}

func (c *Console) eraseBlock() {
	if c.lineCount == 0 {
		return
	}
	_, _ = fmt.Fprintf(c.out, "\033[%dA\033[J", c.lineCount)
	c.lineCount = 0
}
