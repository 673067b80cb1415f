package executors

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Confirmer asks the operator a yes/no question. There is no timeout: the
// pipeline waits indefinitely for an answer.
type Confirmer interface {
	Confirm(prompt string) bool
}

type stdinConfirmer struct {
	r *bufio.Reader
	w io.Writer
}

// NewStdinConfirmer returns a Confirmer reading answers from stdin.
func NewStdinConfirmer() Confirmer {
	return &stdinConfirmer{r: bufio.NewReader(os.Stdin), w: os.Stdout}
}

func (c *stdinConfirmer) Confirm(prompt string) bool {
	for {
		fmt.Fprintf(c.w, "%s [y/n]: ", prompt)
		line, err := c.r.ReadString('\n')
		if err != nil {
			// EOF or a closed terminal means nobody can confirm.
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
	}
}
