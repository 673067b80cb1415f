package memo

import (
	"fmt"
	"strings"
)

// Builder accumulates memo lines in order and serializes them to a single
// newline-joined string.
type Builder struct {
	lines []string
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Append(line string) {
	b.lines = append(b.lines, line)
}

func (b *Builder) Appendf(format string, args ...any) {
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
}

func (b *Builder) String() string {
	return strings.Join(b.lines, "\n")
}
