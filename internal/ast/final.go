package ast

import "strings"

// Final is the emission buffer: an ordered sequence of target-assembly
// text lines (spec §3 "Final model"). Only the emitter writes to it.
type Final struct {
	lines []string
}

// NewFinal returns an empty emission buffer.
func NewFinal() *Final {
	return &Final{}
}

// AddLine appends a raw, already-formatted assembly line.
func (f *Final) AddLine(line string) {
	f.lines = append(f.lines, line)
}

// AddInstruction appends a tab-indented mnemonic with operands.
func (f *Final) AddInstruction(mnemonic, operands string) {
	if operands == "" {
		f.lines = append(f.lines, "\t"+mnemonic)
		return
	}
	f.lines = append(f.lines, "\t"+mnemonic+"\t"+operands)
}

// AddLabel appends a bare label line (e.g. "L10:").
func (f *Final) AddLabel(label string) {
	f.lines = append(f.lines, label+":")
}

// AddComment appends a comment line.
func (f *Final) AddComment(text string) {
	f.lines = append(f.lines, "; "+text)
}

// Lines returns the accumulated output lines.
func (f *Final) Lines() []string {
	return f.lines
}

// String joins all lines with newlines, with a trailing newline.
func (f *Final) String() string {
	var sb strings.Builder
	for _, l := range f.lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return sb.String()
}
