package bootstrap

import (
	"io"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Reporter prints the human-readable progress of a run.
type Reporter struct {
	Out io.Writer
}

func (r *Reporter) Info(msg string) {
	_, _ = io.WriteString(r.out(), msg+"\n")
}

func (r *Reporter) Success(msg string) {
	_, _ = color.New(color.FgGreen).Fprintln(r.out(), msg)
}

func (r *Reporter) Notice(msg string) {
	_, _ = color.New(color.FgYellow).Fprintln(r.out(), msg)
}

func (r *Reporter) Highlight(msg string) {
	_, _ = color.New(color.FgCyan, color.Bold).Fprintln(r.out(), msg)
}

// Error prints err as a sentence.
func (r *Reporter) Error(err error) {
	_, _ = color.New(color.FgRed).Fprintln(r.out(), Sentence(err.Error()))
}

func (r *Reporter) out() io.Writer {
	if r == nil || r.Out == nil {
		return io.Discard
	}
	return r.Out
}

// Sentence upper-cases the first letter of msg.
func Sentence(msg string) string {
	first, size := utf8.DecodeRuneInString(msg)
	if first == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(first)) + msg[size:]
}
