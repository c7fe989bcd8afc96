package sweep

import (
	"errors"
	"fmt"
	"io"

	"github.com/roach88/shexcheck/internal/turtle"
)

// Separator ends each entry's block in a full sweep.
const Separator = "==================================="

// reporter writes line-oriented results as they happen.
type reporter struct {
	w io.Writer
}

// formatBool renders booleans the way the suite's reference output does.
func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func (r reporter) turtle(file string, valid bool, err error) {
	fmt.Fprintf(r.w, "%s is valid turtle: %s\n", file, formatBool(valid))
	if err != nil {
		fmt.Fprintln(r.w, describe(err))
	}
}

func (r reporter) shexj(file string, valid bool, err error) {
	fmt.Fprintf(r.w, "%s is valid ShExJ: %s\n", file, formatBool(valid))
	if err != nil {
		fmt.Fprintln(r.w, describe(err))
	}
}

func (r reporter) separator() {
	fmt.Fprintln(r.w, Separator)
}

// describe strips the path prefix from parse errors; the report line above
// already names the file.
func describe(err error) string {
	var pe *turtle.ParseError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return err.Error()
}
