package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/labstack/gommon/color"

	"golox/internal"
)

type stdPrinter struct {
	out io.Writer
}

func (s stdPrinter) Println(a ...interface{}) (n int, err error) {
	return fmt.Fprintln(s.out, a...)
}

// reporter renders errors the moment the interpreter detects them
type reporter struct {
	out   io.Writer
	color *color.Color
}

func newReporter(out io.Writer, useColor bool) *reporter {
	c := color.New()
	c.SetOutput(out)
	if !useColor {
		c.Disable()
	}
	return &reporter{out: out, color: c}
}

func (r *reporter) Report(err error) {
	fmt.Fprintln(r.out, r.color.Red(formatError(err)))
}

func formatError(err error) string {
	var syntaxErr *internal.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Sprintf("[line %d] Error%s: %s", syntaxErr.Line, syntaxErr.Where, syntaxErr.Error())
	}
	var runErr *internal.RuntimeError
	if errors.As(err, &runErr) {
		return fmt.Sprintf("%s\n[line %d]", runErr.Error(), runErr.Token.Line)
	}
	return err.Error()
}
