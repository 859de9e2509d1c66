// Package message prints one-line user notifications.
package message

import (
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
)

// Printer writes success, error, warning and info lines to Out.
type Printer struct {
	Out     io.Writer
	NoColor bool
}

// New returns a Printer writing to out.
func New(out io.Writer, noColor bool) *Printer {
	return &Printer{Out: out, NoColor: noColor}
}

func (p *Printer) print(icon string, style func(interface{}) string, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if !p.NoColor {
		icon = style(icon)
	}
	fmt.Fprintf(p.Out, "%s %s\n", icon, msg)
}

func (p *Printer) Success(format string, args ...any) {
	p.print("✓", promptui.Styler(promptui.FGGreen), format, args...)
}

func (p *Printer) Error(format string, args ...any) {
	p.print("✗", promptui.Styler(promptui.FGRed), format, args...)
}

func (p *Printer) Warning(format string, args ...any) {
	p.print("!", promptui.Styler(promptui.FGYellow), format, args...)
}

func (p *Printer) Info(format string, args ...any) {
	p.print("i", promptui.Styler(promptui.FGCyan), format, args...)
}
