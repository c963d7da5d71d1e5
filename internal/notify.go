package internal

import (
	"fmt"
	"io"
)

// Notifier is the user-facing surface the session and mint flows report to.
// Alert is blocking in the sense that the message is flushed before the
// caller continues to propagate its error.
type Notifier interface {
	Alert(message string)
	Success(message string)
	Info(message string)
}

// TerminalNotifier writes styled notifications to a terminal
type TerminalNotifier struct {
	Out io.Writer
	Err io.Writer
}

// NewTerminalNotifier creates a notifier writing to out (success/info) and errOut (alerts)
func NewTerminalNotifier(out, errOut io.Writer) *TerminalNotifier {
	return &TerminalNotifier{Out: out, Err: errOut}
}

// Alert prints a highlighted message that needs the user's attention
func (n *TerminalNotifier) Alert(message string) {
	if isTerminal(n.Err) {
		fmt.Fprintln(n.Err, alertStyle.Render("! "+message))
		return
	}
	fmt.Fprintf(n.Err, "ALERT: %s\n", message)
}

// Success prints a success message
func (n *TerminalNotifier) Success(message string) {
	if isTerminal(n.Out) {
		fmt.Fprintf(n.Out, "%s %s\n", successStyle.Render("✓"), message)
		return
	}
	fmt.Fprintln(n.Out, message)
}

// Info prints an informational message
func (n *TerminalNotifier) Info(message string) {
	if isTerminal(n.Out) {
		fmt.Fprintf(n.Out, "%s %s\n", progressStyle.Render("ℹ"), message)
		return
	}
	fmt.Fprintln(n.Out, message)
}
