package report

import (
	"fmt"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
)

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays warnings and errors to the user.
	LogLevelVerbose        // Displays all compilation messages to the user.
)

// Display prints a diagnostic to the console if the log level permits it.
func (d *Diagnostic) Display(logLevel int) {
	if d.IsError {
		if logLevel < LogLevelError {
			return
		}
		ErrorStyleBG.Print("Translation Error")
		ErrorColorFG.Println(" " + d.Message + spanSuffix(d.Span))
	} else {
		if logLevel < LogLevelWarn {
			return
		}
		WarnStyleBG.Print("Translation Warning")
		WarnColorFG.Println(" " + d.Message + spanSuffix(d.Span))
	}
}

// DisplaySummary prints the concluding line after a driver run.
func DisplaySummary(compiled, failed int, logLevel int) {
	if logLevel < LogLevelVerbose {
		return
	}

	if failed == 0 {
		SuccessStyleBG.Print("Done")
		SuccessColorFG.Println(fmt.Sprintf(" %d members compiled", compiled))
	} else {
		ErrorStyleBG.Print("Done")
		ErrorColorFG.Println(fmt.Sprintf(" %d members compiled, %d failed", compiled, failed))
	}
}

func spanSuffix(span *TextSpan) string {
	if span == nil {
		return ""
	}

	return fmt.Sprintf(" at (%d, %d)", span.StartLine+1, span.StartCol+1)
}
