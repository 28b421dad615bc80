package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

type statusStyle struct {
	label string
	color pterm.Color
}

var statusStyles = map[statusKind]statusStyle{
	statusInfo:  {label: "INFO", color: pterm.FgBlue},
	statusOK:    {label: "OK", color: pterm.FgGreen},
	statusWarn:  {label: "WARN", color: pterm.FgYellow},
	statusError: {label: "LOW", color: pterm.FgRed},
}

// renderStatusLine formats "  label:   [KIND] message" with the label padded
// so consecutive lines align.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style, ok := statusStyles[kind]
	if !ok {
		style = statusStyles[statusInfo]
	}
	line := fmt.Sprintf("  %-18s [%s]", label+":", style.label)
	if message != "" {
		line += " " + message
	}
	if !colorize {
		return line
	}
	return style.color.Sprint(line)
}

func renderSectionHeader(title string, colorize bool) []string {
	title = strings.TrimSpace(title)
	rule := strings.Repeat("=", len(title)+4)
	heading := "  " + title
	if colorize {
		heading = pterm.Bold.Sprint(pterm.FgBlue.Sprint(heading))
		rule = pterm.FgBlue.Sprint(rule)
	}
	return []string{heading, rule}
}

func shouldColorize(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}
