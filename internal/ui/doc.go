// Package ui provides semantic text formatting for hush's CLI output.
//
// Formatters colorize content when the terminal supports it and fall back to
// plain decorations (backticks, quotes, parentheses) when NO_COLOR is set or
// output is not a terminal:
//
//	ui.Code.Sprint("hush keys init")
//	ui.Path.Sprint("~/.local/share/hush/keys/hush")
//	ui.Highlight.Sprint(fingerprint)
//
// Ok, Fail and Hint build the one-line status messages commands print when
// they finish.
package ui
