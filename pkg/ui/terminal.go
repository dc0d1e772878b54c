package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Banner printed at startup
const Banner = `
  ____  _       ____           _     ____        _
 |  _ \(_)_ __ |  _ \ ___  ___| |_  | __ )  ___ | |_
 | |_) | | '_ \| |_) / _ \/ __| __| |  _ \ / _ \| __|
 |  __/| | | | |  __/ (_) \__ \ |_  | |_) | (_) | |_
 |_|   |_|_| |_|_|   \___/|___/\__| |____/ \___/ \__|
                          Pinterest Bulk Post Bot
`

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// quietMode suppresses all decorative output
var quietMode bool

// SetQuietMode turns decorative output on or off
func SetQuietMode(quiet bool) {
	quietMode = quiet
}

// IsQuietMode reports whether decorative output is suppressed
func IsQuietMode() bool {
	return quietMode
}

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

// PrintBanner prints the startup banner with color
func PrintBanner() {
	if quietMode {
		return
	}
	fmt.Print(Cyan(Banner))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(Red(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	fmt.Println(Green(msg))
}

// PrintInfo prints an info message in cyan
func PrintInfo(label string, value string) {
	fmt.Printf("%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(Yellow(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Yellow(msg))
	}
}

// Prompt reads one line of input after printing a label. Empty input
// returns the fallback.
func Prompt(r io.Reader, label, fallback string) string {
	fmt.Printf("  %s: ", Cyan(label))
	reader := bufio.NewReader(r)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return fallback
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return fallback
	}
	return line
}
