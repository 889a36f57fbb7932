// Package logger prints tagged, colored status lines to the console.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
)

var (
	tagColor     = color.New(color.FgHiBlack)
	infoColor    = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	brandColor   = color.New(color.FgHiGreen, color.Bold)
)

// out is resolved on every call so tests can swap os.Stdout.
func out() io.Writer {
	return os.Stdout
}

func line(c *color.Color, tag, msg string) {
	ts := time.Now().Format("15:04:05")
	fmt.Fprintf(out(), "%s %s %s\n", tagColor.Sprint(ts), c.Sprintf("[%s]", tag), msg)
}

// Info logs a neutral progress message.
func Info(tag, msg string) {
	line(infoColor, tag, msg)
}

// Success logs a completed step.
func Success(tag, msg string) {
	line(successColor, tag, msg)
}

// Warn logs a recoverable problem.
func Warn(tag, msg string) {
	line(warnColor, tag, msg)
}

// Error logs a failure.
func Error(tag, msg string) {
	line(errorColor, tag, msg)
}

// Banner prints the startup banner.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	fmt.Fprintf(out(), "\n  %s %s\n", brandColor.Sprint("DynamicSector"), tagColor.Sprint(version))
	fmt.Fprintln(out(), tagColor.Sprint("  star maps from sector tables"))
	fmt.Fprintln(out())
}

// Server logs the listening address.
func Server(addr string) {
	Success("Server", fmt.Sprintf("Listening on http://%s", addr))
}

// Section prints a section header.
func Section(title string) {
	fmt.Fprintf(out(), "\n%s\n", brandColor.Sprint(title))
}

// Stats prints a key/value statistic line.
func Stats(key string, value any) {
	fmt.Fprintf(out(), "  %-18s %v\n", tagColor.Sprint(key), value)
}
