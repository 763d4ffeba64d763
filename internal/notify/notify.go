// Package notify reports the outcome of user operations.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"
)

// Notifier shows the result of an operation to the user.
type Notifier interface {
	// Success reports a completed operation.
	Success(title string)

	// Failure reports a failed operation; detail may be empty.
	Failure(title, detail string)
}

// Notification strategies selectable by configuration.
const (
	StrategyAlert  = "alert"
	StrategyStyled = "styled"
	StrategyLog    = "log"
)

// New returns the notifier for strategy. An empty strategy means alert.
// Failures are always logged through logger, whatever the strategy.
func New(strategy string, w io.Writer, logger *slog.Logger) (Notifier, error) {
	logger = logger.With("component", "notify")
	switch strategy {
	case "", StrategyAlert:
		return &AlertNotifier{w: w, logger: logger}, nil
	case StrategyStyled:
		return &StyledNotifier{w: w, logger: logger}, nil
	case StrategyLog:
		return &LogNotifier{logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown notification strategy: %q", strategy)
	}
}

// AlertNotifier writes one plain line per notification.
type AlertNotifier struct {
	mu     sync.Mutex
	w      io.Writer
	logger *slog.Logger
}

// Success implements Notifier.
func (n *AlertNotifier) Success(title string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintf(n.w, "[ok] %s\n", title)
}

// Failure implements Notifier.
func (n *AlertNotifier) Failure(title, detail string) {
	n.logger.Warn("Operation failed", "title", title, "detail", detail)
	n.mu.Lock()
	defer n.mu.Unlock()
	if detail == "" {
		_, _ = fmt.Fprintf(n.w, "[erro] %s\n", title)
		return
	}
	_, _ = fmt.Fprintf(n.w, "[erro] %s: %s\n", title, detail)
}

const (
	ansiReset = "\x1b[0m"
	ansiGreen = "\x1b[1;32m"
	ansiRed   = "\x1b[1;31m"
)

// StyledNotifier draws a colored frame around each notification.
type StyledNotifier struct {
	mu     sync.Mutex
	w      io.Writer
	logger *slog.Logger
}

// Success implements Notifier.
func (n *StyledNotifier) Success(title string) {
	n.box(ansiGreen, "✔ "+title, "")
}

// Failure implements Notifier.
func (n *StyledNotifier) Failure(title, detail string) {
	n.logger.Warn("Operation failed", "title", title, "detail", detail)
	n.box(ansiRed, "✖ "+title, detail)
}

func (n *StyledNotifier) box(color, title, detail string) {
	lines := []string{title}
	if detail != "" {
		lines = append(lines, strings.Split(detail, "\n")...)
	}
	width := 0
	for _, l := range lines {
		width = max(width, utf8.RuneCountInString(l))
	}

	var b strings.Builder
	b.WriteString(color + "┌" + strings.Repeat("─", width+2) + "┐" + ansiReset + "\n")
	for _, l := range lines {
		pad := strings.Repeat(" ", width-utf8.RuneCountInString(l))
		b.WriteString(color + "│ " + ansiReset + l + pad + color + " │" + ansiReset + "\n")
	}
	b.WriteString(color + "└" + strings.Repeat("─", width+2) + "┘" + ansiReset + "\n")

	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = io.WriteString(n.w, b.String())
}

// LogNotifier only emits log records.
type LogNotifier struct {
	logger *slog.Logger
}

// Success implements Notifier.
func (n *LogNotifier) Success(title string) {
	n.logger.Info("Operation succeeded", "title", title)
}

// Failure implements Notifier.
func (n *LogNotifier) Failure(title, detail string) {
	n.logger.Warn("Operation failed", "title", title, "detail", detail)
}
