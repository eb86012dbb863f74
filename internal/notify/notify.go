// Package notify carries fire-and-forget user notifications.
package notify

import (
	"log/slog"
	"sync"
)

// Severity is the intent of a notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a message for the user.
type Notification struct {
	Message  string
	Severity Severity
}

// Notifier receives notifications. Implementations must not block.
type Notifier interface {
	Notify(Notification)
}

// Func adapts a function to the Notifier interface.
type Func func(Notification)

// Notify calls f(n).
func (f Func) Notify(n Notification) {
	f(n)
}

// Discard drops every notification.
var Discard Notifier = Func(func(Notification) {})

// LogNotifier writes notifications to slog.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify logs n at a level matching its severity.
func (l LogNotifier) Notify(n Notification) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	switch n.Severity {
	case SeverityError:
		logger.Error(n.Message)
	default:
		logger.Info(n.Message, "severity", string(n.Severity))
	}
}

// DefaultMaxToasts is how many toasts the tray keeps.
const DefaultMaxToasts = 5

// Tray keeps the most recent notifications for display, dropping the oldest
// once it is full.
type Tray struct {
	mu     sync.Mutex
	max    int
	toasts []Notification
}

// NewTray creates a tray holding at most max toasts.
func NewTray(max int) *Tray {
	if max <= 0 {
		max = DefaultMaxToasts
	}
	return &Tray{max: max}
}

// Notify adds n to the tray.
func (t *Tray) Notify(n Notification) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.toasts = append(t.toasts, n)
	if over := len(t.toasts) - t.max; over > 0 {
		t.toasts = append([]Notification(nil), t.toasts[over:]...)
	}
}

// Toasts returns the held notifications, oldest first.
func (t *Tray) Toasts() []Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Notification(nil), t.toasts...)
}

// Dismiss removes the oldest toast.
func (t *Tray) Dismiss() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.toasts) > 0 {
		t.toasts = t.toasts[1:]
	}
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

// Notify forwards n to every notifier.
func (m Multi) Notify(n Notification) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(n)
		}
	}
}
