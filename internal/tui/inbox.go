package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lepinkainen/shelf/internal/engine"
	"github.com/lepinkainen/shelf/internal/notify"
)

// changedMsg tells the model to re-read the engine snapshot and the toasts.
type changedMsg struct{}

// Inbox collects toasts for the browse screen and wakes it whenever the
// engine state or the toasts change. Wake-ups coalesce, so neither the
// engine nor a notifier ever blocks on a busy screen.
type Inbox struct {
	tray    *notify.Tray
	changed chan struct{}
}

// NewInbox returns an inbox holding up to notify.DefaultMaxToasts toasts.
func NewInbox() *Inbox {
	return &Inbox{
		tray:    notify.NewTray(notify.DefaultMaxToasts),
		changed: make(chan struct{}, 1),
	}
}

// Notify implements notify.Notifier.
func (i *Inbox) Notify(n notify.Notification) {
	i.tray.Notify(n)
	i.poke()
}

// Listener returns an engine listener that wakes the screen.
func (i *Inbox) Listener() engine.Listener {
	return func(engine.Snapshot) { i.poke() }
}

// Toasts returns the held toasts, oldest first.
func (i *Inbox) Toasts() []notify.Notification {
	return i.tray.Toasts()
}

// Dismiss drops the oldest toast.
func (i *Inbox) Dismiss() {
	i.tray.Dismiss()
	i.poke()
}

func (i *Inbox) poke() {
	select {
	case i.changed <- struct{}{}:
	default:
	}
}

// wait blocks until the next change or until ctx ends.
func (i *Inbox) wait(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-i.changed:
			return changedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}
