package ui

import (
	"time"

	"github.com/csams/nutshell/internal/models"
	"github.com/csams/nutshell/internal/player"
	"github.com/gdamore/tcell/v2"
)

// Background work reports back to the UI goroutine through these events.

type loadedEvent struct {
	tcell.EventTime
	episodes []models.Episode
	err      error
}

type sourcesEvent struct {
	tcell.EventTime
	err error
}

type mediaEvent struct {
	tcell.EventTime
	event player.Event
}

type searchEvent struct {
	tcell.EventTime
	query      string
	generation uint64
}

type openEvent struct {
	tcell.EventTime
	slug string
}

type timedEvent interface {
	tcell.Event
	SetEventNow()
}

const deliverRetry = 10 * time.Millisecond

// deliver posts ev, retrying while the event queue is full, until the UI
// stops running.
func (a *App) deliver(ev timedEvent) {
	ev.SetEventNow()
	for a.screen.PostEvent(ev) != nil {
		select {
		case <-a.runCtx.Done():
			return
		case <-time.After(deliverRetry):
		}
	}
}
