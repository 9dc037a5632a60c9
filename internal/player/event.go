package player

import (
	"encoding/json"
	"errors"
	"time"
)

// EventKind mirrors the media element events the control surface follows.
type EventKind int

const (
	LoadedMetadata EventKind = iota
	TimeUpdate
	Play
	Pause
	Ended
	Error
)

func (k EventKind) String() string {
	switch k {
	case LoadedMetadata:
		return "loadedmetadata"
	case TimeUpdate:
		return "timeupdate"
	case Play:
		return "play"
	case Pause:
		return "pause"
	case Ended:
		return "ended"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Event is one media event. Position is set for TimeUpdate, Duration for
// LoadedMetadata and Err for Error.
type Event struct {
	Kind     EventKind
	Position time.Duration
	Duration time.Duration
	Err      error
}

const (
	observeTimePos = iota + 1
	observeDuration
	observePause
)

type mpvEvent struct {
	Event     string          `json:"event"`
	ID        int             `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	FileError string          `json:"file_error,omitempty"`
}

// decodeEvent converts one line of mpv IPC output into an Event. Lines that
// are command replies or events nobody listens for report false.
func decodeEvent(line []byte) (Event, bool) {
	var raw mpvEvent
	if err := json.Unmarshal(line, &raw); err != nil || raw.Event == "" {
		return Event{}, false
	}

	switch raw.Event {
	case "property-change":
		return decodeProperty(raw)
	case "end-file":
		switch raw.Reason {
		case "eof":
			return Event{Kind: Ended}, true
		case "error":
			msg := raw.FileError
			if msg == "" {
				msg = "playback failed"
			}
			return Event{Kind: Error, Err: errors.New(msg)}, true
		}
	}
	return Event{}, false
}

func decodeProperty(raw mpvEvent) (Event, bool) {
	switch raw.Name {
	case "time-pos":
		var secs float64
		if err := json.Unmarshal(raw.Data, &secs); err != nil || secs < 0 {
			return Event{}, false
		}
		return Event{Kind: TimeUpdate, Position: seconds(secs)}, true
	case "duration":
		var secs float64
		if err := json.Unmarshal(raw.Data, &secs); err != nil || secs <= 0 {
			return Event{}, false
		}
		return Event{Kind: LoadedMetadata, Duration: seconds(secs)}, true
	case "pause":
		var paused bool
		if err := json.Unmarshal(raw.Data, &paused); err != nil {
			return Event{}, false
		}
		if paused {
			return Event{Kind: Pause}, true
		}
		return Event{Kind: Play}, true
	}
	return Event{}, false
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
