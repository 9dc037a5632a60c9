package player

import (
	"time"

	"github.com/csams/nutshell/internal/models"
)

const (
	IconPlay  = "▶"
	IconPause = "⏸"
)

// SurfaceView is what the player bar draws.
type SurfaceView struct {
	Progress  float64
	Elapsed   string
	Remaining string
	Icon      string
	Playing   bool
	Dragging  bool
	Error     string
}

// Surface tracks progress from media events. While the progress control is
// being dragged, time updates are ignored; releasing it seeks the media to
// the dragged position.
type Surface struct {
	seek func(time.Duration) error

	position time.Duration
	duration time.Duration
	playing  bool
	errMsg   string

	dragging bool
	dragTo   float64
}

// NewSurface returns a surface that seeks through seek on drag release.
func NewSurface(seek func(time.Duration) error) *Surface {
	return &Surface{seek: seek}
}

// Reset forgets the previous source.
func (s *Surface) Reset() {
	*s = Surface{seek: s.seek}
}

// Handle applies one media event.
func (s *Surface) Handle(e Event) {
	switch e.Kind {
	case LoadedMetadata:
		s.duration = e.Duration
		s.errMsg = ""
	case TimeUpdate:
		if !s.dragging {
			s.position = e.Position
		}
	case Play:
		s.playing = true
		s.errMsg = ""
	case Pause:
		s.playing = false
	case Ended:
		s.playing = false
		if s.duration > 0 {
			s.position = s.duration
		}
	case Error:
		s.playing = false
		if e.Err != nil {
			s.errMsg = e.Err.Error()
		} else {
			s.errMsg = "playback failed"
		}
	}
}

// BeginDrag suspends progress updates.
func (s *Surface) BeginDrag() {
	s.dragging = true
	s.dragTo = s.fraction()
}

// DragTo moves the control to frac of the duration.
func (s *Surface) DragTo(frac float64) {
	if !s.dragging {
		s.BeginDrag()
	}
	s.dragTo = min(max(frac, 0), 1)
}

// EndDrag releases the control and seeks to the dragged position.
func (s *Surface) EndDrag() error {
	if !s.dragging {
		return nil
	}
	s.dragging = false

	if s.duration <= 0 {
		return nil
	}
	target := time.Duration(s.dragTo * float64(s.duration))
	s.position = target
	if s.seek == nil {
		return nil
	}
	return s.seek(target)
}

func (s *Surface) fraction() float64 {
	if s.duration <= 0 {
		return 0
	}
	return min(max(float64(s.position)/float64(s.duration), 0), 1)
}

// View renders the current state.
func (s *Surface) View() SurfaceView {
	position := s.position
	progress := s.fraction()
	if s.dragging {
		progress = s.dragTo
		position = time.Duration(s.dragTo * float64(s.duration))
	}

	icon := IconPlay
	if s.playing {
		icon = IconPause
	}

	return SurfaceView{
		Progress:  progress,
		Elapsed:   models.FormatClock(position),
		Remaining: "-" + models.FormatClock(max(s.duration-position, 0)),
		Icon:      icon,
		Playing:   s.playing,
		Dragging:  s.dragging,
		Error:     s.errMsg,
	}
}
