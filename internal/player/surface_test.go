package player

import (
	"errors"
	"testing"
	"time"
)

func TestSurface_Progress(t *testing.T) {
	s := NewSurface(nil)

	view := s.View()
	if view.Progress != 0 || view.Elapsed != "00:00" || view.Icon != IconPlay {
		t.Fatalf("initial view = %+v", view)
	}

	s.Handle(Event{Kind: LoadedMetadata, Duration: 4 * time.Minute})
	s.Handle(Event{Kind: Play})
	s.Handle(Event{Kind: TimeUpdate, Position: time.Minute})

	view = s.View()
	if view.Progress != 0.25 {
		t.Errorf("Progress = %v, want 0.25", view.Progress)
	}
	if view.Elapsed != "01:00" {
		t.Errorf("Elapsed = %q, want 01:00", view.Elapsed)
	}
	if view.Remaining != "-03:00" {
		t.Errorf("Remaining = %q, want -03:00", view.Remaining)
	}
	if view.Icon != IconPause || !view.Playing {
		t.Errorf("expected pause icon while playing, got %+v", view)
	}

	s.Handle(Event{Kind: Ended})
	view = s.View()
	if view.Progress != 1 || view.Playing {
		t.Errorf("after ended: %+v", view)
	}
}

func TestSurface_DragSuspendsUpdates(t *testing.T) {
	var seeked []time.Duration
	s := NewSurface(func(d time.Duration) error {
		seeked = append(seeked, d)
		return nil
	})

	s.Handle(Event{Kind: LoadedMetadata, Duration: 100 * time.Second})
	s.Handle(Event{Kind: TimeUpdate, Position: 10 * time.Second})

	s.BeginDrag()
	s.DragTo(0.5)
	s.Handle(Event{Kind: TimeUpdate, Position: 11 * time.Second})

	view := s.View()
	if !view.Dragging || view.Progress != 0.5 {
		t.Errorf("while dragging: %+v", view)
	}
	if view.Elapsed != "00:50" {
		t.Errorf("Elapsed = %q, want 00:50", view.Elapsed)
	}

	if err := s.EndDrag(); err != nil {
		t.Fatal(err)
	}
	if len(seeked) != 1 || seeked[0] != 50*time.Second {
		t.Fatalf("seeked = %v, want [50s]", seeked)
	}

	s.Handle(Event{Kind: TimeUpdate, Position: 51 * time.Second})
	if s.View().Elapsed != "00:51" {
		t.Errorf("updates not resumed: %q", s.View().Elapsed)
	}
}

func TestSurface_DragClampsAndNeedsDuration(t *testing.T) {
	called := false
	s := NewSurface(func(time.Duration) error {
		called = true
		return nil
	})

	s.DragTo(2)
	if s.View().Progress != 1 {
		t.Errorf("Progress = %v, want clamped to 1", s.View().Progress)
	}
	if err := s.EndDrag(); err != nil {
		t.Fatal(err)
	}
	if called {
		t.Error("seek without a known duration")
	}
	if err := s.EndDrag(); err != nil {
		t.Error("second EndDrag should be a no-op")
	}
}

func TestSurface_ErrorAndReset(t *testing.T) {
	s := NewSurface(nil)
	s.Handle(Event{Kind: Play})
	s.Handle(Event{Kind: Error, Err: errors.New("loading failed")})

	view := s.View()
	if view.Error != "loading failed" || view.Playing {
		t.Errorf("after error: %+v", view)
	}

	s.Handle(Event{Kind: Error})
	if s.View().Error != "playback failed" {
		t.Errorf("Error = %q", s.View().Error)
	}

	s.Reset()
	if s.View().Error != "" {
		t.Error("Reset kept the error")
	}
}
