package player

import (
	"errors"
	"testing"
	"time"
)

type fakeMedia struct {
	loaded  []string
	source  string
	paused  bool
	pos     time.Duration
	volume  int
	speed   float64
	cleared int
	closed  bool
	loadErr error
	events  chan Event
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{volume: 100, speed: 1, events: make(chan Event, 8)}
}

func (f *fakeMedia) Load(url string) error {
	if f.loadErr != nil {
		return f.loadErr
	}
	f.loaded = append(f.loaded, url)
	f.source = url
	f.paused = false
	f.pos = 0
	return nil
}

func (f *fakeMedia) Clear() error {
	f.cleared++
	f.source = ""
	return nil
}

func (f *fakeMedia) Play() error                  { f.paused = false; return nil }
func (f *fakeMedia) Pause() error                 { f.paused = true; return nil }
func (f *fakeMedia) Seek(pos time.Duration) error { f.pos = pos; return nil }
func (f *fakeMedia) SetVolume(v int) error        { f.volume = v; return nil }
func (f *fakeMedia) SetSpeed(s float64) error     { f.speed = s; return nil }
func (f *fakeMedia) Events() <-chan Event         { return f.events }
func (f *fakeMedia) Close() error                 { f.closed = true; return nil }

func TestPlayer_OpenReplacesSource(t *testing.T) {
	media := newFakeMedia()
	p := New(media)

	a := Track{GUID: "a", Title: "Episode A", URL: "https://cdn.example.com/a.mp3"}
	b := Track{GUID: "b", Title: "Episode B", URL: "https://cdn.example.com/b.mp3"}

	if err := p.Open(a); err != nil {
		t.Fatalf("Open(a) error = %v", err)
	}
	if err := p.Open(b); err != nil {
		t.Fatalf("Open(b) error = %v", err)
	}

	got, ok := p.Track()
	if !ok {
		t.Fatal("expected a mounted track")
	}
	if got.Title != "Episode B" {
		t.Errorf("Title = %q, want Episode B", got.Title)
	}
	if media.source != b.URL {
		t.Errorf("source = %q, want %q", media.source, b.URL)
	}
	if len(media.loaded) != 2 {
		t.Errorf("loaded %d sources, want 2 on the same media", len(media.loaded))
	}
	if p.GetState() != StatePlaying {
		t.Errorf("state = %v, want playing", p.GetState())
	}
}

func TestPlayer_OpenWithoutAudio(t *testing.T) {
	media := newFakeMedia()
	p := New(media)

	if err := p.Open(Track{GUID: "x", Title: "Silent"}); !errors.Is(err, ErrNoAudio) {
		t.Fatalf("Open() error = %v, want ErrNoAudio", err)
	}
	if p.Mounted() {
		t.Error("player should not be mounted")
	}
	if len(media.loaded) != 0 {
		t.Error("media should not be loaded")
	}
}

func TestPlayer_OpenFailureKeepsPrevious(t *testing.T) {
	media := newFakeMedia()
	p := New(media)

	if err := p.Open(Track{GUID: "a", Title: "A", URL: "a.mp3"}); err != nil {
		t.Fatal(err)
	}
	media.loadErr = errors.New("boom")
	if err := p.Open(Track{GUID: "b", Title: "B", URL: "b.mp3"}); err == nil {
		t.Fatal("expected error")
	}

	got, _ := p.Track()
	if got.GUID != "a" {
		t.Errorf("track = %q, want a", got.GUID)
	}
}

func TestPlayer_Close(t *testing.T) {
	media := newFakeMedia()
	p := New(media)

	// closing an empty player is a no-op
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if media.cleared != 0 {
		t.Errorf("cleared = %d, want 0", media.cleared)
	}

	p.Open(Track{GUID: "a", Title: "A", URL: "a.mp3"})
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if p.Mounted() {
		t.Error("player still mounted after Close")
	}
	if media.source != "" {
		t.Errorf("source = %q, want empty", media.source)
	}
	if p.GetState() != StateStopped {
		t.Errorf("state = %v, want stopped", p.GetState())
	}

	if err := p.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if !media.closed {
		t.Error("media not closed by Shutdown")
	}
}

func TestPlayer_ObserveAndSeek(t *testing.T) {
	media := newFakeMedia()
	p := New(media)

	// events without a track are ignored
	p.Observe(Event{Kind: LoadedMetadata, Duration: time.Minute})
	if p.GetDuration() != 0 {
		t.Fatalf("duration = %v, want 0", p.GetDuration())
	}

	p.Open(Track{GUID: "a", Title: "A", URL: "a.mp3"})
	p.Observe(Event{Kind: LoadedMetadata, Duration: 10 * time.Minute})
	p.Observe(Event{Kind: TimeUpdate, Position: time.Minute})

	if p.GetPosition() != time.Minute {
		t.Errorf("position = %v, want 1m", p.GetPosition())
	}

	tests := []struct {
		name  string
		delta time.Duration
		want  time.Duration
	}{
		{"forward", 30 * time.Second, 90 * time.Second},
		{"backward past start", -5 * time.Minute, 0},
		{"past end", time.Hour, 10*time.Minute - time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := p.SeekRelative(tt.delta); err != nil {
				t.Fatal(err)
			}
			if media.pos != tt.want {
				t.Errorf("media position = %v, want %v", media.pos, tt.want)
			}
		})
	}

	p.Observe(Event{Kind: Pause})
	if p.GetState() != StatePaused {
		t.Errorf("state = %v, want paused", p.GetState())
	}
	p.Observe(Event{Kind: Ended})
	if p.GetState() != StateStopped || p.GetPosition() != 10*time.Minute {
		t.Errorf("after ended: state %v position %v", p.GetState(), p.GetPosition())
	}
}

func TestPlayer_TogglePause(t *testing.T) {
	media := newFakeMedia()
	p := New(media)

	// nothing mounted
	if err := p.TogglePause(); err != nil {
		t.Fatal(err)
	}
	if p.GetState() != StateStopped {
		t.Fatalf("state = %v, want stopped", p.GetState())
	}

	p.Open(Track{GUID: "a", Title: "A", URL: "a.mp3"})
	p.TogglePause()
	if !media.paused || p.GetState() != StatePaused {
		t.Errorf("expected paused, media paused=%v state=%v", media.paused, p.GetState())
	}
	p.TogglePause()
	if media.paused || p.GetState() != StatePlaying {
		t.Errorf("expected playing, media paused=%v state=%v", media.paused, p.GetState())
	}

	// replay after the end restarts from zero
	p.Observe(Event{Kind: Ended})
	media.pos = time.Minute
	p.TogglePause()
	if media.pos != 0 || p.GetState() != StatePlaying {
		t.Errorf("replay: pos %v state %v", media.pos, p.GetState())
	}
}

func TestPlayer_MuteAndSpeed(t *testing.T) {
	media := newFakeMedia()
	p := New(media)

	p.ToggleMute()
	if media.volume != 0 || !p.IsMuted() {
		t.Errorf("mute: volume %d muted %v", media.volume, p.IsMuted())
	}
	p.ToggleMute()
	if media.volume != 100 || p.IsMuted() {
		t.Errorf("unmute: volume %d muted %v", media.volume, p.IsMuted())
	}

	p.SetSpeed(10)
	if p.GetSpeed() != 3.0 || media.speed != 3.0 {
		t.Errorf("speed = %v, want 3.0", p.GetSpeed())
	}
	p.SetSpeed(0.1)
	if p.GetSpeed() != 0.5 {
		t.Errorf("speed = %v, want 0.5", p.GetSpeed())
	}
}
