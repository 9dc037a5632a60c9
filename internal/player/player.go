// Package player holds the single audio player of the application and the
// control surface that follows its events.
package player

import (
	"errors"
	"sync"
	"time"

	"github.com/csams/nutshell/internal/log"
)

// Media is the element a Player drives. MPV is the production
// implementation.
type Media interface {
	Load(url string) error
	Clear() error
	Play() error
	Pause() error
	Seek(pos time.Duration) error
	SetVolume(volume int) error
	SetSpeed(speed float64) error
	Events() <-chan Event
	Close() error
}

type PlayerState int

const (
	StateStopped PlayerState = iota
	StatePlaying
	StatePaused
)

// ErrNoAudio is returned when a track without a URL is opened.
var ErrNoAudio = errors.New("episode has no audio")

// Track is what the player bar shows: the episode title, its date and
// the audio it plays.
type Track struct {
	GUID  string
	Title string
	Date  string
	URL   string
}

// Player is the one player instance. Opening a track replaces the source
// and title of whatever was open before.
type Player struct {
	media Media

	mu       sync.Mutex
	track    *Track
	state    PlayerState
	position time.Duration
	duration time.Duration
	volume   int
	speed    float64
	isMuted  bool
}

func New(media Media) *Player {
	return &Player{
		media:  media,
		volume: 100,
		speed:  1.0,
		state:  StateStopped,
	}
}

// Open mounts t, replacing any current track.
func (p *Player) Open(t Track) error {
	if t.URL == "" {
		return ErrNoAudio
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.media.Load(t.URL); err != nil {
		return err
	}

	p.track = &t
	p.state = StatePlaying
	p.position = 0
	p.duration = 0

	log.WithField("guid", t.GUID).Debugf("player: opened %q", t.Title)
	return nil
}

// Close clears the source and unmounts the track.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.track == nil {
		return nil
	}

	err := p.media.Clear()
	p.track = nil
	p.state = StateStopped
	p.position = 0
	p.duration = 0
	return err
}

// Shutdown stops the media backend for good.
func (p *Player) Shutdown() error {
	p.Close()
	return p.media.Close()
}

// Track returns the mounted track.
func (p *Player) Track() (Track, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.track == nil {
		return Track{}, false
	}
	return *p.track, true
}

// Mounted reports whether a track is open.
func (p *Player) Mounted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.track != nil
}

// Events is the event stream of the underlying media.
func (p *Player) Events() <-chan Event {
	return p.media.Events()
}

// Observe folds a media event into the player state.
func (p *Player) Observe(e Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.track == nil {
		return
	}

	switch e.Kind {
	case LoadedMetadata:
		p.duration = e.Duration
	case TimeUpdate:
		p.position = e.Position
	case Play:
		p.state = StatePlaying
	case Pause:
		p.state = StatePaused
	case Ended:
		if p.duration > 0 {
			p.position = p.duration
		}
		p.state = StateStopped
	case Error:
		p.state = StateStopped
	}
}

func (p *Player) TogglePause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StatePlaying:
		if err := p.media.Pause(); err != nil {
			return err
		}
		p.state = StatePaused
	case StatePaused:
		if err := p.media.Play(); err != nil {
			return err
		}
		p.state = StatePlaying
	case StateStopped:
		if p.track == nil {
			return nil
		}
		if err := p.media.Seek(0); err != nil {
			return err
		}
		if err := p.media.Play(); err != nil {
			return err
		}
		p.state = StatePlaying
	}
	return nil
}

// Seek jumps to an absolute position, clamped to the known duration.
func (p *Player) Seek(pos time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.track == nil {
		return nil
	}
	pos = p.clamp(pos)
	if err := p.media.Seek(pos); err != nil {
		return err
	}
	p.position = pos
	return nil
}

// SeekRelative moves by delta from the current position. Seeking past the
// end lands one second before it.
func (p *Player) SeekRelative(delta time.Duration) error {
	p.mu.Lock()
	target := p.position + delta
	p.mu.Unlock()
	return p.Seek(target)
}

func (p *Player) clamp(pos time.Duration) time.Duration {
	if pos < 0 {
		return 0
	}
	if p.duration > 0 && pos >= p.duration {
		return max(p.duration-time.Second, 0)
	}
	return pos
}

func (p *Player) ToggleMute() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	volume := p.volume
	if !p.isMuted {
		volume = 0
	}
	if err := p.media.SetVolume(volume); err != nil {
		return err
	}
	p.isMuted = !p.isMuted
	return nil
}

// SetSpeed changes the playback rate, bounded to 0.5x..3x.
func (p *Player) SetSpeed(speed float64) error {
	speed = min(max(speed, 0.5), 3.0)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.media.SetSpeed(speed); err != nil {
		return err
	}
	p.speed = speed
	return nil
}

func (p *Player) GetSpeed() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speed
}

func (p *Player) IsMuted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isMuted
}

func (p *Player) GetState() PlayerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Player) GetPosition() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

func (p *Player) GetDuration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}
