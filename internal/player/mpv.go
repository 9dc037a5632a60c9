package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/csams/nutshell/internal/log"
)

type mpvCommand struct {
	Command   []interface{} `json:"command"`
	RequestID int           `json:"request_id,omitempty"`
}

type mpvResponse struct {
	Data      interface{} `json:"data"`
	RequestID int         `json:"request_id"`
	Error     string      `json:"error"`
}

// MPV drives an idle mpv process over its JSON IPC socket. The process is
// started on the first Load and reused for every later source.
type MPV struct {
	binary     string
	socketPath string

	mu        sync.Mutex
	cmd       *exec.Cmd
	exited    chan struct{}
	events    chan Event
	eventConn net.Conn
	eventStop chan struct{}
}

func NewMPV(binary, socketPath string) *MPV {
	if binary == "" {
		binary = "mpv"
	}

	// stale socket from a previous run
	os.Remove(socketPath)

	return &MPV{
		binary:     binary,
		socketPath: socketPath,
		events:     make(chan Event, 64),
	}
}

// Events delivers media events for whatever source is loaded.
func (m *MPV) Events() <-chan Event {
	return m.events
}

func (m *MPV) ensureRunning() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.aliveLocked() {
		return nil
	}

	os.Remove(m.socketPath)

	m.cmd = exec.Command(m.binary,
		"--no-video",
		"--really-quiet",
		"--no-terminal",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		"--idle",
		"--force-window=no",
		"--keep-open=no",
	)

	if err := m.cmd.Start(); err != nil {
		m.cmd = nil
		return fmt.Errorf("failed to start %s: %w", m.binary, err)
	}

	socketReady := false
	for i := 0; i < 10; i++ {
		if _, err := os.Stat(m.socketPath); err == nil {
			socketReady = true
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	if !socketReady {
		m.cmd.Process.Kill()
		m.cmd.Wait()
		m.cmd = nil
		return errors.New("mpv socket not created after timeout")
	}

	exited := make(chan struct{})
	m.exited = exited
	go func(cmd *exec.Cmd) {
		cmd.Wait()
		close(exited)
		log.Debug("player: mpv exited")
	}(m.cmd)

	m.stopEventsLocked()
	if err := m.startEventListener(); err != nil {
		log.Warnf("player: failed to start event listener: %v", err)
	}

	log.Info("player: mpv started in idle mode")
	return nil
}

// Load replaces the current source and starts playback.
func (m *MPV) Load(url string) error {
	if err := m.ensureRunning(); err != nil {
		return err
	}

	if _, err := m.sendCommand(mpvCommand{Command: []interface{}{"loadfile", url, "replace"}}); err != nil {
		return fmt.Errorf("failed to load %s: %w", url, err)
	}
	if _, err := m.sendCommand(mpvCommand{Command: []interface{}{"set_property", "pause", false}}); err != nil {
		log.Warnf("player: failed to unpause after load: %v", err)
	}
	return nil
}

// Clear stops playback and unloads the source. mpv stays idle.
func (m *MPV) Clear() error {
	if !m.running() {
		return nil
	}
	_, err := m.sendCommand(mpvCommand{Command: []interface{}{"stop"}})
	return err
}

func (m *MPV) Play() error {
	return m.setPause(false)
}

func (m *MPV) Pause() error {
	return m.setPause(true)
}

func (m *MPV) setPause(paused bool) error {
	if !m.running() {
		return nil
	}
	_, err := m.sendCommand(mpvCommand{Command: []interface{}{"set_property", "pause", paused}})
	return err
}

// Seek moves to an absolute position.
func (m *MPV) Seek(pos time.Duration) error {
	if !m.running() {
		return nil
	}
	if pos < 0 {
		pos = 0
	}
	if _, err := m.sendCommand(mpvCommand{Command: []interface{}{"seek", pos.Seconds(), "absolute"}}); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}
	return nil
}

// SetVolume sets the volume in percent.
func (m *MPV) SetVolume(volume int) error {
	if !m.running() {
		return nil
	}
	_, err := m.sendCommand(mpvCommand{Command: []interface{}{"set_property", "volume", volume}})
	return err
}

// SetSpeed sets the playback rate.
func (m *MPV) SetSpeed(speed float64) error {
	if !m.running() {
		return nil
	}
	_, err := m.sendCommand(mpvCommand{Command: []interface{}{"set_property", "speed", speed}})
	return err
}

// Close quits mpv and removes its socket.
func (m *MPV) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopEventsLocked()

	if m.aliveLocked() {
		m.sendCommand(mpvCommand{Command: []interface{}{"quit"}})

		select {
		case <-m.exited:
		case <-time.After(time.Second):
			m.cmd.Process.Kill()
		}
	}
	m.cmd = nil

	os.Remove(m.socketPath)
	return nil
}

func (m *MPV) running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.aliveLocked()
}

func (m *MPV) aliveLocked() bool {
	if m.cmd == nil || m.exited == nil {
		return false
	}
	select {
	case <-m.exited:
		return false
	default:
		return true
	}
}

// sendCommand only reads socketPath, so it is safe with or without m.mu.
func (m *MPV) sendCommand(cmd mpvCommand) (*mpvResponse, error) {
	conn, err := net.Dial("unix", m.socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mpv socket: %w", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(2 * time.Second))

	data, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal command: %w", err)
	}
	data = append(data, '\n')

	if _, err := conn.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write command: %w", err)
	}

	// async events may arrive on this connection before the reply
	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		var peek struct {
			Event string `json:"event"`
		}
		if json.Unmarshal(line, &peek) == nil && peek.Event != "" {
			continue
		}

		var response mpvResponse
		if err := json.Unmarshal(line, &response); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response: %w", err)
		}
		if response.Error != "" && response.Error != "success" {
			return &response, fmt.Errorf("mpv error: %s", response.Error)
		}
		return &response, nil
	}
}

// startEventListener opens a long-lived connection that observes the
// properties behind the media events. Called with m.mu held.
func (m *MPV) startEventListener() error {
	conn, err := net.Dial("unix", m.socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect for events: %w", err)
	}

	observe := []mpvCommand{
		{Command: []interface{}{"observe_property", observeTimePos, "time-pos"}},
		{Command: []interface{}{"observe_property", observeDuration, "duration"}},
		{Command: []interface{}{"observe_property", observePause, "pause"}},
	}
	for _, cmd := range observe {
		data, _ := json.Marshal(cmd)
		if _, err := conn.Write(append(data, '\n')); err != nil {
			conn.Close()
			return fmt.Errorf("failed to observe properties: %w", err)
		}
	}

	m.eventConn = conn
	m.eventStop = make(chan struct{})
	go m.handleEvents(conn, m.eventStop)
	return nil
}

// stopEventsLocked ends the event reader by closing its connection.
func (m *MPV) stopEventsLocked() {
	if m.eventStop != nil {
		close(m.eventStop)
		m.eventStop = nil
	}
	if m.eventConn != nil {
		m.eventConn.Close()
		m.eventConn = nil
	}
}

// handleEvents reads event lines until conn is closed. A close after stop
// is the normal shutdown.
func (m *MPV) handleEvents(conn net.Conn, stop <-chan struct{}) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			select {
			case <-stop:
			default:
				log.Debugf("player: event reader stopped: %v", err)
			}
			return
		}

		event, ok := decodeEvent(line)
		if !ok {
			continue
		}

		select {
		case m.events <- event:
		default:
			// a slow consumer only loses intermediate time updates
		}
	}
}
