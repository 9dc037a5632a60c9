package open

import (
	"strings"
	"testing"
)

func TestCommand(t *testing.T) {
	tests := []struct {
		name string
		goos string
		app  string
		want string
		ok   bool
	}{
		{name: "linux default", goos: "linux", want: "xdg-open https://example.com/?a=1&b=2", ok: true},
		{name: "darwin default", goos: "darwin", want: "open https://example.com/?a=1&b=2", ok: true},
		{name: "linux with app", goos: "linux", app: "firefox", want: "firefox https://example.com/?a=1&b=2", ok: true},
		{name: "darwin with app", goos: "darwin", app: "Safari", want: "open -a Safari https://example.com/?a=1&b=2", ok: true},
		{name: "windows with app escapes", goos: "windows", app: "chrome", want: "cmd /C start  chrome https://example.com/?a=1^&b=2", ok: true},
		{name: "unknown os", goos: "plan9", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := command(tt.goos, "https://example.com/?a=1&b=2", tt.app)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if !ok {
				return
			}
			if got := strings.Join(cmd.Args, " "); got != tt.want {
				t.Errorf("Expected '%s', got '%s'", tt.want, got)
			}
		})
	}
}
