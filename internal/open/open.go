// Package open hands links to the system's default handler.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Start opens input with the default handler, or with app when it is not
// empty, without waiting for it to exit.
func Start(input, app string) error {
	cmd, ok := command(runtime.GOOS, input, app)
	if !ok {
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
	return cmd.Start()
}

func command(goos, input, app string) (*exec.Cmd, bool) {
	if app != "" {
		switch goos {
		case "windows":
			// start treats & as a command separator
			escaped := strings.ReplaceAll(input, "&", "^&")
			return exec.Command("cmd", "/C", "start", "", app, escaped), true
		case "darwin":
			return exec.Command("open", "-a", app, input), true
		case "linux", "freebsd", "openbsd":
			return exec.Command(app, input), true
		}
		return nil, false
	}

	switch goos {
	case "windows":
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", input), true
	case "darwin":
		return exec.Command("open", input), true
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", input), true
	case "android":
		return exec.Command("termux-open", input), true
	}
	return nil, false
}
