package cmd

import (
	"strings"
	"testing"

	"github.com/csams/nutshell/internal/listing"
)

func TestRenderRows(t *testing.T) {
	rows := []listing.Row{
		{GUID: "2", Title: "Second Story", Date: "June 9, 2025", Duration: "12:03", HasAudio: true},
		{GUID: "1", Title: "First Story", Date: "June 8, 2025"},
	}

	out := renderRows(rows)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected two rows and a count, got %d lines:\n%s", len(lines), out)
	}

	if !strings.Contains(lines[0], "Second Story") || !strings.Contains(lines[0], "12:03") {
		t.Errorf("Unexpected first row %q", lines[0])
	}
	if strings.Contains(lines[0], " - ") {
		t.Errorf("Expected no missing-audio marker on %q", lines[0])
	}
	if !strings.Contains(lines[1], " - ") {
		t.Errorf("Expected a missing-audio marker on %q", lines[1])
	}
	if !strings.Contains(lines[2], "2 episodes") {
		t.Errorf("Expected the episode count, got %q", lines[2])
	}
}
