package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const eventsJSON = `[
  {"type":"sale","price":"2.5","from":"0x1234567890abcdef1234","to":"0xabcdef1234567890abcd","timestamp":"2020-01-01T00:00:00Z"},
  {"type":"mint","from":"0x0000000000000000000000000000000000000000","to":"0xabcdef1234567890abcd","timestamp":"2020-01-01T00:00:00Z"}
]`

func TestPrintFeedFromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(file, []byte(eventsJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	app.Writer = &out
	if err := app.Run([]string{"nftdash", "event", "feed", "--file", file, "--type", "sale", "--filters"}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("unexpected output %q", out.String())
	}
	if lines[0] != "Filters: All [Sale] Transfer Mint List" {
		t.Fatalf("unexpected filter line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "↗ Sale 2.5 ETH  From 0x1234...1234 to 0xabcd...abcd") {
		t.Fatalf("unexpected row %q", lines[1])
	}
}

func TestPrintFeedRejectsUnknownType(t *testing.T) {
	app.Writer = &bytes.Buffer{}
	if err := app.Run([]string{"nftdash", "event", "feed", "--file", "x.json", "--type", "burn"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestReadEventsBadJSON(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(file, []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := readEvents(file); err == nil {
		t.Fatal("expected parse error")
	}
}
