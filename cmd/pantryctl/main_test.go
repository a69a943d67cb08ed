package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSearchCommand(t *testing.T) {
	out, err := run(t, "search", "dairy")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "Dairy") {
		t.Errorf("output = %q", out)
	}

	out, err = run(t, "search", "zzzz")
	if err != nil || !strings.Contains(out, "No matches.") {
		t.Errorf("no match output = %q, %v", out, err)
	}
}

func TestVisibleCommand(t *testing.T) {
	catalog := writeFile(t, "catalog.json", `[
		{"id": "a", "name": "A", "pantryType": "fridge", "location": {"lat": 1, "lng": 1},
		 "inventory": {"categories": [{"name": "x", "quantity": 2}]}},
		{"id": "b", "name": "B", "pantryType": "shelf", "location": {"lat": 1.5, "lng": 1.5},
		 "inventory": {"categories": [{"name": "x", "quantity": 9}]}},
		{"id": "c", "name": "C", "pantryType": "shelf", "location": {"lat": 9, "lng": 9}}
	]`)

	out, err := run(t, "visible", "--json", "--catalog", catalog,
		"--north", "2", "--south", "0", "--east", "2", "--west", "0", "--stock", "high-low")
	if err != nil {
		t.Fatalf("visible: %v", err)
	}
	var view struct {
		Count int `json:"count"`
		Cards []struct {
			ID string `json:"id"`
		} `json:"cards"`
	}
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if view.Count != 2 || view.Cards[0].ID != "b" {
		t.Errorf("view = %+v", view)
	}

	if _, err := run(t, "visible", "--catalog", catalog, "--north", "0", "--south", "2", "--east", "2", "--west", "0"); err == nil {
		t.Error("expected error for inverted bounds")
	}
}

func TestHistoryCommand(t *testing.T) {
	file := writeFile(t, "history.json", `{"items": [
		{"ts": "2024-06-01T12:00:00Z", "metrics": {"weightKg": 14}, "flags": {"door": "closed"}},
		{"ts": "2024-06-01T10:00:00Z", "metrics": {"weightkg": 10}, "flags": {"door": "open"}},
		{"ts": "garbage", "metrics": {"weightKg": 99}}
	]}`)
	png := filepath.Join(t.TempDir(), "chart.png")

	out, err := run(t, "history", "--file", file, "--png", png, "--tz", "America/New_York")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "chart written to") {
		t.Errorf("output = %q", out)
	}
	info, err := os.Stat(png)
	if err != nil || info.Size() == 0 {
		t.Errorf("png not written: %v", err)
	}

	if _, err := run(t, "history", "--file", file, "--tz", "Mars/Olympus"); err == nil {
		t.Error("expected error for unknown zone")
	}
}
