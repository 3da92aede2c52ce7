package archive_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/ff7tools/terraform/archive"
)

func TestPackLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	entries := []archive.Entry{
		{Name: "wm0.ev", Data: []byte{0x01, 0x02, 0x03}},
		{Name: "mes", Data: []byte("message data")},
	}
	if err := archive.Pack(dir, entries); err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	got, err := archive.Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("expected %d entries, got %d", len(entries), len(got))
	}

	found, err := archive.Find(got, "mes")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if !bytes.Equal(found.Data, []byte("message data")) {
		t.Errorf("unexpected data for mes: %q", found.Data)
	}
}

func TestFindMissingEntry(t *testing.T) {
	_, err := archive.Find(nil, "wm3.ev")
	if err == nil {
		t.Fatal("expected an error for a missing entry")
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	_, err := archive.Load(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("expected an error loading a nonexistent directory")
	}
}
