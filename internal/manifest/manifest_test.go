package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidate_RejectsDuplicateNames(t *testing.T) {
	t.Parallel()

	m := Manifest{Entries: []Entry{
		{Name: "google-adk", Version: "1.0.0"},
		{Name: "Google_ADK", Version: "1.0.1"},
	}}
	err := m.Validate("")
	if err == nil {
		t.Fatal("Validate accepted duplicate package names")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("error = %q, want duplicate package error", err)
	}
}

func TestValidate_RejectsSelfReference(t *testing.T) {
	t.Parallel()

	m := Manifest{Entries: []Entry{
		{Name: "my_agent", Version: "0.1.0"},
		{Name: "requests", Version: "2.32.0"},
	}}
	if err := m.Validate("my-agent"); err == nil {
		t.Fatal("Validate accepted a self-referencing manifest")
	}
}

func TestValidate_RejectsEmptyManifest(t *testing.T) {
	t.Parallel()

	if err := (Manifest{}).Validate(""); err == nil {
		t.Fatal("Validate accepted an empty manifest")
	}
}

func TestEncode_PlainPinLines(t *testing.T) {
	t.Parallel()

	m := Manifest{Entries: []Entry{
		{Name: "google-adk", Version: "1.0.0"},
		{Name: "requests", Version: "2.32.0"},
	}}
	got := string(m.Encode())
	want := "google-adk==1.0.0\nrequests==2.32.0\n"
	if got != want {
		t.Fatalf("Encode() = %q, want %q", got, want)
	}
}

func TestLoad_RejectsAnnotatedLines(t *testing.T) {
	t.Parallel()

	for _, line := range []string{
		"# comment",
		"requests==2.32.0 ; python_version >= \"3.9\"",
		"--no-binary :all:",
		"requests",
	} {
		path := filepath.Join(t.TempDir(), "requirements.txt")
		m := Manifest{Entries: []Entry{{Name: "requests", Version: "2.32.0"}}}
		data := string(m.Encode()) + line + "\n"
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		if _, err := Load(path, ""); err == nil {
			t.Fatalf("Load accepted manifest containing %q", line)
		}
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "requirements.txt")
	m := Manifest{Entries: []Entry{
		{Name: "google-adk", Version: "1.0.0"},
		{Name: "langchain", Version: "0.3.14"},
		{Name: "python-dotenv", Version: "1.0.1"},
	}}
	if err := m.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := Load(path, "app")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Entries) != 3 {
		t.Fatalf("loaded %d entries, want 3", len(got.Entries))
	}
	if got.Entries[1].Name != "langchain" || got.Entries[1].Version != "0.3.14" {
		t.Fatalf("entry 1 = %+v, want langchain==0.3.14", got.Entries[1])
	}
}
