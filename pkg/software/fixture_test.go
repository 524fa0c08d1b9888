package software

import (
	"os"
	"path/filepath"
	"testing"
)

const fixtureJSON = `{
  "system": {
    "native": [
      {"displayName": "Adobe Acrobat Reader DC", "publisher": "Adobe", "version": "23.8"}
    ],
    "wow6432": []
  },
  "users": [
    {
      "sid": "S-1-5-21-1111",
      "username": "CORP\\jdoe",
      "entries": [{"displayName": "Slack", "publisher": "Slack Technologies", "version": "4.39"}]
    }
  ]
}`

func TestParseFixture(t *testing.T) {
	f, err := ParseFixture([]byte(fixtureJSON))
	if err != nil {
		t.Fatalf("ParseFixture() error = %v", err)
	}

	entries, err := f.SystemEntries(ViewNative)
	if err != nil {
		t.Fatalf("SystemEntries(native) error = %v", err)
	}
	if len(entries) != 1 || entries[0].DisplayName != "Adobe Acrobat Reader DC" {
		t.Errorf("SystemEntries(native) = %+v", entries)
	}

	entries, err = f.SystemEntries(ViewWow6432)
	if err != nil {
		t.Fatalf("SystemEntries(wow6432) error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("SystemEntries(wow6432) = %+v, want empty", entries)
	}

	hives, err := f.UserHives()
	if err != nil {
		t.Fatalf("UserHives() error = %v", err)
	}
	if len(hives) != 1 || hives[0].Username != `CORP\jdoe` {
		t.Fatalf("UserHives() = %+v", hives)
	}

	entries, err = f.UserEntries(hives[0])
	if err != nil {
		t.Fatalf("UserEntries() error = %v", err)
	}
	if len(entries) != 1 || entries[0].DisplayName != "Slack" {
		t.Errorf("UserEntries() = %+v", entries)
	}
}

func TestParseFixture_InvalidJSON(t *testing.T) {
	if _, err := ParseFixture([]byte("{not json")); err == nil {
		t.Error("ParseFixture() error = nil, want error for invalid JSON")
	}
}

func TestFixtureReader_MissingPaths(t *testing.T) {
	f, err := ParseFixture([]byte(`{}`))
	if err != nil {
		t.Fatalf("ParseFixture() error = %v", err)
	}

	if _, err := f.SystemEntries(ViewNative); err == nil {
		t.Error("SystemEntries() error = nil, want error for missing subtree")
	}
	if _, err := f.UserEntries(Hive{SID: "S-1-5-21-9"}); err == nil {
		t.Error("UserEntries() error = nil, want error for unknown hive")
	}
}

func TestLoadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	if err := os.WriteFile(path, []byte(fixtureJSON), 0o600); err != nil {
		t.Fatal(err)
	}

	f, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("LoadFixture() error = %v", err)
	}

	d := &Detector{Reader: f}
	if det := d.Detect("Acrobat", false); !det.Found {
		t.Error("Detect(Acrobat) over fixture: Found = false, want true")
	}
	if det := d.Detect("Nonexistent", false); det.Found {
		t.Error("Detect(Nonexistent) over fixture: Found = true, want false")
	}
}

func TestLoadFixture_MissingFile(t *testing.T) {
	if _, err := LoadFixture(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("LoadFixture() error = nil, want error for missing file")
	}
}
