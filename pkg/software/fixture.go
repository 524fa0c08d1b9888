package software

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// FixtureReader serves uninstall records from a JSON fixture file instead
// of the live registry, for developing and testing detection components on
// machines without a Windows registry.
//
// Fixture shape:
//
//	{
//	  "system": {
//	    "native":  [{"displayName": "...", "publisher": "...", "version": "..."}],
//	    "wow6432": [...]
//	  },
//	  "users": [
//	    {"sid": "S-1-5-21-...", "username": "CORP\\jdoe", "entries": [...]}
//	  ]
//	}
type FixtureReader struct {
	doc string
}

// LoadFixture reads and validates a fixture file.
func LoadFixture(path string) (*FixtureReader, error) {
	data, err := os.ReadFile(path) //nolint:gosec // intentional: reading user-supplied fixture
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture validates fixture JSON and returns a reader over it.
func ParseFixture(data []byte) (*FixtureReader, error) {
	doc := string(data)
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("fixture is not valid JSON")
	}
	return &FixtureReader{doc: doc}, nil
}

func (f *FixtureReader) SystemEntries(view View) ([]Entry, error) {
	node := gjson.Get(f.doc, "system."+string(view))
	if !node.Exists() {
		return nil, fmt.Errorf("fixture has no system.%s subtree", view)
	}
	return entriesOf(node), nil
}

func (f *FixtureReader) UserHives() ([]Hive, error) {
	var hives []Hive
	for _, u := range gjson.Get(f.doc, "users").Array() {
		hives = append(hives, Hive{
			SID:      u.Get("sid").String(),
			Username: u.Get("username").String(),
		})
	}
	return hives, nil
}

func (f *FixtureReader) UserEntries(h Hive) ([]Entry, error) {
	for _, u := range gjson.Get(f.doc, "users").Array() {
		if u.Get("sid").String() == h.SID {
			return entriesOf(u.Get("entries")), nil
		}
	}
	return nil, fmt.Errorf("fixture has no user hive %s", h.SID)
}

func entriesOf(node gjson.Result) []Entry {
	var entries []Entry
	for _, e := range node.Array() {
		entries = append(entries, Entry{
			DisplayName: e.Get("displayName").String(),
			Publisher:   e.Get("publisher").String(),
			Version:     e.Get("version").String(),
		})
	}
	return entries
}
