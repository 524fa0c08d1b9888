// Package software detects installed software by scanning uninstall
// registry records. It is an example check executor for the monitor runner:
// the scan is rebuilt on every invocation and nothing is cached.
package software

import "strings"

// Scope identifies where a record was found.
type Scope string

const (
	ScopeSystem Scope = "System"
	ScopeUser   Scope = "User"
)

// UnknownUser attributes a user-scope record whose hive owner could not be
// resolved to an account name.
const UnknownUser = "Unknown User"

// Record is one installed-software entry.
type Record struct {
	DisplayName string
	Publisher   string
	Version     string
	Scope       Scope
	User        string // DOMAIN\username for user scope, empty for system
}

// Entry is a raw uninstall registry record before attribution.
type Entry struct {
	DisplayName string
	Publisher   string
	Version     string
}

// Hive identifies one loaded per-user registry hive.
type Hive struct {
	SID      string
	Username string // DOMAIN\username if resolvable, else empty
}

// View selects one of the two fixed system-wide uninstall subtrees.
type View string

const (
	ViewNative  View = "native"  // 64-bit view
	ViewWow6432 View = "wow6432" // 32-bit-on-64-bit view
)

// Views lists the system views in scan order.
var Views = []View{ViewNative, ViewWow6432}

// Reader abstracts uninstall registry access. The real implementation is
// Windows-only; a fixture-backed implementation serves tests and
// off-Windows development.
type Reader interface {
	// SystemEntries enumerates the system-wide uninstall subtree for one view.
	SystemEntries(view View) ([]Entry, error)
	// UserHives enumerates currently loaded per-user hives.
	UserHives() ([]Hive, error)
	// UserEntries enumerates a user hive's uninstall subtree.
	UserEntries(h Hive) ([]Entry, error)
}

// Detection is the outcome of one scan.
type Detection struct {
	Found   bool
	Records []Record
}

// Detector scans for software whose DisplayName contains a pattern.
type Detector struct {
	Reader Reader
}

// Detect matches namePattern as a case-insensitive substring against
// DisplayName. System scope is always scanned first; user hives are visited
// only when includeUserScope is set and the system scan found nothing —
// user-hive enumeration is the slow path. A registry error on any
// individual path counts as no match on that path and never aborts the
// scan.
func (d *Detector) Detect(namePattern string, includeUserScope bool) Detection {
	pattern := strings.ToLower(namePattern)
	det := Detection{Records: []Record{}}

	for _, view := range Views {
		entries, err := d.Reader.SystemEntries(view)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if matches(e, pattern) {
				det.Records = append(det.Records, Record{
					DisplayName: e.DisplayName,
					Publisher:   e.Publisher,
					Version:     e.Version,
					Scope:       ScopeSystem,
				})
			}
		}
	}
	if len(det.Records) > 0 {
		det.Found = true
		return det
	}

	if !includeUserScope {
		return det
	}

	hives, err := d.Reader.UserHives()
	if err != nil {
		return det
	}
	for _, hive := range hives {
		entries, err := d.Reader.UserEntries(hive)
		if err != nil {
			continue
		}
		user := hive.Username
		if user == "" {
			user = UnknownUser
		}
		for _, e := range entries {
			if matches(e, pattern) {
				det.Records = append(det.Records, Record{
					DisplayName: e.DisplayName,
					Publisher:   e.Publisher,
					Version:     e.Version,
					Scope:       ScopeUser,
					User:        user,
				})
			}
		}
	}
	det.Found = len(det.Records) > 0
	return det
}

// matches is a deliberate substring match, not anchored and not a regex:
// recall over precision, so "Acrobat" finds "Adobe Acrobat Reader DC".
func matches(e Entry, lowerPattern string) bool {
	if e.DisplayName == "" {
		return false
	}
	return strings.Contains(strings.ToLower(e.DisplayName), lowerPattern)
}
