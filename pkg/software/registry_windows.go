//go:build windows

package software

import (
	"fmt"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const uninstallPath = `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`

// RegistryReader reads uninstall records from the live Windows registry.
// It deliberately avoids the Win32_Product WMI class, which triggers an
// installer consistency check on every query; direct registry reads keep a
// scan inside a monitor's latency budget.
type RegistryReader struct{}

func (r *RegistryReader) SystemEntries(view View) ([]Entry, error) {
	access := uint32(registry.READ)
	switch view {
	case ViewNative:
		access |= registry.WOW64_64KEY
	case ViewWow6432:
		access |= registry.WOW64_32KEY
	default:
		return nil, fmt.Errorf("unknown registry view %q", view)
	}

	key, err := registry.OpenKey(registry.LOCAL_MACHINE, uninstallPath, access)
	if err != nil {
		return nil, fmt.Errorf("open HKLM\\%s: %w", uninstallPath, err)
	}
	defer key.Close()

	return readEntries(key)
}

func (r *RegistryReader) UserHives() ([]Hive, error) {
	root, err := registry.OpenKey(registry.USERS, "", registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return nil, fmt.Errorf("open HKEY_USERS: %w", err)
	}
	defer root.Close()

	names, err := root.ReadSubKeyNames(-1)
	if err != nil {
		return nil, fmt.Errorf("enumerate HKEY_USERS: %w", err)
	}

	var hives []Hive
	for _, name := range names {
		// Only real account hives carry uninstall data.
		if !strings.HasPrefix(name, "S-1-5-21-") || strings.HasSuffix(name, "_Classes") {
			continue
		}
		hives = append(hives, Hive{SID: name, Username: lookupUsername(name)})
	}
	return hives, nil
}

func (r *RegistryReader) UserEntries(h Hive) ([]Entry, error) {
	key, err := registry.OpenKey(registry.USERS, h.SID+`\`+uninstallPath, registry.READ)
	if err != nil {
		return nil, fmt.Errorf("open HKU\\%s uninstall subtree: %w", h.SID, err)
	}
	defer key.Close()

	return readEntries(key)
}

func readEntries(key registry.Key) ([]Entry, error) {
	names, err := key.ReadSubKeyNames(-1)
	if err != nil {
		return nil, fmt.Errorf("enumerate uninstall subkeys: %w", err)
	}

	var entries []Entry
	for _, name := range names {
		sub, err := registry.OpenKey(key, name, registry.QUERY_VALUE)
		if err != nil {
			continue
		}
		display, _, _ := sub.GetStringValue("DisplayName")
		publisher, _, _ := sub.GetStringValue("Publisher")
		version, _, _ := sub.GetStringValue("DisplayVersion")
		sub.Close()

		if display == "" {
			continue
		}
		entries = append(entries, Entry{
			DisplayName: display,
			Publisher:   publisher,
			Version:     version,
		})
	}
	return entries, nil
}

// lookupUsername resolves a SID string to DOMAIN\username, or "" when the
// account is unknown to the local machine.
func lookupUsername(sidStr string) string {
	sid, err := windows.StringToSid(sidStr)
	if err != nil {
		return ""
	}
	account, domain, _, err := sid.LookupAccount("")
	if err != nil || account == "" {
		return ""
	}
	if domain != "" {
		return domain + `\` + account
	}
	return account
}
