// Package scaffold generates component skeletons from embedded templates.
// The generated script lands in the repository's category and OS layout,
// pre-wired to the monitor output contract where the category calls for it.
package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/mkarppi/rmmc/pkg/markers"
)

//go:embed templates
var templatesFS embed.FS

// Component categories accepted by Prepare.
const (
	CategoryApplications = "applications"
	CategoryScripts      = "scripts"
	CategoryMonitors     = "monitors"
)

// Target operating systems accepted by Prepare.
const (
	OSWindows = "windows"
	OSMacOS   = "macos"
	OSLinux   = "linux"
)

var categoryDirs = map[string]string{
	CategoryApplications: "Applications",
	CategoryScripts:      "Scripts",
	CategoryMonitors:     "Monitors",
}

var osDirs = map[string]string{
	OSWindows: "Windows",
	OSMacOS:   "macOS",
	OSLinux:   "Linux",
}

// Request describes one component skeleton to generate.
type Request struct {
	Name      string // display name; normalized to kebab-case for the filename
	Category  string
	OS        string
	OutputVar string // monitors only; defaults to Status
	Version   string
	Root      string // repository root holding the components tree
}

// Plan is a prepared scaffold: the rendered content and where it goes.
// Nothing touches the filesystem until Write is called, so callers can
// preview the plan for a dry run.
type Plan struct {
	Dest     string // destination path under the request root
	Template string // template name the content was rendered from
	Content  []byte
	mode     os.FileMode
}

var kebabRuns = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeKebab converts a display name to a kebab-case filename stem.
func NormalizeKebab(raw string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	value = kebabRuns.ReplaceAllString(value, "-")
	value = strings.Trim(value, "-")
	if value == "" {
		return "", fmt.Errorf("invalid name %q: nothing left after normalization", raw)
	}
	return value, nil
}

// Prepare validates the request and renders the component skeleton.
func Prepare(req Request) (*Plan, error) {
	catDir, ok := categoryDirs[req.Category]
	if !ok {
		return nil, fmt.Errorf("unknown category %q", req.Category)
	}
	osDir, ok := osDirs[req.OS]
	if !ok {
		return nil, fmt.Errorf("unknown os %q", req.OS)
	}

	filename, err := NormalizeKebab(req.Name)
	if err != nil {
		return nil, err
	}

	outputVar := req.OutputVar
	if req.Category == CategoryMonitors {
		if outputVar == "" {
			outputVar = "Status"
		}
		if !markers.ValidOutputVar(outputVar) {
			return nil, fmt.Errorf("invalid output variable %q: use only letters, digits, and underscore", outputVar)
		}
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = filename
	}

	tmplName := templateName(req.OS, req.Category)
	raw, err := templatesFS.ReadFile("templates/" + tmplName)
	if err != nil {
		return nil, fmt.Errorf("load template %s: %w", tmplName, err)
	}
	tmpl, err := template.New(tmplName).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", tmplName, err)
	}

	var buf bytes.Buffer
	data := struct {
		Name, Filename, Category, OS, OutputVar, Version string
	}{name, filename, catDir, osDir, outputVar, req.Version}
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render template %s: %w", tmplName, err)
	}

	return &Plan{
		Dest:     destPath(req.Root, req.OS, catDir, filename),
		Template: tmplName,
		Content:  buf.Bytes(),
		mode:     fileMode(req.OS),
	}, nil
}

func templateName(osName, category string) string {
	stem := strings.TrimSuffix(category, "s")
	if osName == OSWindows {
		return "powershell-" + stem + ".ps1.tmpl"
	}
	return "bash-" + stem + ".sh.tmpl"
}

// destPath lays components out as the component repository expects:
// Windows scripts at the category root, macOS and Linux under per-OS
// subdirectories.
func destPath(root, osName, catDir, filename string) string {
	switch osName {
	case OSWindows:
		return filepath.Join(root, "components", catDir, filename+".ps1")
	case OSMacOS:
		return filepath.Join(root, "components", catDir, "macOS", filename+".sh")
	default:
		return filepath.Join(root, "components", catDir, "Linux", filename+".sh")
	}
}

func fileMode(osName string) os.FileMode {
	if osName == OSWindows {
		return 0o644
	}
	return 0o755 // shell components ship executable
}

// Write creates the destination file, refusing to overwrite an existing
// component unless force is set.
func (p *Plan) Write(force bool) error {
	if !force {
		if _, err := os.Stat(p.Dest); err == nil {
			return fmt.Errorf("refusing to overwrite existing file %s (use force)", p.Dest)
		}
	}
	if err := os.MkdirAll(filepath.Dir(p.Dest), 0o755); err != nil {
		return fmt.Errorf("create component directory: %w", err)
	}
	if err := os.WriteFile(p.Dest, p.Content, p.mode); err != nil {
		return fmt.Errorf("write component: %w", err)
	}
	return nil
}
