// Package manifest loads a component manifest: the declarative description
// of a component (name, category, output variable) and its parameter schema.
// The manifest is development-side metadata; the host itself only ever sees
// the rendered environment variables and the output stream.
package manifest

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/mkarppi/rmmc/pkg/markers"
	"github.com/mkarppi/rmmc/pkg/param"
)

// Component categories.
const (
	CategoryApplication = "application"
	CategoryScript      = "script"
	CategoryMonitor     = "monitor"
)

// Parameter declares one configuration value of a component.
type Parameter struct {
	Name     string `yaml:"name" validate:"required,output_var"`
	Type     string `yaml:"type" validate:"required,oneof=string integer boolean"`
	Default  string `yaml:"default"`
	Required bool   `yaml:"required"`
}

// Manifest describes one component.
type Manifest struct {
	Name       string      `yaml:"name" validate:"required"`
	Category   string      `yaml:"category" validate:"required,oneof=application script monitor"`
	OutputVar  string      `yaml:"outputVar" validate:"omitempty,output_var"`
	Timeout    string      `yaml:"timeout" validate:"omitempty"`
	Parameters []Parameter `yaml:"parameters" validate:"dive"`
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("output_var", func(fl validator.FieldLevel) bool {
			return markers.ValidOutputVar(fl.Field().String())
		})
		validateInst = v
	})
	return validateInst
}

// Parse unmarshals and validates manifest YAML.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := validatorInstance().Struct(&m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	seen := make(map[string]struct{}, len(m.Parameters))
	for _, p := range m.Parameters {
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("invalid manifest: duplicate parameter %q", p.Name)
		}
		seen[p.Name] = struct{}{}
		if err := checkDefault(p); err != nil {
			return nil, fmt.Errorf("invalid manifest: %w", err)
		}
	}
	return &m, nil
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // intentional: reading user-supplied manifest
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data)
}

// checkDefault rejects defaults that the declared type would silently
// discard at resolution time.
func checkDefault(p Parameter) error {
	switch p.Type {
	case "integer":
		if p.Default == "" {
			return nil
		}
		if _, err := strconv.Atoi(p.Default); err != nil {
			return fmt.Errorf("parameter %q: default %q is not an integer", p.Name, p.Default)
		}
	case "boolean":
		switch p.Default {
		case "", "true", "1", "yes", "false", "0", "no":
		default:
			return fmt.Errorf("parameter %q: default %q is not a boolean token", p.Name, p.Default)
		}
	}
	return nil
}

// ResolvedOutputVar returns the manifest's output variable, falling back to
// the conventional default.
func (m *Manifest) ResolvedOutputVar() string {
	if m.OutputVar != "" {
		return m.OutputVar
	}
	return "Status"
}

// Specs converts the parameter schema into resolver specs, binding each
// declared type to its parser here, at schema definition time.
func (m *Manifest) Specs() []param.Spec {
	specs := make([]param.Spec, 0, len(m.Parameters))
	for _, p := range m.Parameters {
		var spec param.Spec
		switch p.Type {
		case "integer":
			// Parse has already rejected non-integer defaults; a failed
			// conversion here means an empty default, which stays zero.
			def, err := strconv.Atoi(p.Default)
			if err != nil {
				def = 0
			}
			spec = param.Integer(p.Name, def)
		case "boolean":
			def := p.Default == "true" || p.Default == "1" || p.Default == "yes"
			spec = param.Boolean(p.Name, def)
		default:
			spec = param.String(p.Name, p.Default)
		}
		if p.Required {
			spec = spec.Require()
		}
		specs = append(specs, spec)
	}
	return specs
}

// Env renders parameter defaults as KEY=VALUE pairs for seeding a local
// run, skipping parameters without defaults.
func (m *Manifest) Env() []string {
	var env []string
	for _, p := range m.Parameters {
		if p.Default == "" {
			continue
		}
		env = append(env, p.Name+"="+p.Default)
	}
	return env
}

// String summarizes the manifest for log output.
func (m *Manifest) String() string {
	names := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		names[i] = p.Name
	}
	return fmt.Sprintf("%s (%s, params: %s)", m.Name, m.Category, strings.Join(names, ", "))
}
