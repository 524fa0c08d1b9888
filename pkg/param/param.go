// Package param resolves named configuration values from the process
// environment. Every value arrives as text; each Spec binds a parser for its
// declared type when the spec is defined. Resolution is total: a malformed
// or absent value yields the declared default, never an error. The only
// failure mode is a required parameter that is absent or blank.
package param

import (
	"fmt"
	"os"
	"strconv"
)

// EnvGetter abstracts environment lookups for testability.
type EnvGetter interface {
	LookupEnv(key string) (string, bool)
}

// RealEnvGetter reads the actual process environment.
type RealEnvGetter struct{}

func (r *RealEnvGetter) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Spec declares one configuration value: its name, whether it must be
// present, and the parser for its type. The parser is chosen by the
// constructor (String, Integer, Boolean), not by a type switch at
// resolution time.
type Spec struct {
	Name     string
	Required bool
	def      interface{}
	parse    func(raw string) interface{}
}

// Require marks the parameter as mandatory. A required parameter that is
// absent or blank fails resolution instead of falling back to its default.
func (s Spec) Require() Spec {
	s.Required = true
	return s
}

// String declares a string parameter with a default.
func String(name, def string) Spec {
	return Spec{
		Name: name,
		def:  def,
		parse: func(raw string) interface{} {
			return raw
		},
	}
}

// Integer declares an integer parameter with a default. A value that does
// not parse as an integer resolves to the default.
func Integer(name string, def int) Spec {
	return Spec{
		Name: name,
		def:  def,
		parse: func(raw string) interface{} {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return def
			}
			return n
		},
	}
}

// Boolean declares a boolean parameter with a default. Only the literal
// tokens "true", "1" and "yes" resolve to true, compared case-sensitively;
// every other non-blank value resolves to false. The host serializes
// booleans in exactly this form, so the grammar must not be widened.
func Boolean(name string, def bool) Spec {
	return Spec{
		Name: name,
		def:  def,
		parse: func(raw string) interface{} {
			return raw == "true" || raw == "1" || raw == "yes"
		},
	}
}

// MissingError reports a required parameter that was absent or blank.
type MissingError struct {
	Name string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("required parameter %s is not set", e.Name)
}

// Values holds resolved parameter values keyed by name.
type Values struct {
	m map[string]interface{}
}

// String returns the resolved string value for name, or "" if name was not
// declared as a string parameter.
func (v Values) String(name string) string {
	s, _ := v.m[name].(string)
	return s
}

// Int returns the resolved integer value for name, or 0 if name was not
// declared as an integer parameter.
func (v Values) Int(name string) int {
	n, _ := v.m[name].(int)
	return n
}

// Bool returns the resolved boolean value for name, or false if name was
// not declared as a boolean parameter.
func (v Values) Bool(name string) bool {
	b, _ := v.m[name].(bool)
	return b
}

// Resolver resolves a set of Specs against an environment.
type Resolver struct {
	Getter EnvGetter // injected for testing
}

// Resolve reads every spec from the environment. Absent or blank values
// resolve to the spec's declared default; the only error returned is a
// MissingError for a required parameter.
func (r *Resolver) Resolve(specs ...Spec) (Values, error) {
	getter := r.Getter
	if getter == nil {
		getter = &RealEnvGetter{}
	}

	vals := Values{m: make(map[string]interface{}, len(specs))}
	for _, spec := range specs {
		raw, ok := getter.LookupEnv(spec.Name)
		if !ok || raw == "" {
			if spec.Required {
				return Values{}, &MissingError{Name: spec.Name}
			}
			vals.m[spec.Name] = spec.def
			continue
		}
		vals.m[spec.Name] = spec.parse(raw)
	}
	return vals, nil
}
