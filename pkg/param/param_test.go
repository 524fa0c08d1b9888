package param

import (
	"errors"
	"testing"
)

type mockEnvGetter struct {
	Vars map[string]string
}

func (m *mockEnvGetter) LookupEnv(key string) (string, bool) {
	val, ok := m.Vars[key]
	return val, ok
}

func resolve(t *testing.T, vars map[string]string, specs ...Spec) Values {
	t.Helper()
	r := &Resolver{Getter: &mockEnvGetter{Vars: vars}}
	vals, err := r.Resolve(specs...)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return vals
}

func TestResolve_String(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want string
	}{
		{"present value", map[string]string{"ServiceName": "spooler"}, "spooler"},
		{"absent resolves to default", map[string]string{}, "w32time"},
		{"blank resolves to default", map[string]string{"ServiceName": ""}, "w32time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vals := resolve(t, tt.vars, String("ServiceName", "w32time"))
			if got := vals.String("ServiceName"); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolve_Integer(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want int
	}{
		{"valid integer", map[string]string{"Threshold": "85"}, 85},
		{"negative integer", map[string]string{"Threshold": "-3"}, -3},
		{"malformed resolves to default", map[string]string{"Threshold": "lots"}, 90},
		{"float resolves to default", map[string]string{"Threshold": "85.5"}, 90},
		{"absent resolves to default", map[string]string{}, 90},
		{"blank resolves to default", map[string]string{"Threshold": ""}, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vals := resolve(t, tt.vars, Integer("Threshold", 90))
			if got := vals.Int("Threshold"); got != tt.want {
				t.Errorf("Int() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolve_Boolean(t *testing.T) {
	// Only the exact tokens "true", "1", "yes" are truthy. The host
	// serializes booleans in this form; the grammar is case-sensitive.
	tests := []struct {
		raw  string
		want bool
	}{
		{"true", true},
		{"1", true},
		{"yes", true},
		{"True", false},
		{"TRUE", false},
		{"YES", false},
		{"Yes", false},
		{"no", false},
		{"false", false},
		{"0", false},
		{"y", false},
		{"anything", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			vals := resolve(t, map[string]string{"UserScope": tt.raw}, Boolean("UserScope", true))
			if got := vals.Bool("UserScope"); got != tt.want {
				t.Errorf("Bool(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestResolve_BooleanDefault(t *testing.T) {
	vals := resolve(t, map[string]string{}, Boolean("UserScope", true))
	if !vals.Bool("UserScope") {
		t.Error("Bool() = false, want default true for absent value")
	}

	vals = resolve(t, map[string]string{"UserScope": ""}, Boolean("UserScope", true))
	if !vals.Bool("UserScope") {
		t.Error("Bool() = false, want default true for blank value")
	}
}

func TestResolve_Required(t *testing.T) {
	r := &Resolver{Getter: &mockEnvGetter{Vars: map[string]string{"Blank": ""}}}

	for _, name := range []string{"Absent", "Blank"} {
		_, err := r.Resolve(String(name, "").Require())
		var missing *MissingError
		if !errors.As(err, &missing) {
			t.Fatalf("Resolve(%s) error = %v, want MissingError", name, err)
		}
		if missing.Name != name {
			t.Errorf("MissingError.Name = %q, want %q", missing.Name, name)
		}
	}
}

func TestResolve_RequiredPresent(t *testing.T) {
	vals := resolve(t, map[string]string{"Pattern": "Acrobat"}, String("Pattern", "").Require())
	if got := vals.String("Pattern"); got != "Acrobat" {
		t.Errorf("String() = %q, want %q", got, "Acrobat")
	}
}

func TestResolve_MultipleSpecs(t *testing.T) {
	vals := resolve(t,
		map[string]string{"Pattern": "Chrome", "Threshold": "5", "UserScope": "yes"},
		String("Pattern", ""),
		Integer("Threshold", 10),
		Boolean("UserScope", false),
	)

	if vals.String("Pattern") != "Chrome" {
		t.Errorf("Pattern = %q, want Chrome", vals.String("Pattern"))
	}
	if vals.Int("Threshold") != 5 {
		t.Errorf("Threshold = %d, want 5", vals.Int("Threshold"))
	}
	if !vals.Bool("UserScope") {
		t.Error("UserScope = false, want true")
	}
}

func TestValues_UndeclaredName(t *testing.T) {
	vals := resolve(t, map[string]string{}, String("Known", "x"))

	if vals.String("Unknown") != "" {
		t.Error("String(unknown) != \"\"")
	}
	if vals.Int("Unknown") != 0 {
		t.Error("Int(unknown) != 0")
	}
	if vals.Bool("Unknown") {
		t.Error("Bool(unknown) != false")
	}
}

func TestResolver_DefaultsToRealEnv(t *testing.T) {
	t.Setenv("RMMC_PARAM_TEST", "from-env")

	r := &Resolver{}
	vals, err := r.Resolve(String("RMMC_PARAM_TEST", "fallback"))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := vals.String("RMMC_PARAM_TEST"); got != "from-env" {
		t.Errorf("String() = %q, want from-env", got)
	}
}
