package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mkarppi/rmmc/pkg/param"
)

const validManifest = `
name: acrobat-installed
category: monitor
outputVar: Status
parameters:
  - name: Pattern
    type: string
    required: true
  - name: Threshold
    type: integer
    default: "90"
  - name: UserScope
    type: boolean
    default: "yes"
`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(validManifest))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if m.Name != "acrobat-installed" {
		t.Errorf("Name = %q", m.Name)
	}
	if m.Category != CategoryMonitor {
		t.Errorf("Category = %q", m.Category)
	}
	if len(m.Parameters) != 3 {
		t.Fatalf("len(Parameters) = %d, want 3", len(m.Parameters))
	}
	if !m.Parameters[0].Required {
		t.Error("Pattern should be required")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "not yaml",
			yaml:    "{{{",
			wantErr: "parse manifest",
		},
		{
			name:    "missing name",
			yaml:    "category: monitor\n",
			wantErr: "invalid manifest",
		},
		{
			name:    "bad category",
			yaml:    "name: x\ncategory: widget\n",
			wantErr: "invalid manifest",
		},
		{
			name:    "bad output var",
			yaml:    "name: x\ncategory: monitor\noutputVar: \"has space\"\n",
			wantErr: "invalid manifest",
		},
		{
			name: "bad parameter type",
			yaml: `
name: x
category: monitor
parameters:
  - name: P
    type: float
`,
			wantErr: "invalid manifest",
		},
		{
			name: "duplicate parameter",
			yaml: `
name: x
category: monitor
parameters:
  - name: P
    type: string
  - name: P
    type: integer
`,
			wantErr: "duplicate parameter",
		},
		{
			name: "non-integer default",
			yaml: `
name: x
category: monitor
parameters:
  - name: Threshold
    type: integer
    default: lots
`,
			wantErr: "not an integer",
		},
		{
			name: "bare sign integer default",
			yaml: `
name: x
category: monitor
parameters:
  - name: Threshold
    type: integer
    default: "-"
`,
			wantErr: "not an integer",
		},
		{
			name: "non-boolean default",
			yaml: `
name: x
category: monitor
parameters:
  - name: Flag
    type: boolean
    default: maybe
`,
			wantErr: "not a boolean token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestManifest_Specs(t *testing.T) {
	m, err := Parse([]byte(validManifest))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	specs := m.Specs()
	if len(specs) != 3 {
		t.Fatalf("len(Specs()) = %d, want 3", len(specs))
	}
	if specs[0].Name != "Pattern" || !specs[0].Required {
		t.Errorf("specs[0] = %+v, want required Pattern", specs[0])
	}
	if specs[1].Name != "Threshold" || specs[1].Required {
		t.Errorf("specs[1] = %+v, want optional Threshold", specs[1])
	}
}

type emptyEnv struct{}

func (emptyEnv) LookupEnv(string) (string, bool) { return "", false }

func TestManifest_Specs_SignedIntegerDefault(t *testing.T) {
	m, err := Parse([]byte(`
name: x
category: monitor
parameters:
  - name: Offset
    type: integer
    default: "-5"
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	vals, err := (&param.Resolver{Getter: emptyEnv{}}).Resolve(m.Specs()...)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := vals.Int("Offset"); got != -5 {
		t.Errorf("Int(Offset) = %d, want -5", got)
	}
}

func TestManifest_ResolvedOutputVar(t *testing.T) {
	m := &Manifest{OutputVar: "DiskState"}
	if got := m.ResolvedOutputVar(); got != "DiskState" {
		t.Errorf("ResolvedOutputVar() = %q", got)
	}

	m = &Manifest{}
	if got := m.ResolvedOutputVar(); got != "Status" {
		t.Errorf("ResolvedOutputVar() = %q, want Status", got)
	}
}

func TestManifest_Env(t *testing.T) {
	m, err := Parse([]byte(validManifest))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	env := m.Env()
	want := []string{"Threshold=90", "UserScope=yes"}
	if len(env) != len(want) {
		t.Fatalf("Env() = %v, want %v", env, want)
	}
	for i := range want {
		if env[i] != want[i] {
			t.Errorf("Env()[%d] = %q, want %q", i, env[i], want[i])
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "component.yaml")
	if err := os.WriteFile(path, []byte(validManifest), 0o600); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Name != "acrobat-installed" {
		t.Errorf("Name = %q", m.Name)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() error = nil, want error")
	}
}
