package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// resetFlags resets all package-level flag variables to their zero values.
func resetFlags() {
	flagVars = ""
	flagIn = ""
	flagOut = ""
	flagLegendMarker = ""
	flagSkip = ""
	flagFormat = ""
	flagReport = ""
	flagRedactSecrets = false
	flagVerbose = false
	flagMappingOut = ""
	hookVars = ""
	hookIn = ""
	hookOut = ""
}

// runCLI executes the command tree with an isolated config directory.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	resetFlags()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{"VARSCRUB_VARS", "VARSCRUB_INPUT", "VARSCRUB_OUTPUT", "VARSCRUB_LEGEND_MARKER", "VARSCRUB_FORMAT", "VARSCRUB_REDACT_SECRETS"} {
		t.Setenv(k, "")
	}

	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

const testVars = `# ==== PLACEHOLDER MAPPING LEGEND ====
# <DB_HOST> = "db.internal.example"
# ====================================
database_host  = "db.internal.example"
vnet_cidr      = "10.0.0.0/24"
allowed_ips    = ["1.2.3.4", "5.6.7.8"]
admin_password = "<REDACTED>"
status         = "ok"
`

const testDoc = `<mxCell value="db.internal.example (10.0.0.0/24)" /> allow 1.2.3.4,5.6.7.8 ok <REDACTED>`

func writeInputs(t *testing.T) (dir, vars, doc string) {
	t.Helper()
	dir = t.TempDir()
	vars = filepath.Join(dir, "terraform.tfvars")
	doc = filepath.Join(dir, "diagram.drawio")
	if err := os.WriteFile(vars, []byte(testVars), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(doc, []byte(testDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, vars, doc
}

// --- buildOverrides tests ---

func TestBuildOverrides_NoFlags(t *testing.T) {
	resetFlags()
	if m := buildOverrides(); len(m) != 0 {
		t.Errorf("buildOverrides() with no flags = %v, want empty map", m)
	}
}

func TestBuildOverrides_AllFlags(t *testing.T) {
	resetFlags()
	flagVars = "a.tfvars"
	flagIn = "b.drawio"
	flagOut = "c.drawio"
	flagLegendMarker = "MAP"
	flagSkip = "true,false"
	flagFormat = "yaml"
	flagRedactSecrets = true

	m := buildOverrides()

	expected := map[string]string{
		"varsFile":      "a.tfvars",
		"inputFile":     "b.drawio",
		"outputFile":    "c.drawio",
		"legendMarker":  "MAP",
		"skipValues":    "true,false",
		"format":        "yaml",
		"redactSecrets": "true",
	}
	if len(m) != len(expected) {
		t.Fatalf("buildOverrides() returned %d entries, want %d", len(m), len(expected))
	}
	for k, v := range expected {
		if m[k] != v {
			t.Errorf("buildOverrides()[%q] = %q, want %q", k, m[k], v)
		}
	}
}

// --- sanitize tests ---

func TestSanitize(t *testing.T) {
	dir, vars, doc := writeInputs(t)
	out := filepath.Join(dir, "out.drawio")

	code, stdout, stderr := runCLI(t, "sanitize", "--vars", vars, "--in", doc, "--out", out)

	if code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d (stderr: %s)", code, ExitSuccess, stderr)
	}
	if !strings.Contains(stdout, "Sanitized document written to "+out) {
		t.Errorf("stdout = %q, want success message naming %s", stdout, out)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	want := `<mxCell value="<DB_HOST> (vnet_cidr)" /> allow allowed_ips,allowed_ips ok <REDACTED>`
	if string(got) != want {
		t.Errorf("output =\n  %s\nwant\n  %s", got, want)
	}

	original, _ := os.ReadFile(doc)
	if string(original) != testDoc {
		t.Error("input document was modified")
	}
}

func TestSanitize_DefaultOutputPath(t *testing.T) {
	dir, vars, doc := writeInputs(t)

	code, _, stderr := runCLI(t, "sanitize", "--vars", vars, "--in", doc)

	if code != ExitSuccess {
		t.Fatalf("exit code = %d (stderr: %s)", code, stderr)
	}
	if _, err := os.Stat(filepath.Join(dir, "diagram_sanitized.drawio")); err != nil {
		t.Errorf("derived output not written: %v", err)
	}
}

func TestSanitize_MissingDocument(t *testing.T) {
	dir, vars, _ := writeInputs(t)
	missing := filepath.Join(dir, "nope.drawio")
	out := filepath.Join(dir, "out.drawio")

	code, stdout, stderr := runCLI(t, "sanitize", "--vars", vars, "--in", missing, "--out", out)

	if code != ExitMissingInput {
		t.Errorf("exit code = %d, want %d", code, ExitMissingInput)
	}
	if !strings.Contains(stderr, "Input files not found.") || !strings.Contains(stderr, missing) {
		t.Errorf("stderr = %q, want missing-file report", stderr)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty", stdout)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("output file should not be created when input is missing")
	}
}

func TestSanitize_MissingVarsKeepsExistingOutput(t *testing.T) {
	dir, _, doc := writeInputs(t)
	out := filepath.Join(dir, "out.drawio")
	if err := os.WriteFile(out, []byte("previous run"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, _, _ := runCLI(t, "sanitize", "--vars", filepath.Join(dir, "missing.tfvars"), "--in", doc, "--out", out)

	if code != ExitMissingInput {
		t.Errorf("exit code = %d, want %d", code, ExitMissingInput)
	}
	got, _ := os.ReadFile(out)
	if string(got) != "previous run" {
		t.Errorf("existing output modified: %q", got)
	}
}

func TestSanitize_OutputOverwritesInput(t *testing.T) {
	_, vars, doc := writeInputs(t)

	code, _, stderr := runCLI(t, "sanitize", "--vars", vars, "--in", doc, "--out", doc)

	if code != ExitUsageError {
		t.Errorf("exit code = %d, want %d", code, ExitUsageError)
	}
	if !strings.Contains(stderr, "would overwrite the input") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestSanitize_ReportAndVerbose(t *testing.T) {
	dir, vars, doc := writeInputs(t)
	report := filepath.Join(dir, "report.json")

	code, _, stderr := runCLI(t, "sanitize", "--vars", vars, "--in", doc,
		"--report", report, "--format", "json", "--verbose")

	if code != ExitSuccess {
		t.Fatalf("exit code = %d (stderr: %s)", code, stderr)
	}
	if !strings.Contains(stderr, "Mapping: 4 values (1 legend, 3 network, 0 assignment)") {
		t.Errorf("stderr = %q, want mapping counts", stderr)
	}
	if !strings.Contains(stderr, "Replacements: 4") {
		t.Errorf("stderr = %q, want replacement count", stderr)
	}

	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	var decoded struct {
		OutputFile string `json:"outputFile"`
		Counts     struct {
			Replacements int `json:"replacements"`
		} `json:"counts"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not JSON: %v", err)
	}
	if decoded.Counts.Replacements != 4 {
		t.Errorf("report replacements = %d, want 4", decoded.Counts.Replacements)
	}
	if decoded.OutputFile != filepath.Join(dir, "diagram_sanitized.drawio") {
		t.Errorf("report outputFile = %q", decoded.OutputFile)
	}
}

func TestSanitize_BadReportFormatWritesNothing(t *testing.T) {
	dir, vars, doc := writeInputs(t)
	out := filepath.Join(dir, "out.drawio")
	report := filepath.Join(dir, "report.txt")

	code, _, stderr := runCLI(t, "sanitize", "--vars", vars, "--in", doc, "--out", out,
		"--report", report, "--format", "bogus")

	if code != ExitUsageError {
		t.Errorf("exit code = %d, want %d", code, ExitUsageError)
	}
	if !strings.Contains(stderr, "unsupported output format: bogus") {
		t.Errorf("stderr = %q", stderr)
	}
	for _, p := range []string{out, report} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s exists after failed run", p)
		}
	}
}

func TestSanitize_NonUTF8Values(t *testing.T) {
	dir := t.TempDir()
	vars := filepath.Join(dir, "latin1.tfvars")
	doc := filepath.Join(dir, "diagram.drawio")
	out := filepath.Join(dir, "out.drawio")
	if err := os.WriteFile(vars, []byte("location = \"Z\xfcrich\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(doc, []byte("<mxCell value=\"Z\xfcrich\" />"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, _, stderr := runCLI(t, "sanitize", "--vars", vars, "--in", doc, "--out", out)

	if code != ExitSuccess {
		t.Fatalf("exit code = %d (stderr: %s)", code, stderr)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if want := `<mxCell value="location" />`; string(got) != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestSanitize_RedactSecrets(t *testing.T) {
	dir, vars, _ := writeInputs(t)
	doc := filepath.Join(dir, "conn.txt")
	out := filepath.Join(dir, "conn_out.txt")
	content := "host db.internal.example AccountKey=abcdEFGH1234ijklMNOP5678=="
	if err := os.WriteFile(doc, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	code, _, stderr := runCLI(t, "sanitize", "--vars", vars, "--in", doc, "--out", out, "--redact-secrets")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d (stderr: %s)", code, stderr)
	}

	got, _ := os.ReadFile(out)
	if strings.Contains(string(got), "abcdEFGH1234") {
		t.Errorf("secret survived: %s", got)
	}
	if !strings.Contains(string(got), "host <DB_HOST>") {
		t.Errorf("mapping not applied: %s", got)
	}
}

// --- mapping tests ---

func TestMapping_JSON(t *testing.T) {
	_, vars, _ := writeInputs(t)

	code, stdout, stderr := runCLI(t, "mapping", "--vars", vars, "--format", "json")

	if code != ExitSuccess {
		t.Fatalf("exit code = %d (stderr: %s)", code, stderr)
	}
	var decoded struct {
		Entries []struct {
			Value       string `json:"value"`
			Placeholder string `json:"placeholder"`
			Source      string `json:"source"`
		} `json:"entries"`
	}
	if err := json.Unmarshal([]byte(stdout), &decoded); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout)
	}
	got := map[string]string{}
	for _, e := range decoded.Entries {
		got[e.Value] = e.Placeholder + "/" + e.Source
	}
	want := map[string]string{
		"db.internal.example": "<DB_HOST>/legend",
		"10.0.0.0/24":         "vnet_cidr/network",
		"1.2.3.4":             "allowed_ips/network",
		"5.6.7.8":             "allowed_ips/network",
	}
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("entry %q = %q, want %q", k, got[k], v)
		}
	}
}

func TestMapping_MissingVars(t *testing.T) {
	code, _, stderr := runCLI(t, "mapping", "--vars", filepath.Join(t.TempDir(), "missing.tfvars"))

	if code != ExitMissingInput {
		t.Errorf("exit code = %d, want %d", code, ExitMissingInput)
	}
	if !strings.Contains(stderr, "Input files not found.") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestMapping_BadFormat(t *testing.T) {
	_, vars, _ := writeInputs(t)

	code, _, stderr := runCLI(t, "mapping", "--vars", vars, "--format", "sarif")

	if code != ExitRuntimeError {
		t.Errorf("exit code = %d, want %d", code, ExitRuntimeError)
	}
	if !strings.Contains(stderr, "unsupported output format") {
		t.Errorf("stderr = %q", stderr)
	}
}

// --- config and misc commands ---

func TestConfigSetShow(t *testing.T) {
	resetFlags()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("VARSCRUB_VARS", "")

	var stdout, stderr bytes.Buffer
	if code := execute([]string{"config", "set", "varsFile", "infra/prod.tfvars"}, &stdout, &stderr); code != ExitSuccess {
		t.Fatalf("config set exit code = %d (stderr: %s)", code, stderr.String())
	}
	stdout.Reset()
	if code := execute([]string{"config", "show"}, &stdout, &stderr); code != ExitSuccess {
		t.Fatalf("config show exit code = %d", code)
	}
	if !strings.Contains(stdout.String(), `"varsFile": "infra/prod.tfvars"`) {
		t.Errorf("config show = %s", stdout.String())
	}
}

func TestConfigSet_CorruptFileKept(t *testing.T) {
	resetFlags()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	path := filepath.Join(home, "varscrub", "config.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := execute([]string{"config", "set", "format", "json"}, &stdout, &stderr)

	if code == ExitSuccess {
		t.Fatalf("config set on corrupt file exit code = %d, want failure", code)
	}
	if !strings.Contains(stderr.String(), "parsing config file") {
		t.Errorf("stderr = %q", stderr.String())
	}
	got, _ := os.ReadFile(path)
	if string(got) != "{not json" {
		t.Errorf("config file rewritten: %q", got)
	}
}

func TestConfigSet_UnknownKey(t *testing.T) {
	code, _, stderr := runCLI(t, "config", "set", "provider", "openai")

	if code != ExitUsageError {
		t.Errorf("exit code = %d, want %d", code, ExitUsageError)
	}
	if !strings.Contains(stderr, "unknown config key") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "version")
	if code != ExitSuccess || !strings.Contains(stdout, "varscrub version "+version) {
		t.Errorf("version = %d %q", code, stdout)
	}
}

func TestUnknownCommand(t *testing.T) {
	if code, _, _ := runCLI(t, "review"); code != ExitUsageError {
		t.Errorf("exit code = %d, want %d", code, ExitUsageError)
	}
}
