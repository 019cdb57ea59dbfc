package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

const cmdTestSOSI = `.HODE
..TEGNSETT UTF-8
..SOSI-VERSJON 4.5
..SOSI-NIVÅ 4
..TRANSPAR
...KOORDSYS 25
...ORIGO-NØ 6500000 100000
...ENHET 0.01
..OMRÅDE
...MIN-NØ 6500000 100000
...MAX-NØ 6600000 200000
.FLATE 1:
..OBJTYPE Bygning
..BYGGNR 123
..BYGGTYP_NBR 111
..DATAFANGSTDATO 20200101
..KVALITET
...MÅLEMETODE fot
...NØYAKTIGHET 0.10
...SYNBARHET 0
...DATAFANGSTDATO 20200101
...VERIFISERINGSDATO 20200615
..FLATE
..KURVE
0 0
0 1000
1000 1000
1000 0
.SLUTT
`

func writeCmdTestFile(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func runCmd(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoadConfig(t *testing.T) {
	path := writeCmdTestFile(t, "fkb.toml", `
standard = "a"
strict = true
rules_dir = "/etc/fkb/rules"
workers = 3
network_type = "vann"
log_level = "debug"
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	want := config{
		Standard:    "a",
		Strict:      true,
		RulesDir:    "/etc/fkb/rules",
		Workers:     3,
		NetworkType: "vann",
		LogLevel:    "debug",
	}
	if cfg != want {
		t.Errorf("config = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	unknown := writeCmdTestFile(t, "fkb.toml", "colour = \"blue\"\n")
	if _, err := loadConfig(unknown); err == nil || !strings.Contains(err.Error(), "colour") {
		t.Errorf("expected unknown key error, got %v", err)
	}

	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"", "debug", "INFO", "warn", "error"} {
		if _, err := newLogger(level, io.Discard); err != nil {
			t.Errorf("newLogger(%q): %v", level, err)
		}
	}
	if _, err := newLogger("loud", io.Discard); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestValidateCmd_Pass(t *testing.T) {
	path := writeCmdTestFile(t, "a.sos", cmdTestSOSI)

	out, err := runCmd(t, newValidateCmd(), "--workers", "1", path)
	if err != nil {
		t.Fatalf("Execute: %v\n%s", err, out)
	}
	for _, want := range []string{"Status: PASS", "Standard: FKB-B", "Features Validated: 1", "Digest: "} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestValidateCmd_FailsOnErrors(t *testing.T) {
	text := strings.Replace(cmdTestSOSI, "..BYGGNR 123\n", "", 1)
	path := writeCmdTestFile(t, "a.sos", text)

	out, err := runCmd(t, newValidateCmd(), "-v", "--standard", "fkb-c", path)
	if !errors.Is(err, errValidationFailed) {
		t.Fatalf("expected errValidationFailed, got %v", err)
	}
	for _, want := range []string{"Status: FAIL", "Standard: FKB-C", "ATTR-002: Missing mandatory attribute 'BYGGNR'"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestValidateCmd_JSON(t *testing.T) {
	a := writeCmdTestFile(t, "a.sos", cmdTestSOSI)
	b := writeCmdTestFile(t, "b.sos", cmdTestSOSI)

	out, err := runCmd(t, newValidateCmd(), "--json", "--strict", a, b)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	var docs []map[string]any
	if err := jsoniter.Unmarshal([]byte(out), &docs); err != nil {
		t.Fatalf("output is not a JSON array: %v\n%s", err, out)
	}
	if len(docs) != 2 || docs[0]["source"] != a || docs[1]["source"] != b {
		t.Fatalf("unexpected reports: %v", docs)
	}
	if docs[0]["strict"] != true {
		t.Errorf("expected strict report, got %v", docs[0]["strict"])
	}
}

func TestValidateCmd_ConfigFile(t *testing.T) {
	cfg := writeCmdTestFile(t, "fkb.toml", "standard = \"D\"\n")
	path := writeCmdTestFile(t, "a.sos", cmdTestSOSI)

	out, err := runCmd(t, newValidateCmd(), "--config", cfg, path)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "Standard: FKB-D") {
		t.Errorf("config standard not applied:\n%s", out)
	}

	out, err = runCmd(t, newValidateCmd(), "--config", cfg, "--standard", "A", path)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "Standard: FKB-A") {
		t.Errorf("flag did not override config:\n%s", out)
	}
}

func TestValidateCmd_InvalidStandard(t *testing.T) {
	path := writeCmdTestFile(t, "a.sos", cmdTestSOSI)
	if _, err := runCmd(t, newValidateCmd(), "--standard", "E", path); err == nil {
		t.Fatal("expected error for standard E")
	}
}

func TestParseCmd(t *testing.T) {
	path := writeCmdTestFile(t, "a.sos", cmdTestSOSI)

	out, err := runCmd(t, newParseCmd(), path)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, want := range []string{
		"Coordinate system: EPSG:25",
		"Features: 1",
		"Bygning",
		"Features with KVALITET: 1/1",
		"MÅLEMETODE: fot=1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGeoJSONCmd(t *testing.T) {
	path := writeCmdTestFile(t, "a.sos", cmdTestSOSI)
	target := filepath.Join(t.TempDir(), "a.geojson")

	if _, err := runCmd(t, newGeoJSONCmd(), "-o", target, path); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var doc struct {
		Type     string `json:"type"`
		Features []any  `json:"features"`
	}
	if err := jsoniter.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if doc.Type != "FeatureCollection" || len(doc.Features) != 1 {
		t.Errorf("unexpected GeoJSON: %s", data)
	}
}

func TestRulesCmd(t *testing.T) {
	out, err := runCmd(t, newRulesCmd())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if strings.Count(out, "ok ") != 6 {
		t.Errorf("expected six loaded tables:\n%s", out)
	}

	out, err = runCmd(t, newRulesCmd(), "--rules", t.TempDir())
	if err == nil {
		t.Fatal("expected error for empty rules directory")
	}
	if strings.Count(out, "FAIL") != 6 {
		t.Errorf("expected six failed tables:\n%s", out)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := runCmd(t, newVersionCmd())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out != "fkb "+version+"\n" {
		t.Errorf("version output = %q", out)
	}
}
