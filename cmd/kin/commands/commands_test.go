package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/kin/am"
	"github.com/teranos/kin/errors"
	ged "github.com/teranos/kin/gedcom"
	ixgedcom "github.com/teranos/kin/ixgest/gedcom"
)

const tree = `0 HEAD
1 SOUR kin
2 VERS 0.1
1 GEDC
2 VERS 5.5.1
2 FORM LINEAGE-LINKED
1 CHAR UTF-8
0 @I1@ INDI
1 NAME Jean /Martin/
1 BIRT
2 DATE 10 vendemiaire XI
1 DEAT
2 DATE sometime in spring
0 @F1@ FAM
1 HUSB @I1@
0 TRLR
`

func TestMain(m *testing.M) {
	pterm.DisableColor()
	os.Exit(m.Run())
}

// isolate points every config location at an empty temporary directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Setenv("PWD", dir)
	t.Cleanup(func() { _ = os.Chdir(wd) })
	am.Reset()
	t.Cleanup(am.Reset)
	return dir
}

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	t.Cleanup(func() { resetFlags(cmd) })
	err := cmd.Execute()
	return out.String(), err
}

func writeTree(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "tree.ged")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheckCommand(t *testing.T) {
	dir := isolate(t)
	path := writeTree(t, dir, tree)

	out, err := execute(t, CheckCmd, path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 records, 2 dates (1 unparsable)")
	assert.Contains(t, out, "GEDCOM 5.5.1 LINEAGE-LINKED")
	assert.Contains(t, out, "FAM 1  INDI 1")
	assert.Contains(t, out, "french 1")
	assert.Contains(t, out, `"sometime in spring"`)
	assert.NotContains(t, out, "blake3", "digest needs -vv")
}

func TestCheckCommandJSON(t *testing.T) {
	dir := isolate(t)
	path := writeTree(t, dir, tree)

	out, err := execute(t, CheckCmd, path, "--json")
	require.NoError(t, err)

	var result ixgedcom.GedcomProcessingResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.RecordCount())
	assert.Len(t, result.Digest, 64)
	require.Len(t, result.Unparsable, 1)
	assert.Equal(t, 13, result.Unparsable[0].Line)
}

func TestCheckCommandErrors(t *testing.T) {
	dir := isolate(t)

	notGedcom := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notGedcom, []byte("0 @I1@ INDI\n"), 0o644))
	_, err := execute(t, CheckCmd, notGedcom)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ged.ErrFormat))
	assert.Contains(t, strings.Join(errors.GetAllHints(err), " "), "0 HEAD")

	withExtension := writeTree(t, dir, strings.Replace(tree, "1 DEAT\n", "1 _UID 42\n1 DEAT\n", 1))
	_, err = execute(t, CheckCmd, withExtension)
	require.NoError(t, err, "extensions are skipped by default")
	_, err = execute(t, CheckCmd, withExtension, "--strict-extensions")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ged.ErrStructure))
	assert.Contains(t, strings.Join(errors.GetAllHints(err), " "), "strict")

	_, err = execute(t, CheckCmd, filepath.Join(dir, "missing.ged"))
	assert.True(t, errors.IsNotFoundError(err))
}

func TestCheckCommandUsesConfig(t *testing.T) {
	dir := isolate(t)
	path := writeTree(t, dir, strings.Replace(tree, "1 DEAT\n", "1 _UID 42\n1 DEAT\n", 1))
	require.NoError(t, os.WriteFile(filepath.Join(dir, am.ProjectFile),
		[]byte("[gedcom]\nstrict_extensions = true\n"), 0o644))

	_, err := execute(t, CheckCmd, path)
	assert.True(t, errors.Is(err, ged.ErrStructure))

	_, err = execute(t, CheckCmd, path, "--strict-extensions=false")
	assert.NoError(t, err, "flag overrides config")
}

func TestReportCheckVerbosity(t *testing.T) {
	r := &ixgedcom.GedcomProcessingResult{
		JobID:       "job-1",
		File:        "tree.ged.xz",
		Digest:      "abc123",
		Bytes:       512,
		Compression: "xz",
		Header:      ixgedcom.Header{GedcomVersion: "7.0", Source: "kin"},
		Records:     map[string]int{"HEAD": 1, "INDI": 3, "TRLR": 1},
		Dates: ixgedcom.DateStats{
			Total: 5, Parsed: 4, Unparsable: 3,
			ByCalendar: map[string]int{"gregorian": 2},
			Earliest:   &ixgedcom.DateRef{Display: "1700 (Julian)"},
			Latest:     &ixgedcom.DateRef{Display: "1900"},
		},
		Unparsable:     []ixgedcom.DateRef{{Text: "foo", Event: "BIRT", Record: "@I1@", Line: 7}},
		VersionWarning: "GEDCOM version 7.0 is outside \">= 5.5, < 6\"",
		Success:        true,
		Message:        "3 records, 5 dates (3 unparsable)",
		DurationMS:     12,
	}

	var quiet bytes.Buffer
	require.NoError(t, reportCheck(&quiet, r, false, 0))
	out := quiet.String()
	assert.Contains(t, out, "tree.ged.xz  3 records")
	assert.Contains(t, out, "! GEDCOM version 7.0 is outside")
	assert.Contains(t, out, "INDI 3")
	assert.NotContains(t, out, "HEAD")
	assert.Contains(t, out, "1700 (Julian) .. 1900")
	assert.Contains(t, out, "line 7")
	assert.Contains(t, out, "... 2 more")
	assert.NotContains(t, out, "abc123")

	var loud bytes.Buffer
	require.NoError(t, reportCheck(&loud, r, false, 2))
	assert.Contains(t, loud.String(), "abc123 (xz)")
	assert.Contains(t, loud.String(), "12ms")
	assert.Contains(t, loud.String(), "job-1")

	var js bytes.Buffer
	require.NoError(t, reportCheck(&js, r, true, 0))
	assert.Contains(t, js.String(), `"blake3": "abc123"`)
}

func TestPrintError(t *testing.T) {
	err := withCheckHint(&ged.FormatError{
		Pos:  ged.Position{Source: "notes.txt", Line: 1},
		Text: "hello",
		Msg:  "file must start with 0 HEAD",
	})

	var buf bytes.Buffer
	PrintError(&buf, err)
	out := buf.String()
	assert.Contains(t, out, "notes.txt:1")
	assert.Contains(t, out, "file must start with 0 HEAD")
	assert.Contains(t, out, "hint: a GEDCOM file starts with")

	buf.Reset()
	PrintError(&buf, errors.New("plain failure"))
	assert.Equal(t, "✗ plain failure\n", buf.String())
}

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestCheckCommandWatch(t *testing.T) {
	dir := isolate(t)
	path := writeTree(t, dir, tree)

	var out syncBuffer
	CheckCmd.SetOut(&out)
	CheckCmd.SetErr(&out)
	CheckCmd.SetArgs([]string{path, "--watch"})
	t.Cleanup(func() { resetFlags(CheckCmd) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- CheckCmd.ExecuteContext(ctx) }()

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "2 records")
	}, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	assert.Contains(t, out.String(), "Watching "+path)
	assert.Contains(t, out.String(), "Stopped watching")
}

func TestDateCommand(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"words joined", []string{"12", "JAN", "1900"}, "1900-01-12"},
		{"range", []string{"entre 1700 ju et 10 vendemiaire XI"}, "between 1700 (Julian) and 10 vendemiaire XI"},
		{"month first by default", []string{"03/04/1870"}, "1870-03-04"},
		{"day first", []string{"03/04/1870", "--order", "dmy"}, "1870-04-03"},
		{"other calendar", []string{"1802-10-02", "--calendar", "french"}, "10 vendemiaire XI"},
		{"year only", []string{"ABT 1850-06-01", "--year-only"}, "ca 1850"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, DateCmd, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestDateCommandConfigOrder(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, am.ProjectFile), []byte("[dates]\norder = \"dmy\"\n"), 0o644))

	out, err := execute(t, DateCmd, "03/04/1870")
	require.NoError(t, err)
	assert.Equal(t, "1870-04-03\n", out)
}

func TestDateCommandJSON(t *testing.T) {
	isolate(t)

	out, err := execute(t, DateCmd, "2008-01-01", "--json")
	require.NoError(t, err)

	var report struct {
		Input     string `json:"input"`
		Display   string `json:"display"`
		JulianDay int64  `json:"julian_day"`
		Parsed    struct {
			Span string `json:"span"`
		} `json:"parsed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "2008-01-01", report.Input)
	assert.Equal(t, "2008-01-01", report.Display)
	assert.Equal(t, int64(2454467), report.JulianDay)
	assert.Equal(t, "single", report.Parsed.Span)
}

func TestDateCommandErrors(t *testing.T) {
	isolate(t)

	_, err := execute(t, DateCmd, "sometime", "in", "spring")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInputError(err))
	assert.NotEmpty(t, errors.GetAllHints(err))

	_, err = execute(t, DateCmd, "1900", "--calendar", "hebrew")
	assert.True(t, errors.IsInvalidInputError(err))

	_, err = execute(t, DateCmd, "1900", "--order", "ymd")
	assert.True(t, errors.IsInvalidInputError(err))
}

func TestRomanCommand(t *testing.T) {
	tests := []struct {
		arg  string
		want string
	}{
		{"1444", "MCDXLIV"},
		{"xi", "11"},
		{"MMXXIV", "2024"},
	}
	for _, tt := range tests {
		out, err := execute(t, RomanCmd, tt.arg)
		require.NoError(t, err)
		assert.Equal(t, tt.want+"\n", out)
	}

	out, err := execute(t, RomanCmd, "14", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"number": 14, "numeral": "XIV"}`, out)

	out, err = execute(t, RomanCmd, "3999")
	require.NoError(t, err)
	assert.Equal(t, "MMMCMXCIX\n", out)

	for _, bad := range []string{"0", "4000", "1000000000", "IIII", "abc"} {
		_, err := execute(t, RomanCmd, bad)
		assert.True(t, errors.IsInvalidInputError(err), bad)
	}
}

func TestGrammarCommand(t *testing.T) {
	out, err := execute(t, GrammarCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "GEDCOM 5.5")
	assert.Contains(t, out, "individual")
	assert.Contains(t, out, "family")

	out, err = execute(t, GrammarCmd, "header/GEDC")
	require.NoError(t, err)
	assert.Contains(t, out, "header/GEDC")
	assert.Contains(t, out, "VERS")
	assert.Contains(t, out, "1..1")

	out, err = execute(t, GrammarCmd, "family", "--json")
	require.NoError(t, err)
	var report grammarReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "family", report.Name)
	var marr *ruleReport
	for i, r := range report.Rules {
		for _, tag := range r.Tags {
			if tag == "MARR" {
				marr = &report.Rules[i]
			}
		}
	}
	require.NotNil(t, marr)
	assert.Equal(t, "family_event", marr.Child)
	assert.Equal(t, -1, marr.Max)

	_, err = execute(t, GrammarCmd, "nope")
	assert.True(t, errors.IsNotFoundError(err))
	_, err = execute(t, GrammarCmd, "header/LANG")
	assert.True(t, errors.IsInvalidInputError(err))
	_, err = execute(t, GrammarCmd, "header/XYZ")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestAmCommands(t *testing.T) {
	dir := isolate(t)

	out, err := execute(t, AmCmd, "init")
	require.NoError(t, err)
	assert.Contains(t, out, am.ProjectFile)
	assert.FileExists(t, filepath.Join(dir, am.ProjectFile))

	_, err = execute(t, AmCmd, "set", "dates.order", "dmy")
	require.NoError(t, err)

	out, err = execute(t, AmCmd, "show", "--format", "json")
	require.NoError(t, err)
	var cfg am.Config
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "dmy", cfg.Dates.Order)

	out, err = execute(t, AmCmd, "show", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "dmy")

	out, err = execute(t, AmCmd, "where")
	require.NoError(t, err)
	assert.Contains(t, out, "dates.order")
	assert.Contains(t, out, "project")

	_, err = execute(t, AmCmd, "set", "dates.nope", "x")
	require.Error(t, err)
	assert.Contains(t, strings.Join(errors.GetAllHints(err), " "), "kin am show")

	_, err = execute(t, AmCmd, "show", "--format", "ini")
	assert.True(t, errors.IsInvalidInputError(err))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, VersionCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "kin ")
	assert.Contains(t, out, "Platform: ")

	out, err = execute(t, VersionCmd, "--json")
	require.NoError(t, err)
	var info map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "version")
}
