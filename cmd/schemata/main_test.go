package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func schemaDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "name: Base\nfields:\n  id: {type: Number, writable: false}\n")
	writeFile(t, dir, "user.json", `{"name": "User", "extends": "Base", "fields": {
  "name": {"type": "String", "required": true, "maxLength": 8},
  "email": {"type": "String", "unique": true}
}}`)
	return dir
}

// run executes the root command with every flag spelled out, since cobra
// keeps flag values between executions.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func validateArgs(dir string, extra ...string) []string {
	args := []string{"validate", "--dir", dir, "--log-level", "warn", "--schema", "User",
		"--concurrency", "2", "--redis", "", "--metrics-file", "", "--claim=false"}
	return append(args, extra...)
}

func TestValidate_AllValid(t *testing.T) {
	dir := schemaDir(t)
	rec := writeFile(t, t.TempDir(), "ok.yaml", "name: ada\nemail: ada@example.com\n")

	out, err := run(t, validateArgs(dir, rec)...)
	require.NoError(t, err)
	assert.Contains(t, out, "✔ "+rec)
	assert.Contains(t, out, "1 record(s) checked against User, 0 failed")
}

func TestValidate_Failures(t *testing.T) {
	dir := schemaDir(t)
	records := t.TempDir()
	list := writeFile(t, records, "list.json", `[{"name": "ada"}, {"name": "much-too-long"}]`)
	broken := writeFile(t, records, "broken.yaml", "name: [unclosed\n")

	out, err := run(t, validateArgs(dir, list, broken)...)
	require.ErrorIs(t, err, errRecordsInvalid)
	assert.Contains(t, out, "✔ "+list+"#0")
	assert.Contains(t, out, "✘ "+list+"#1")
	assert.Contains(t, out, "name: max-length")
	assert.Contains(t, out, "✘ "+broken)
	assert.Contains(t, out, "3 record(s) checked against User, 2 failed")
}

func TestValidate_UnknownSchema(t *testing.T) {
	dir := schemaDir(t)
	rec := writeFile(t, t.TempDir(), "ok.yaml", "name: ada\n")

	args := validateArgs(dir, rec)
	args[6] = "Nope"
	_, err := run(t, args...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Nope")
}

func TestValidate_RedisAndMetrics(t *testing.T) {
	mr := miniredis.RunT(t)
	_, err := mr.SAdd("schemata:unique:User.email", "taken@example.com")
	require.NoError(t, err)

	dir := schemaDir(t)
	rec := writeFile(t, t.TempDir(), "dup.yaml", "name: bob\nemail: taken@example.com\n")
	metrics := filepath.Join(t.TempDir(), "schemata.prom")

	out, err := run(t, "validate", "--dir", dir, "--log-level", "warn", "--schema", "User",
		"--concurrency", "1", "--redis", mr.Addr(), "--metrics-file", metrics, "--claim=false", rec)
	require.ErrorIs(t, err, errRecordsInvalid)
	assert.Contains(t, out, "email: unique")

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `schemata_validations_total{result="invalid",schema="User"} 1`)
	assert.Contains(t, string(data), `schemata_field_failures_total{code="unique",field="email",schema="User"} 1`)
}

func TestValidate_Claim(t *testing.T) {
	mr := miniredis.RunT(t)
	dir := schemaDir(t)
	records := t.TempDir()
	first := writeFile(t, records, "first.yaml", "name: ada\nemail: ada@example.com\n")
	second := writeFile(t, records, "second.yaml", "name: eve\nemail: ada@example.com\n")

	out, err := run(t, "validate", "--dir", dir, "--log-level", "warn", "--schema", "User",
		"--concurrency", "1", "--redis", mr.Addr(), "--metrics-file", "", "--claim", first, second)
	require.ErrorIs(t, err, errRecordsInvalid)
	assert.Contains(t, out, "✔ "+first)
	assert.Contains(t, out, "✘ "+second)
	assert.Contains(t, out, "email: unique")
	assert.Contains(t, out, "2 record(s) checked against User, 1 failed")

	members, err := mr.Members("schemata:unique:User.email")
	require.NoError(t, err)
	assert.Equal(t, []string{"ada@example.com"}, members)
}

func TestInspect_Markdown(t *testing.T) {
	dir := schemaDir(t)

	out, err := run(t, "inspect", "--dir", dir, "--log-level", "warn", "--format", "markdown", "User")
	require.NoError(t, err)
	assert.Contains(t, out, "# User")
	assert.Contains(t, out, "Extends **Base**.")
	assert.Contains(t, out, "| `name` | String | yes | yes | yes | length ≤ 8 |")
}

func TestInspect_Mermaid(t *testing.T) {
	dir := schemaDir(t)

	out, err := run(t, "inspect", "--dir", dir, "--log-level", "warn", "--format", "mermaid")
	require.NoError(t, err)
	assert.Contains(t, out, "classDiagram\n")
	assert.Contains(t, out, "    Base <|-- User\n")
	assert.Contains(t, out, "        +String name*\n")
}

func TestInspect_UnknownFormat(t *testing.T) {
	_, err := run(t, "inspect", "--dir", schemaDir(t), "--log-level", "warn", "--format", "html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "schemata version")
}
