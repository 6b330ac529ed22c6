package loader_test

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/aretw0/schemata/pkg/loader"
	"github.com/aretw0/schemata/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestParse_YAML(t *testing.T) {
	doc, err := loader.Parse([]byte(`
name: User
extends: Base
fields:
  name: {type: String, required: true, maxLength: 64}
  email: {type: String, matches: "/^[a-z]+@example\\.com$/i", unique: true}
  role: {type: String, enum: [admin, user], matches: admin}
  tags: Array
`), ".yaml")
	require.NoError(t, err)

	assert.Equal(t, "User", doc.Name)
	assert.Equal(t, "Base", doc.Extends)
	assert.Equal(t, []string{"name", "email", "role", "tags"}, doc.Fields.Names())
	assert.Equal(t, []string{"email"}, doc.Unique())

	email, _ := doc.Fields.Get("email")
	re, ok := email.(schema.Spec)["matches"].(*regexp.Regexp)
	require.True(t, ok, "slash-delimited patterns become regular expressions")
	assert.True(t, re.MatchString("ADA@example.com"))

	role, _ := doc.Fields.Get("role")
	assert.Equal(t, "admin", role.(schema.Spec)["matches"], "plain values are kept for equality")
}

func TestParse_JSON(t *testing.T) {
	doc, err := loader.Parse([]byte(`{
	"name": "Panda",
	"fields": {
		"name": {"type": "String", "required": true},
		"age": {"type": "Number", "max": 99}
	}
}`), ".JSON")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age"}, doc.Fields.Names())
	assert.Empty(t, doc.Unique())
}

func TestParse_Errors(t *testing.T) {
	_, err := loader.Parse([]byte("fields: {a: String}"), ".yaml")
	assert.ErrorIs(t, err, loader.ErrMissingName)

	_, err = loader.Parse([]byte(`name: X
fields:
  a: {matches: "/(/"}`), ".yaml")
	assert.ErrorIs(t, err, schema.ErrInvalidDefinition)

	_, err = loader.Parse([]byte("name: X\nfields: [a, b]"), ".yml")
	assert.ErrorIs(t, err, schema.ErrInvalidDefinition)

	_, err = loader.Parse([]byte(`{"name": `), ".json")
	assert.Error(t, err)
}

func TestParse_NoFields(t *testing.T) {
	doc, err := loader.Parse([]byte("name: Empty"), ".yaml")
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Fields.Len())
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a_admin.yaml", "name: Admin\nextends: User\nfields:\n  level: Number\n")
	writeFile(t, dir, "b_user.json", `{"name": "User", "extends": "Base", "fields": {"email": "String"}}`)
	writeFile(t, dir, "c_base.yml", "name: Base\nfields:\n  id: Number\n")
	writeFile(t, dir, "d_other.yaml", "name: Other\n")
	writeFile(t, dir, "README.md", "# not a schema")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755))

	docs, err := loader.LoadDir(dir)
	require.NoError(t, err)

	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name
	}
	assert.Equal(t, []string{"Base", "User", "Admin", "Other"}, names)
	assert.Equal(t, filepath.Join(dir, "c_base.yml"), docs[0].Path)
}

func TestLoadDir_Errors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := loader.LoadDir(filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})

	t.Run("unknown parent", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "a.yaml", "name: A\nextends: Ghost\n")
		_, err := loader.LoadDir(dir)
		assert.ErrorIs(t, err, loader.ErrUnknownParent)
	})

	t.Run("cycle", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "a.yaml", "name: A\nextends: B\n")
		writeFile(t, dir, "b.yaml", "name: B\nextends: A\n")
		_, err := loader.LoadDir(dir)
		assert.ErrorIs(t, err, loader.ErrCycle)
		assert.Contains(t, err.Error(), "A -> B -> A")
	})

	t.Run("duplicate", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "a.yaml", "name: A\n")
		writeFile(t, dir, "b.yaml", "name: A\n")
		_, err := loader.LoadDir(dir)
		assert.ErrorIs(t, err, loader.ErrDuplicateName)
	})

	t.Run("bad file names the path", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "bad.yaml", "fields: {}\n")
		_, err := loader.LoadDir(dir)
		assert.ErrorIs(t, err, loader.ErrMissingName)
		assert.Contains(t, err.Error(), "bad.yaml")
	})
}
