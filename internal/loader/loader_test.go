package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mesh-intelligence/datashelf/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const userYAML = `model: users
fields:
  - name: name
    type: text
    unique: true
  - name: age
    type: integer
  - name: status
    type: text
    default: active
`

func TestLoad(t *testing.T) {
	t.Run("parses definitions in sorted order", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "users.yaml", userYAML)
		writeFile(t, dir, "posts.yml", "model: posts\nfields:\n  - name: title\n    type: text\n")

		defs, err := Load(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(defs) != 2 {
			t.Fatalf("expected 2 definitions, got %d", len(defs))
		}
		if defs[0].Model != "posts" || defs[1].Model != "users" {
			t.Fatalf("unexpected order %v, %v", defs[0].Model, defs[1].Model)
		}
	})

	t.Run("field attributes survive parsing", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "users.yaml", userYAML)

		defs, err := Load(dir)
		if err != nil {
			t.Fatal(err)
		}
		fields := defs[0].Fields
		if len(fields) != 3 {
			t.Fatalf("expected 3 fields, got %d", len(fields))
		}
		if fields[0].Name != "name" || fields[0].Type != types.FieldText || !fields[0].Unique {
			t.Fatalf("unexpected field %+v", fields[0])
		}
		if fields[2].Default != "active" {
			t.Fatalf("expected default active, got %v", fields[2].Default)
		}
	})

	t.Run("skips underscore and non-yaml files", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "users.yaml", userYAML)
		writeFile(t, dir, "_draft.yaml", "model: draft\n")
		writeFile(t, dir, "notes.txt", "not a model")

		defs, err := Load(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(defs) != 1 || defs[0].Model != "users" {
			t.Fatalf("unexpected definitions %v", defs)
		}
	})

	t.Run("missing model name rejected", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "bad.yaml", "fields:\n  - name: x\n    type: text\n")

		_, err := Load(dir)
		if !errors.Is(err, types.ErrSchemaInvalid) {
			t.Fatalf("expected ErrSchemaInvalid, got %v", err)
		}
	})

	t.Run("malformed YAML rejected", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "bad.yaml", "model: [unclosed\n")

		if _, err := Load(dir); err == nil {
			t.Fatal("expected parse error")
		}
	})

	t.Run("missing directory rejected", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope")); err == nil {
			t.Fatal("expected error for missing directory")
		}
	})
}
