// Package snapshot writes the JSON file handed back after a unit update.
package snapshot

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fairyhunter13/unit-update-service/internal/apperr"
	"github.com/fairyhunter13/unit-update-service/internal/model"
)

// Suffix is appended to the unit name to form the snapshot file name.
const Suffix = "_dados_atualizados.json"

// Snapshot describes a written file.
type Snapshot struct {
	FileName string
	Path     string
	Data     []byte
}

// Writer writes snapshots into a directory.
type Writer struct {
	dir string
}

// NewWriter returns a Writer for dir. An empty dir means the working directory.
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{dir: dir}
}

// FileName returns the snapshot file name for unit.
func FileName(unit string) string { return unit + Suffix }

// Encode renders r with 4-space indentation.
func Encode(r model.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Write replaces the snapshot of unit with r. Readers never observe a
// partially written file.
func (w *Writer) Write(unit string, r model.Record) (Snapshot, error) {
	name := FileName(unit)
	if filepath.Base(name) != name {
		return Snapshot{}, apperr.Errorf(apperr.KindIO, "snapshot.write", "unit %q is not a valid file name", unit)
	}
	data, err := Encode(r)
	if err != nil {
		return Snapshot{}, apperr.E(apperr.KindInternal, "snapshot.encode", err)
	}
	path := filepath.Join(w.dir, name)
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return Snapshot{}, apperr.E(apperr.KindIO, "snapshot.write", err)
	}
	return Snapshot{FileName: name, Path: path, Data: data}, nil
}

// writeFileAtomic writes to a temporary file in the target directory and
// renames it over targetPath.
func writeFileAtomic(targetPath string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(targetPath), filepath.Base(targetPath)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	return os.Rename(tmpPath, targetPath)
}
