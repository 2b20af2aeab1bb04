// Package dataset loads and saves the companies JSON file.
package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/kingrea/primary-risks/internal/jsondoc"
)

// DefaultPath is where the companies file lives relative to the project root.
const DefaultPath = "data/companies.json"

// ErrNotArray is returned when the document root is not a JSON array.
var ErrNotArray = errors.New("dataset: root value is not an array")

// Dataset is the companies file held in memory.
type Dataset struct {
	path string
	mode fs.FileMode
	root *jsondoc.Array
}

// Load reads and decodes the file at path.
func Load(path string) (*Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("dataset: %s is a directory, expected a file", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	doc, err := jsondoc.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("dataset: parse %s: %w", path, err)
	}
	root, ok := doc.(*jsondoc.Array)
	if !ok {
		return nil, fmt.Errorf("%w (%s is a %s)", ErrNotArray, path, doc.Kind())
	}
	return &Dataset{path: path, mode: info.Mode().Perm(), root: root}, nil
}

// Path returns the file backing this dataset.
func (d *Dataset) Path() string {
	if d == nil {
		return ""
	}
	return d.path
}

// Records returns the company records. Mutating them mutates the dataset.
func (d *Dataset) Records() []jsondoc.Value {
	if d == nil || d.root == nil {
		return nil
	}
	return d.root.Items
}

// Save overwrites the source file with the current in-memory document. The
// file is truncated and rewritten in place; an interrupted write can leave it
// incomplete.
func (d *Dataset) Save() error {
	if d == nil || d.root == nil {
		return fmt.Errorf("dataset: nothing loaded")
	}
	encoded, err := jsondoc.Marshal(d.root)
	if err != nil {
		return fmt.Errorf("dataset: encode %s: %w", d.path, err)
	}
	mode := d.mode
	if mode == 0 {
		mode = 0o644
	}
	if err := os.WriteFile(d.path, encoded, mode); err != nil {
		return fmt.Errorf("dataset: write %s: %w", d.path, err)
	}
	return nil
}
