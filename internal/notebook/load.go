package notebook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a notebook serialization document from disk. The format is
// chosen by extension: .json decodes as JSON, everything else as YAML
// (YAML is a superset, so .yaml/.yml and extension-less files both work).
func Load(path string) (*NotebookSerialization, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open notebook: %w", err)
	}
	defer f.Close()

	nb, err := Decode(f, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("decode notebook %q: %w", path, err)
	}
	if nb.Filename == "" {
		nb.Filename = path
	}
	return nb, nil
}

// Decode reads a serialization document from r. ext selects the decoder the
// same way Load does.
func Decode(r io.Reader, ext string) (*NotebookSerialization, error) {
	var nb NotebookSerialization
	if strings.EqualFold(ext, ".json") {
		dec := json.NewDecoder(r)
		if err := dec.Decode(&nb); err != nil {
			return nil, err
		}
	} else {
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(&nb); err != nil {
			return nil, err
		}
	}
	if err := validate(&nb); err != nil {
		return nil, err
	}
	return &nb, nil
}

func validate(nb *NotebookSerialization) error {
	setups := 0
	for i := range nb.Cells {
		if nb.Cells[i].IsSetup() {
			setups++
		}
	}
	if setups > 1 {
		return fmt.Errorf("notebook declares %d setup cells, at most one allowed", setups)
	}
	return nil
}
