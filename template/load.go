package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sigs.k8s.io/yaml"
)

// Load reads the document-level template at templatePath and appends the page
// definitions read from pagePaths, in order. Files ending in .yaml or .yml are
// accepted alongside JSON.
func Load(templatePath string, pagePaths []string) (*Template, error) {
	data, err := ReadSource(templatePath)
	if err != nil {
		return nil, err
	}
	tpl, err := Decode(data)
	if err != nil {
		return nil, withFile(templatePath, err)
	}

	for _, p := range pagePaths {
		data, err := ReadSource(p)
		if err != nil {
			return nil, err
		}
		page, err := DecodePage(data)
		if err != nil {
			return nil, withFile(p, err)
		}
		tpl.Pages = append(tpl.Pages, page)
	}
	return tpl, nil
}

// ReadSource reads a JSON or YAML file and returns its JSON form.
func ReadSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("template: reading %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.YAMLToJSON(data)
		if err != nil {
			return nil, &FormatError{File: path, Err: err}
		}
	}
	return data, nil
}

// Decode parses a document-level template.
func Decode(data []byte) (*Template, error) {
	var tpl Template
	if err := json.Unmarshal(data, &tpl); err != nil {
		return nil, &FormatError{Err: err}
	}
	return &tpl, nil
}

// DecodePage parses a single page definition.
func DecodePage(data []byte) (*Page, error) {
	var page Page
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, &FormatError{Err: err}
	}
	return &page, nil
}

func withFile(path string, err error) error {
	var fe *FormatError
	if errors.As(err, &fe) && fe.File == "" {
		fe.File = path
		return fe
	}
	return err
}

// FontKeys returns the distinct font keys referenced by any element of the
// template, sorted.
func (t *Template) FontKeys() []string {
	seen := map[string]bool{}
	visit := func(es Elements) {
		for _, el := range es {
			switch e := el.(type) {
			case *TextLine:
				seen[e.Format.Font] = true
			case *TextBlock:
				seen[e.Format.Font] = true
			case *Table:
				seen[e.HeaderFormat.Font] = true
				seen[e.RowFormat.Font] = true
				seen[e.ExtraRowFormat.Font] = true
			}
		}
	}
	for _, p := range t.Pages {
		visit(p.Elements)
	}
	for _, o := range []*Overlay{t.Header, t.Footer, t.Draft} {
		if o != nil {
			visit(o.Elements)
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
