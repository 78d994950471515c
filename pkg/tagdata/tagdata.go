// Package tagdata loads the built-in markup metadata (known tags,
// attributes, directives) used to enrich backend results. The data is
// loaded once and the handle is passed by reference into whichever
// component needs it; there is no ambient global.
package tagdata

import (
	_ "embed"
	"encoding/json"
	"strings"

	"gitlab.com/tozd/go/errors"
)

//go:embed builtin.json
var builtinJSON []byte

// TagInfo describes one known markup tag.
type TagInfo struct {
	Name       string   `json:"name"`
	Attributes []string `json:"attributes,omitempty"`
	Void       bool     `json:"void,omitempty"`
}

// Data is the loaded metadata handle.
type Data struct {
	Tags map[string]TagInfo `json:"-"`
	// Directives are non-structural directives (bind, on, model, ...).
	Directives []string `json:"directives"`
	// StructuralDirectives drive conditionals and loops and sort last in
	// completion lists.
	StructuralDirectives []string `json:"structuralDirectives"`
}

type rawData struct {
	Tags                 []TagInfo `json:"tags"`
	Directives           []string  `json:"directives"`
	StructuralDirectives []string  `json:"structuralDirectives"`
}

// Load parses the embedded built-in data. Call it once at construction
// time and thread the handle through.
func Load() (*Data, error) {
	var raw rawData
	if err := json.Unmarshal(builtinJSON, &raw); err != nil {
		return nil, errors.Errorf("parsing builtin tag data: %w", err)
	}
	d := &Data{
		Tags:                 make(map[string]TagInfo, len(raw.Tags)),
		Directives:           raw.Directives,
		StructuralDirectives: raw.StructuralDirectives,
	}
	for _, t := range raw.Tags {
		d.Tags[t.Name] = t
	}
	return d, nil
}

// IsKnownTag reports whether name is a built-in markup tag.
func (d *Data) IsKnownTag(name string) bool {
	_, ok := d.Tags[strings.ToLower(name)]
	return ok
}

// IsDirective reports whether an attribute name is a directive.
func (d *Data) IsDirective(name string) bool {
	for _, dir := range d.Directives {
		if name == dir || strings.HasPrefix(name, dir+":") {
			return true
		}
	}
	return d.IsStructuralDirective(name)
}

// IsStructuralDirective reports whether an attribute name is a conditional
// or loop directive.
func (d *Data) IsStructuralDirective(name string) bool {
	for _, dir := range d.StructuralDirectives {
		if name == dir {
			return true
		}
	}
	return false
}
