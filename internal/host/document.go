// Package host reads the drawing selection exported from the CAD host and
// exposes its elements as placements.
package host

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"bvbswizard/internal/model"
)

// Document is the exported drawing selection. YAML and JSON both decode.
type Document struct {
	Elements []*Element `yaml:"elements" json:"elements"`
}

// Element is one selected drawing element. Only placements use the mark
// fields; assemblies use Children.
type Element struct {
	UUID         string            `yaml:"id" json:"id"`
	DisplayName  string            `yaml:"display_name" json:"display_name"`
	Type         string            `yaml:"type" json:"type"`
	PositionMark string            `yaml:"mark" json:"mark"`
	SubPos       string            `yaml:"sub_position" json:"sub_position"`
	Attrs        map[string]string `yaml:"attributes" json:"attributes"`
	Children     []string          `yaml:"children" json:"children"`
	Fixtures     []*FixtureElement `yaml:"fixtures" json:"fixtures"`
}

// FixtureElement is a child fixture of a placement.
type FixtureElement struct {
	DisplayName string            `yaml:"display_name" json:"display_name"`
	Attrs       map[string]string `yaml:"attributes" json:"attributes"`
}

var _ model.Placement = (*Element)(nil)

func (e *Element) ID() string          { return e.UUID }
func (e *Element) Kind() string        { return e.DisplayName }
func (e *Element) TypeID() string      { return e.Type }
func (e *Element) Mark() string        { return e.PositionMark }
func (e *Element) SubPosition() string { return e.SubPos }

// Attribute returns the raw value of a host attribute.
func (e *Element) Attribute(id int) (string, bool) {
	v, ok := e.Attrs[strconv.Itoa(id)]
	return v, ok
}

// Fixture returns the first fixture with the given display name.
func (e *Element) Fixture(displayName string) (model.Fixture, bool) {
	for _, f := range e.Fixtures {
		if f.DisplayName == displayName {
			return f, true
		}
	}
	return nil, false
}

func (f *FixtureElement) Attribute(id int) (string, bool) {
	v, ok := f.Attrs[strconv.Itoa(id)]
	return v, ok
}

// Decode reads a document from r.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return &doc, nil
		}
		return nil, fmt.Errorf("decode placement document: %w", err)
	}
	return &doc, nil
}

// LoadDocument reads the placement document at path.
func LoadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
