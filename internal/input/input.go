// Package input reads the document a randomizer run produces.
package input

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"randoexport/internal/placement"
	"randoexport/internal/transition"
)

//go:embed output.schema.json
var outputSchema string

const schemaURL = "https://randoexport.local/schemas/output.schema.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = jsonschema.CompileString(schemaURL, outputSchema)
	})
	return compiled, compileErr
}

// Document is the randomizer output: the ordered item assignments and the
// transition pairs.
type Document struct {
	ItemPlacements       []placement.Record     `json:"item_placements"`
	TransitionPlacements []transition.Placement `json:"transition_placements,omitempty"`
}

func Load(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	doc, err := Decode(raw)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Decode validates raw against the output schema before decoding it.
func Decode(raw []byte) (Document, error) {
	var doc Document
	s, err := schema()
	if err != nil {
		return doc, fmt.Errorf("compile schema: %w", err)
	}

	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return doc, fmt.Errorf("parse: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return doc, fmt.Errorf("validate: %w", err)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("decode: %w", err)
	}
	return doc, nil
}
