package application

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"splitmark/internal/domain"
)

//go:embed schema/title_pages.schema.json
var titlePagesSchema []byte

var (
	sidecarSchemaOnce sync.Once
	sidecarSchema     *jsonschema.Schema
	sidecarSchemaErr  error
)

func compiledSidecarSchema() (*jsonschema.Schema, error) {
	sidecarSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("title_pages.schema.json", bytes.NewReader(titlePagesSchema)); err != nil {
			sidecarSchemaErr = fmt.Errorf("failed to load sidecar schema: %w", err)
			return
		}
		sidecarSchema, sidecarSchemaErr = compiler.Compile("title_pages.schema.json")
	})
	return sidecarSchema, sidecarSchemaErr
}

// ParseSidecar decodes a title pages sidecar and checks it against the sidecar schema
func ParseSidecar(raw []byte) (*domain.TitlePagesSidecar, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ParseError{Source: "sidecar", Err: err}
	}

	schema, err := compiledSidecarSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, &ParseError{Source: "sidecar", Err: err}
	}

	var sc domain.TitlePagesSidecar
	if err := json.Unmarshal(raw, &sc); err != nil {
		return nil, &ParseError{Source: "sidecar", Err: err}
	}
	return &sc, nil
}
