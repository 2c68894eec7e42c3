package pool

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed pool.schema.json
var poolSchemaJSON []byte

const poolSchemaURL = "https://schemas.codex-rotate.dev/pool.schema.json"

var compilePoolSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(poolSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(poolSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("failed to add pool schema: %w", err)
	}
	return c.Compile(poolSchemaURL)
})

// validateDocument checks a raw pool document against the embedded schema.
func validateDocument(data []byte) error {
	schema, err := compilePoolSchema()
	if err != nil {
		return err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return err
	}
	return schema.Validate(inst)
}
