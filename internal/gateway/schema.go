package gateway

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const evaluationSchemaURL = "https://rre-dashboard.local/schemas/evaluation.json"

// evaluationSchema accepts any object whose optional metrics member is itself an object
const evaluationSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "metrics": {"type": "object"}
  }
}`

func compileEvaluationSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(evaluationSchema))
	if err != nil {
		return nil, err
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(evaluationSchemaURL, doc); err != nil {
		return nil, err
	}
	return c.Compile(evaluationSchemaURL)
}
