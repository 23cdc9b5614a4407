package config

import "github.com/invopop/jsonschema"

// GenerateJSONSchema generates a JSON schema for the configuration file.
func GenerateJSONSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
	}

	schema := r.Reflect(&Config{})
	schema.Title = "typeddict configuration"
	schema.Description = "Settings for generating TypedDict stubs from a JSON Schema document"

	return schema
}
