package battle

import "github.com/invopop/jsonschema"

// SetupSchema describes the Setup document as JSON Schema.
func SetupSchema() *jsonschema.Schema {
	r := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	schema := r.Reflect(new(Setup))
	schema.Title = "Battle setup"
	schema.Description = "Initial battle state: both teams and their active members."
	return schema
}
