// Package openapi builds the huma configuration shared by the server and tests.
package openapi

import "github.com/danielgtaylor/huma/v2"

// DocsPath serves the interactive API documentation when docs are enabled.
const DocsPath = "/api-docs"

// Config returns a huma configuration for the API.
//
// Huma's schema link transformer is removed so response bodies carry only
// the fields declared by each operation (no "$schema" property, no
// "describedBy" Link header). When docs is false the OpenAPI document, the
// docs UI and the JSON schema routes are not mounted.
func Config(title, version string, docs bool) huma.Config {
	cfg := huma.DefaultConfig(title, version)
	cfg.CreateHooks = nil
	if !docs {
		cfg.OpenAPIPath = ""
		cfg.DocsPath = ""
		cfg.SchemasPath = ""
		return cfg
	}
	cfg.DocsPath = DocsPath
	return cfg
}
