// Package docs carries the OpenAPI description of the sandbox API. The
// document is embedded so the Swagger UI works from any working directory.
package docs

import _ "embed"

//go:embed swagger.json
var SwaggerJSON []byte
