// Package apidocs serves the OpenAPI document and a browsable reference page.
package apidocs

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var specYAML []byte

// Load parses and validates the embedded OpenAPI document.
func Load() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(specYAML)
	if err != nil {
		return nil, fmt.Errorf("load openapi spec: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi spec: %w", err)
	}
	return doc, nil
}

// Docs serves the reference page and the JSON spec it reads.
type Docs struct {
	page []byte
	spec []byte
}

// New renders the documentation page pointing at specURL.
func New(doc *openapi3.T, specURL string) (*Docs, error) {
	spec, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}

	buf := bytes.NewBuffer(nil)
	if err := pageTemplate.Execute(buf, struct{ SpecURL string }{specURL}); err != nil {
		return nil, fmt.Errorf("render docs page: %w", err)
	}
	return &Docs{page: buf.Bytes(), spec: spec}, nil
}

// Page serves the HTML reference.
func (d *Docs) Page(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(d.page)
}

// Spec serves the OpenAPI document as JSON.
func (d *Docs) Spec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(d.spec)
}

var pageTemplate = template.Must(template.New("apidoc").Parse(`
<!DOCTYPE html>
<html lang="en">
  <head>
    <title>API documentation</title>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1" />
  </head>

  <body>
    <script id="api-reference" data-url="{{ .SpecURL }}"></script>

    <script src="https://cdnjs.cloudflare.com/ajax/libs/scalar-api-reference/1.25.99/standalone.min.js" integrity="sha512-ai3lOYZ5efNXMYwnqhz0mnCaImbqfwLE1VCx9Y9nhB3OJX4/uegjIAoQtJHy3SILHp/gS1OlPCIeNFPZT5i2WQ==" crossorigin="anonymous" referrerpolicy="no-referrer"></script>
  </body>
</html>`))
