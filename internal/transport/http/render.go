package httptransport

import (
	"net/http"

	"glimpse/pkg/platform/httputil"
)

// Renderer is the seam to the markup layer, which lives outside this
// repository. Handlers assemble view models; the renderer owns layout.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any) error
}

// JSONRenderer serves view models as JSON. It stands in for the real markup
// renderer in development and in tests.
type JSONRenderer struct{}

// Render writes the view model as a JSON document.
func (JSONRenderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	httputil.WriteJSON(w, status, map[string]any{
		"page": name,
		"data": data,
	})
	return nil
}
