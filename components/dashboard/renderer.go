package dashboard

import "io"

// Renderer describes the template renderer contract used to build the page shell.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}
