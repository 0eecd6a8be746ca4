package cdn

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/simplecdn/core/router"
)

// Context is the request context passed to every handler.
type Context struct {
	*router.Context
}

func newContext(w http.ResponseWriter, r *http.Request, params map[string]string) *Context {
	return &Context{Context: router.NewContext(w, r, params)}
}

// PathParam returns the {path...} wildcard without surrounding slashes.
func (c *Context) PathParam() string {
	return strings.Trim(c.Param("path"), "/")
}
