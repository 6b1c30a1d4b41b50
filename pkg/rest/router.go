package rest

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const AllGroups = "*"

// Register mounts middlewares and routes on engine. Group middlewares are
// attached before any route of that group is added.
func Register(engine *gin.Engine, middlewares []Middleware, routes []Route) error {
	groups := map[string]*gin.RouterGroup{}
	group := func(name string) *gin.RouterGroup {
		name = strings.Trim(name, "/")
		if _, exists := groups[name]; !exists {
			groups[name] = engine.Group("/" + name)
		}
		return groups[name]
	}

	// groups copy the engine chain when created, so global handlers go first
	for _, m := range middlewares {
		if m.Group == AllGroups {
			engine.Use(m.Handler)
		}
	}
	for _, m := range middlewares {
		if m.Group != AllGroups {
			group(m.Group).Use(m.Handler)
		}
	}

	for _, r := range routes {
		g := group(r.Group)
		switch r.Method {
		case GET:
			g.GET(r.Path, r.HandlerFunc)
		case POST:
			g.POST(r.Path, r.HandlerFunc)
		case PUT:
			g.PUT(r.Path, r.HandlerFunc)
		case PATCH:
			g.PATCH(r.Path, r.HandlerFunc)
		case DELETE:
			g.DELETE(r.Path, r.HandlerFunc)
		default:
			return fmt.Errorf("unrecognized HTTP method %s for %s/%s", r.Method, r.Group, r.Path)
		}
	}
	return nil
}
