package blogapi

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// HandlerFunc is a route handler that receives the wrapped Context.
type HandlerFunc func(ctx *Context)

// Controller registers its routes on the group it is mounted on.
type Controller interface {
	Register(group *ControllerGroup)
}

type ControllerGroup struct {
	group  *gin.RouterGroup
	server *Server
}

// Group returns a group rooted at the server base path joined with relativePath.
func (s *Server) Group(relativePath string, middleware ...gin.HandlerFunc) *ControllerGroup {
	fullPath := path.Join("/", s.basePath, relativePath)
	return &ControllerGroup{
		group:  s.engine.Group(fullPath, middleware...),
		server: s,
	}
}

// RegisterController mounts controller under relativePath.
func (s *Server) RegisterController(relativePath string, controller Controller, middleware ...gin.HandlerFunc) {
	controller.Register(s.Group(relativePath, middleware...))
}

func (g *ControllerGroup) Group(relativePath string, middleware ...gin.HandlerFunc) *ControllerGroup {
	return &ControllerGroup{
		group:  g.group.Group(relativePath, middleware...),
		server: g.server,
	}
}

func (g *ControllerGroup) Use(middleware ...gin.HandlerFunc) {
	g.group.Use(middleware...)
}

func (g *ControllerGroup) BasePath() string {
	return g.group.BasePath()
}

func (g *ControllerGroup) GET(relativePath string, handler HandlerFunc, middleware ...gin.HandlerFunc) {
	g.handle(http.MethodGet, relativePath, handler, middleware)
}

func (g *ControllerGroup) POST(relativePath string, handler HandlerFunc, middleware ...gin.HandlerFunc) {
	g.handle(http.MethodPost, relativePath, handler, middleware)
}

func (g *ControllerGroup) PUT(relativePath string, handler HandlerFunc, middleware ...gin.HandlerFunc) {
	g.handle(http.MethodPut, relativePath, handler, middleware)
}

func (g *ControllerGroup) PATCH(relativePath string, handler HandlerFunc, middleware ...gin.HandlerFunc) {
	g.handle(http.MethodPatch, relativePath, handler, middleware)
}

func (g *ControllerGroup) DELETE(relativePath string, handler HandlerFunc, middleware ...gin.HandlerFunc) {
	g.handle(http.MethodDelete, relativePath, handler, middleware)
}

func (g *ControllerGroup) handle(method, relativePath string, handler HandlerFunc, middleware []gin.HandlerFunc) {
	handlers := make([]gin.HandlerFunc, 0, len(middleware)+1)
	handlers = append(handlers, middleware...)
	handlers = append(handlers, wrapHandler(handler))
	g.group.Handle(method, relativePath, handlers...)
}

func wrapHandler(handler HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		handler(NewContext(c))
	}
}
