package blogapi

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type Context struct {
	*gin.Context
}

func NewContext(c *gin.Context) *Context {
	return &Context{Context: c}
}

// BindJSONFields decodes the JSON object body into request after checking
// that every name in required is a key of that object. Keys are checked in
// order and the first missing one is reported. Decoder details are logged,
// never returned to the client.
func (c *Context) BindJSONFields(request interface{}, required ...string) error {
	var fields map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&fields, binding.JSON); err != nil && !errors.Is(err, io.EOF) {
		log.Printf("%s: undecodable body: %v", requestLine(c.Context), err)
		return ErrInvalidBody.New()
	}
	for _, field := range required {
		if _, ok := fields[field]; !ok {
			return ErrMissingField.New(field)
		}
	}
	if err := c.ShouldBindBodyWith(request, binding.JSON); err != nil {
		log.Printf("%s: body does not fit request: %v", requestLine(c.Context), err)
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return ErrInvalidField.New(typeErr.Field)
		}
		return ErrInvalidBody.New()
	}
	return nil
}

func (c *Context) SendError(err error) {
	SendError(c.Context, err)
}

// NoContent writes a 204 with an empty body.
func (c *Context) NoContent() {
	c.Status(http.StatusNoContent)
}
