package blogapi

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

const commonLogTimeFormat = "02/Jan/2006:15:04:05 -0700"

// CommonLogFormatter renders an access log line in the Apache common log
// format: host ident user [time] "request" status bytes.
func CommonLogFormatter(param gin.LogFormatterParams) string {
	size := "-"
	if param.BodySize > 0 {
		size = strconv.Itoa(param.BodySize)
	}
	proto := "HTTP/1.1"
	if param.Request != nil && param.Request.Proto != "" {
		proto = param.Request.Proto
	}
	return fmt.Sprintf("%s - - [%s] \"%s %s %s\" %d %s\n",
		param.ClientIP,
		param.TimeStamp.Format(commonLogTimeFormat),
		param.Method,
		param.Path,
		proto,
		param.StatusCode,
		size,
	)
}
