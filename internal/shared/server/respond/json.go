package respond

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}

// Attachment sends data as a file download named fileName.
func Attachment(c *gin.Context, fileName, contentType string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+quotableName(fileName)+`"`)
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Header("X-Content-Type-Options", "nosniff")
	c.Data(http.StatusOK, contentType, data)
}

// quotableName drops characters that would break out of a quoted header value.
func quotableName(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '"' || r == '\\' || r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
}
