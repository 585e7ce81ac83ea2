package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-pms/utils"
)

// Logger writes one line per request, tagged with the request id.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		rid, _ := c.Get(utils.RequestIDKey)
		log.Printf("%s %s %s %d %s rid=%v",
			c.Request.Method, c.Request.URL.Path, c.ClientIP(), c.Writer.Status(), time.Since(start), rid)
		if len(c.Errors) > 0 {
			log.Printf("rid=%v errors: %s", rid, c.Errors.String())
		}
	}
}
