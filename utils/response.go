package utils

import "github.com/gin-gonic/gin"

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

// JSONPage wraps a list with its paging metadata.
func JSONPage(c *gin.Context, code int, data interface{}, total int64, page, size int) {
	pages := int64(0)
	if size > 0 {
		pages = (total + int64(size) - 1) / int64(size)
	}
	c.JSON(code, gin.H{
		"success": true,
		"data":    data,
		"pagination": gin.H{
			"page":       page,
			"pageSize":   size,
			"total":      total,
			"totalPages": pages,
		},
	})
}

// JSONError writes {"error":{"code","message","details"}}. details may be nil.
func JSONError(c *gin.Context, code int, errCode, message string, details gin.H) {
	body := gin.H{"code": errCode, "message": message}
	if rid, ok := c.Get(RequestIDKey); ok {
		if details == nil {
			details = gin.H{}
		}
		details["requestId"] = rid
	}
	if len(details) > 0 {
		body["details"] = details
	}
	c.AbortWithStatusJSON(code, gin.H{"success": false, "error": body})
}
