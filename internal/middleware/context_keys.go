package middleware

import "github.com/gin-gonic/gin"

// callerIDKey is the key used to store the authenticated caller's ID.
const callerIDKey = contextKey("callerID")

// GetCallerIDFromContext retrieves the authenticated caller ID from the Gin context.
// It returns the caller ID and a boolean indicating if it was found.
func GetCallerIDFromContext(c *gin.Context) (string, bool) {
	if val, exists := c.Get(string(callerIDKey)); exists {
		callerID, ok := val.(string)
		return callerID, ok && callerID != ""
	}
	// check in the request context as well
	if val, ok := c.Request.Context().Value(callerIDKey).(string); ok && val != "" {
		return val, true
	}
	return "", false
}
