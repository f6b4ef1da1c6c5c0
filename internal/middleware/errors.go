package middleware

import (
	"errors"
	"log"
	"net/http"

	"tasks-api/internal/models"

	"github.com/gin-gonic/gin"
)

const genericErrorMessage = "Something went wrong, please try again later."

// ErrorResponder writes the last error recorded on the context as
// {"message": ...}. Only HTTPError messages reach the client; any other
// error becomes a generic 500.
func ErrorResponder() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := http.StatusInternalServerError
		message := genericErrorMessage

		var httpErr *models.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Status
			message = httpErr.Message
		}

		if status >= http.StatusInternalServerError {
			log.Printf("rid=%s %s %s failed: %v", RequestID(c), c.Request.Method, c.Request.URL.Path, err)
		}

		c.JSON(status, gin.H{"message": message})
	}
}
