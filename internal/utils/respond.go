package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/apperr"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
)

// RespondError writes {"error": ...} with the status matching err and logs it.
// Client errors are logged as WARN, everything else as ERROR.
func RespondError(c *gin.Context, err error, logMessage string, extra string) {
	status := apperr.Status(err)
	c.JSON(status, gin.H{"error": apperr.Message(err)})

	level := "WARN"
	if status >= 500 {
		level = "ERROR"
	}
	fields := map[string]interface{}{
		"route":  c.FullPath(),
		"userID": c.GetString("user_id"),
		"error":  err.Error(),
	}
	if extra != "" {
		fields["extra"] = extra
	}
	logs.LogJSON(level, logMessage, fields)
}
