package bootstrap

import (
	"io"

	"github.com/gin-gonic/gin"
)

// SetGinMode switches gin to release mode in production and silences its
// default writers; request logging goes through zap.
func SetGinMode(production bool) {
	if production {
		gin.SetMode(gin.ReleaseMode)
		gin.DefaultWriter = io.Discard
	}
}
