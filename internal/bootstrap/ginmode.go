package bootstrap

import "github.com/gin-gonic/gin"

// SetGinMode switches gin to release mode in production and keeps its
// route debug output otherwise.
func SetGinMode(env string) {
	switch env {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
}
