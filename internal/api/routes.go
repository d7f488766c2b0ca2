package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter creates the engine with panic recovery. Forwarded client
// addresses are only honoured from trustedProxies; nil trusts none.
func NewRouter(trustedProxies []string, logger *logrus.Logger) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	router.Use(Recovery(logger))
	return router, nil
}

func SetupRoutes(router *gin.Engine, handler *Handler, metrics http.Handler, allowedOrigins []string, logger *logrus.Logger) {
	router.Use(RequestID(), RequestLogger(logger), CORS(allowedOrigins))

	router.GET("/", handler.HealthCheck)
	router.POST("/predict", handler.Predict)
	router.POST("/prod/predict", handler.Predict)
	router.GET("/artifacts", handler.GetArtifactLoads)

	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}
}
