package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jengzang/flight-demand-go/internal/config"
	"github.com/jengzang/flight-demand-go/internal/handler"
	"github.com/jengzang/flight-demand-go/internal/middleware"
	"github.com/jengzang/flight-demand-go/internal/service"
	"github.com/jengzang/flight-demand-go/internal/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, predictionService *service.PredictionService, log zerolog.Logger) (*gin.Engine, error) {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(log))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:   []string{middleware.RequestIDHeader},
	}))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Flight Demand Predictor is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	predictionHandler := handler.NewPredictionHandler(predictionService)
	limiter := middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window))

	r.GET("/", predictionHandler.ShowForm)
	r.POST("/predict", limiter, predictionHandler.SubmitForm)

	api := r.Group("/api/v1")
	{
		api.GET("/options", predictionHandler.GetOptions)
		api.POST("/predictions", limiter, predictionHandler.CreatePrediction)
	}

	return r, nil
}
