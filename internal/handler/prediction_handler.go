package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/flight-demand-go/internal/forecast"
	"github.com/jengzang/flight-demand-go/internal/models"
	"github.com/jengzang/flight-demand-go/internal/service"
	"github.com/jengzang/flight-demand-go/internal/web"
	"github.com/jengzang/flight-demand-go/pkg/response"
)

// PredictionRequest is the body of POST /api/v1/predictions.
type PredictionRequest struct {
	Route     string `json:"route" form:"route" binding:"required"`
	FlightDay string `json:"flight_day" form:"flight_day" binding:"required"`
}

// PredictionHandler handles HTTP requests for demand predictions
type PredictionHandler struct {
	predictionService *service.PredictionService
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(predictionService *service.PredictionService) *PredictionHandler {
	return &PredictionHandler{
		predictionService: predictionService,
	}
}

// GetOptions handles GET /api/v1/options
func (h *PredictionHandler) GetOptions(c *gin.Context) {
	response.Success(c, h.predictionService.Options())
}

// CreatePrediction handles POST /api/v1/predictions
func (h *PredictionHandler) CreatePrediction(c *gin.Context) {
	var req PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "route and flight_day are required")
		return
	}

	prediction, err := h.predictionService.Predict(c.Request.Context(), req.Route, req.FlightDay)
	if err != nil {
		c.Error(err)
		switch {
		case errors.Is(err, forecast.ErrRouteNotFound):
			response.NotFound(c, notFoundMessage(req.Route))
		case errors.Is(err, forecast.ErrInvalidDay):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, "prediction failed")
		}
		return
	}

	response.Success(c, prediction)
}

type pageData struct {
	Options       models.PredictionOptions
	SelectedRoute string
	SelectedDay   string
	Prediction    *models.Prediction
	Error         string
}

// ShowForm handles GET /: the form with no prediction yet.
func (h *PredictionHandler) ShowForm(c *gin.Context) {
	c.HTML(http.StatusOK, web.IndexTemplate, pageData{
		Options:     h.predictionService.Options(),
		SelectedDay: string(models.Monday),
	})
}

// SubmitForm handles POST /predict from the sidebar form.
func (h *PredictionHandler) SubmitForm(c *gin.Context) {
	var req PredictionRequest
	data := pageData{Options: h.predictionService.Options()}

	if err := c.ShouldBind(&req); err != nil {
		data.Error = "Select a route and a flight day."
		c.HTML(http.StatusBadRequest, web.IndexTemplate, data)
		return
	}
	data.SelectedRoute = req.Route
	data.SelectedDay = req.FlightDay

	prediction, err := h.predictionService.Predict(c.Request.Context(), req.Route, req.FlightDay)
	if err != nil {
		c.Error(err)
		switch {
		case errors.Is(err, forecast.ErrRouteNotFound):
			data.Error = notFoundMessage(req.Route)
			c.HTML(http.StatusNotFound, web.IndexTemplate, data)
		case errors.Is(err, forecast.ErrInvalidDay):
			data.Error = "Unknown flight day: " + req.FlightDay
			c.HTML(http.StatusBadRequest, web.IndexTemplate, data)
		default:
			data.Error = "The prediction could not be completed."
			c.HTML(http.StatusInternalServerError, web.IndexTemplate, data)
		}
		return
	}

	data.Prediction = prediction
	c.HTML(http.StatusOK, web.IndexTemplate, data)
}

func notFoundMessage(route string) string {
	return "No data available for the selected route: " + route
}
