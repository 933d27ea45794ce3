package user

import (
	"errors"
	"net/http"

	"VitalTrack_V1.0/internal/analysis"
	"VitalTrack_V1.0/internal/metrics"
	"VitalTrack_V1.0/internal/utility"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type CheckBPRequest struct {
	Systolic  int `json:"systolic" form:"systolic"`
	Diastolic int `json:"diastolic" form:"diastolic"`
}

type CheckBMIRequest struct {
	Weight float64 `json:"weight" form:"weight"` // pounds
	Height float64 `json:"height" form:"height"` // centimeters
}

// CheckBloodPressureHandler classifies a reading without storing it.
func CheckBloodPressureHandler(c echo.Context) error {
	var req CheckBPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	return c.JSON(http.StatusOK, metrics.ClassifyBloodPressure(req.Systolic, req.Diastolic))
}

// CheckBMIHandler computes BMI and its category without storing anything.
func CheckBMIHandler(c echo.Context) error {
	var req CheckBMIRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	bmi, err := metrics.CalculateBMI(req.Weight, req.Height)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Weight and height must be positive"})
	}

	category := metrics.CategorizeBMI(bmi)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"bmi":      bmi,
		"category": category.Category,
		"color":    category.Color,
	})
}

// GenerateAnalysisHandler runs the full analysis pipeline for the caller.
// A failed remote call still returns 200 with the offline narrative; only
// missing data and storage failures are errors.
func GenerateAnalysisHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	user, err := queries.GetUserByID(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load user for analysis")
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}

	result, err := pipeline.Generate(ctx, user.Code)
	if err != nil {
		if errors.Is(err, analysis.ErrInsufficientData) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{
				"error": "Please record both weight and blood pressure measurements to generate health analysis.",
			})
		}
		log.Error().Err(err).Msg("Analysis pipeline failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate analysis"})
	}

	return c.JSON(http.StatusOK, result)
}
