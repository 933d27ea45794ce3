package user

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"VitalTrack_V1.0/internal/database"
	"VitalTrack_V1.0/internal/metrics"
	"VitalTrack_V1.0/internal/utility"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type WeightRequest struct {
	Weight     float64    `json:"weight" form:"weight"` // pounds
	RecordedAt *time.Time `json:"recorded_at" form:"recorded_at"`
}

type BloodPressureRequest struct {
	Systolic   int        `json:"systolic" form:"systolic"`
	Diastolic  int        `json:"diastolic" form:"diastolic"`
	Pulse      int        `json:"pulse" form:"pulse"`
	RecordedAt *time.Time `json:"recorded_at" form:"recorded_at"`
}

/* =================================================================================
                                WEIGHT RECORDS
=================================================================================*/

// AddWeightHandler stores one weight reading and pokes the live dashboard.
func AddWeightHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req WeightRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.Weight <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Weight must be positive"})
	}

	recordedAt := time.Now()
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	record, err := queries.InsertWeight(ctx, database.InsertWeightParams{
		UserID:     userID,
		Weight:     req.Weight,
		RecordedAt: recordedAt,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to insert weight record")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save record"})
	}

	utility.TriggerVitalsUpdate(userID)
	return c.JSON(http.StatusCreated, record)
}

// ListWeightHandler returns the full weight history, newest first.
func ListWeightHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	records, err := queries.ListWeightRecords(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list weight records")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load records"})
	}
	if records == nil {
		records = []database.WeightRecord{}
	}

	return c.JSON(http.StatusOK, records)
}

// DeleteWeightHandler removes a record the caller owns.
func DeleteWeightHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	recordID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid record ID"})
	}

	if err := queries.DeleteWeightRecord(ctx, recordID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Record not found"})
		}
		log.Error().Err(err).Msg("Failed to delete weight record")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete record"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Record deleted"})
}

// WeightStatsHandler summarizes the readings inside a time window given by
// ?period= (day, week, month, year; default week).
func WeightStatsHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	period := metrics.Period(c.QueryParam("period"))
	if period == "" {
		period = metrics.PeriodWeek
	}
	lookback, err := period.Lookback()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid period"})
	}

	records, err := queries.WeightHistory(ctx, userID, time.Now().Add(-lookback))
	if err != nil {
		log.Error().Err(err).Msg("Failed to load weight history")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load records"})
	}

	readings := make([]metrics.WeightReading, len(records))
	values := make([]float64, len(records))
	for i, r := range records {
		readings[i] = metrics.WeightReading{Weight: r.Weight, RecordedAt: r.RecordedAt}
		values[i] = r.Weight
	}

	stats, err := metrics.SummarizeWeights(readings)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "No records in this period"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"period": period,
		"stats":  stats,
		"trend":  metrics.ComputeTrend(values),
	})
}

/* =================================================================================
                            BLOOD PRESSURE RECORDS
=================================================================================*/

// AddBloodPressureHandler validates and stores one blood pressure reading.
func AddBloodPressureHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req BloodPressureRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if err := metrics.ValidateReading(req.Systolic, req.Diastolic, req.Pulse); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	recordedAt := time.Now()
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	record, err := queries.InsertBloodPressure(ctx, database.InsertBloodPressureParams{
		UserID:     userID,
		Systolic:   int32(req.Systolic),
		Diastolic:  int32(req.Diastolic),
		Pulse:      int32(req.Pulse),
		RecordedAt: recordedAt,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to insert blood pressure record")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save record"})
	}

	utility.TriggerVitalsUpdate(userID)

	// The stored row plus its classification, so clients can render the stage
	// without a second round trip.
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"record": record,
		"stage":  metrics.ClassifyBloodPressure(req.Systolic, req.Diastolic),
	})
}

// ListBloodPressureHandler returns the full BP history, newest first.
func ListBloodPressureHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	records, err := queries.ListBloodPressureRecords(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list blood pressure records")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load records"})
	}
	if records == nil {
		records = []database.BloodPressureRecord{}
	}

	return c.JSON(http.StatusOK, records)
}

// DeleteBloodPressureHandler removes a record the caller owns.
func DeleteBloodPressureHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	recordID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid record ID"})
	}

	if err := queries.DeleteBloodPressureRecord(ctx, recordID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Record not found"})
		}
		log.Error().Err(err).Msg("Failed to delete blood pressure record")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete record"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Record deleted"})
}

// BloodPressureStatsHandler summarizes readings inside ?period= and reports
// the systolic trend across the window.
func BloodPressureStatsHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	period := metrics.Period(c.QueryParam("period"))
	if period == "" {
		period = metrics.PeriodWeek
	}
	lookback, err := period.Lookback()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid period"})
	}

	records, err := queries.BloodPressureHistory(ctx, userID, time.Now().Add(-lookback))
	if err != nil {
		log.Error().Err(err).Msg("Failed to load blood pressure history")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load records"})
	}

	readings := make([]metrics.BPReading, len(records))
	systolics := make([]float64, len(records))
	for i, r := range records {
		readings[i] = metrics.BPReading{
			Systolic:   int(r.Systolic),
			Diastolic:  int(r.Diastolic),
			Pulse:      int(r.Pulse),
			RecordedAt: r.RecordedAt,
		}
		systolics[i] = float64(r.Systolic)
	}

	stats, err := metrics.SummarizeReadings(readings)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "No records in this period"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"period": period,
		"stats":  stats,
		"trend":  metrics.ComputeTrend(systolics),
	})
}
