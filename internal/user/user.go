package user

import (
	"net/http"

	"VitalTrack_V1.0/internal/analysis"
	"VitalTrack_V1.0/internal/database"
	"VitalTrack_V1.0/internal/utility"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

var (
	queries  *database.Queries
	pipeline *analysis.Pipeline
)

// InitUserPackage prepares the package for operation by wiring in the query
// layer and the analysis pipeline.
func InitUserPackage(q *database.Queries, p *analysis.Pipeline) {
	queries = q
	pipeline = p
}

// accessCodeBytes sized so codes are 16 hex characters, short enough to type.
const accessCodeBytes = 8

type RegisterRequest struct {
	Name   string  `json:"name" form:"name"`
	Age    int32   `json:"age" form:"age"`
	Height float64 `json:"height" form:"height"` // centimeters
	Code   string  `json:"code" form:"code"`     // optional, generated when absent
}

// RegisterHandler creates an account. The returned access code is the only
// credential; clients must store it.
func RegisterHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Name is required"})
	}
	if req.Age <= 0 || req.Age > 130 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Age must be between 1 and 130"})
	}
	if req.Height <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Height must be positive"})
	}

	code := req.Code
	if code == "" {
		var err error
		code, err = utility.GenerateSecureToken(accessCodeBytes)
		if err != nil {
			log.Error().Err(err).Msg("Failed to generate access code")
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create account"})
		}
	}

	created, err := queries.CreateUser(ctx, database.CreateUserParams{
		Name:   req.Name,
		Age:    req.Age,
		Height: req.Height,
		Code:   code,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create user")
		return c.JSON(http.StatusConflict, map[string]string{"error": "Name or code already in use"})
	}

	return c.JSON(http.StatusCreated, created)
}

// GetUserProfileHandler returns the authenticated user's profile.
func GetUserProfileHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	user, err := queries.GetUserByID(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch user profile")
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}

	return c.JSON(http.StatusOK, user)
}
