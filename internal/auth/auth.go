package auth

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"VitalTrack_V1.0/internal/database"
	"VitalTrack_V1.0/internal/utility"
	"github.com/golang-jwt/jwt/v5"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const (
	AccessTokenDuration = 24 * time.Hour

	// codeCacheSize bounds the code -> user lookup cache. Logins are rare per
	// user so a small cache covers the active population.
	codeCacheSize = 1024
)

var (
	queries *database.Queries

	// codeCache short-circuits the DB lookup for recently seen access codes.
	// Evicted entries just fall through to Postgres.
	codeCache *lru.Cache[string, database.User]
)

type JwtCustomClaims struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Code string `json:"code" form:"code"`
}

type AuthResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int64         `json:"expires_in"`
	User        database.User `json:"user"`
}

// InitAuth wires the query layer in and verifies the signing secret exists.
// Called once from server setup.
func InitAuth(q *database.Queries) error {
	queries = q

	if os.Getenv("SESSION_SECRET") == "" {
		return fmt.Errorf("SESSION_SECRET environment variable is not set")
	}

	var err error
	codeCache, err = lru.New[string, database.User](codeCacheSize)
	if err != nil {
		return fmt.Errorf("failed to create code cache: %w", err)
	}
	return nil
}

// CodeLoginHandler exchanges an access code for a JWT. Codes are opaque
// lookup keys; rate limiting plus a random delay keeps enumeration slow.
func CodeLoginHandler(c echo.Context) error {
	ctx := c.Request().Context()

	ip := utility.GetRealIP(c)
	if err := utility.CheckIPRateLimit(ip); err != nil {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": err.Error()})
	}

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.Code == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Access code is required"})
	}

	// Uniform response timing whether the code exists or not.
	utility.AddRandomDelay()

	user, ok := codeCache.Get(req.Code)
	if !ok {
		var err error
		user, err = queries.GetUserByCode(ctx, req.Code)
		if err != nil {
			log.Info().Str("ip", ip).Msg("Login attempt with unknown access code")
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid access code"})
		}
		codeCache.Add(req.Code, user)
	}

	token, err := generateAccessToken(&user)
	if err != nil {
		log.Error().Err(err).Msg("Failed to sign access token")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create session"})
	}

	return c.JSON(http.StatusOK, AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(AccessTokenDuration.Seconds()),
		User:        user,
	})
}

// JwtAuthMiddleware validates the Bearer token and loads the user ID into the
// context for handlers downstream.
func JwtAuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing bearer token"})
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		sessionSecret := os.Getenv("SESSION_SECRET")
		token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
			// Verify signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(sessionSecret), nil
		})
		if err != nil || !token.Valid {
			log.Info().Err(err).Msg("Token validation failed")
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
		}

		claims, ok := token.Claims.(*JwtCustomClaims)
		if !ok || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_name", claims.Name)
		return next(c)
	}
}

func generateAccessToken(user *database.User) (string, error) {
	claims := &JwtCustomClaims{
		UserID: user.ID,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(AccessTokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "vitaltrack",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	sessionSecret := os.Getenv("SESSION_SECRET")
	return token.SignedString([]byte(sessionSecret))
}
