package http

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/dwarvesf/justthetip/internal/consts"
	"github.com/dwarvesf/justthetip/internal/monitoring"
	"github.com/dwarvesf/justthetip/internal/ratelimit"
	"github.com/dwarvesf/justthetip/internal/utils/logger"
	"github.com/dwarvesf/justthetip/internal/validation"
	"github.com/dwarvesf/justthetip/internal/view"
)

var (
	errMissingToken   = errors.New("missing bearer token")
	errInvalidToken   = errors.New("invalid token")
	errAuthDisabled   = errors.New("authentication is not configured")
	errForbiddenRole  = errors.New("role is not allowed on this route")
	errRateLimited    = errors.New("rate limited")
	errLimiterOffline = errors.New("rate limiter unavailable")
)

// Claims is the token payload issued to the bot and to admins. Subject is the acting identity.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticate verifies the HS256 bearer token and stores the subject and role on the context.
func Authenticate(secret string, logger *logger.Logger) gin.HandlerFunc {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		if len(key) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, view.CreateResponse[any](nil, errAuthDisabled, nil, ""))
			return
		}

		parts := strings.Fields(c.GetHeader("Authorization"))
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, view.CreateResponse[any](nil, errMissingToken, nil, ""))
			return
		}

		claims := &Claims{}
		token, err := parser.ParseWithClaims(parts[1], claims, func(*jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			reason := "empty subject"
			if err != nil {
				reason = err.Error()
			}
			logger.Warn("[Authenticate][ParseWithClaims] rejected token", map[string]string{
				"path":  c.FullPath(),
				"error": reason,
			})
			c.AbortWithStatusJSON(http.StatusUnauthorized, view.CreateResponse[any](nil, errInvalidToken, nil, ""))
			return
		}

		c.Set(consts.ContextKeyActor, claims.Subject)
		c.Set(consts.ContextKeyRole, claims.Role)
		c.Next()
	}
}

// RequireRole admits the listed roles. Admins pass every role check.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(consts.ContextKeyRole)
		if role == consts.RoleAdmin {
			c.Next()
			return
		}
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, view.CreateResponse[any](nil, errForbiddenRole, nil, ""))
	}
}

// RateLimit consumes one commandType slot for the Discord user named in X-User-ID.
func RateLimit(limiter ratelimit.ILimiter, commandType string, recorder *monitoring.BusinessMetricsRecorder, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := validation.ValidateUserID(c.GetHeader(consts.HeaderUserID))
		if !userID.Valid {
			c.AbortWithStatusJSON(http.StatusBadRequest, view.CreateResponse[any](nil, errors.New(userID.Error), nil, "missing or invalid "+consts.HeaderUserID))
			return
		}

		decision, err := limiter.Check(c.Request.Context(), userID.Sanitized, commandType)
		if err != nil {
			logger.Error("[RateLimit][Check]", map[string]string{
				"command_type": commandType,
				"user_id":      userID.Sanitized,
				"error":        err.Error(),
			})
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, view.CreateResponse[any](nil, errLimiterOffline, nil, ""))
			return
		}

		if !decision.Allowed {
			recorder.RecordRateLimitRejection(commandType, decision.Scope)
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(decision)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, view.CreateResponse(decision, errRateLimited, nil, ""))
			return
		}

		c.Next()
	}
}

func retryAfterSeconds(decision ratelimit.Decision) int {
	seconds := int(math.Ceil(decision.RetryAfter.Seconds()))
	if seconds < 1 {
		return 1
	}
	return seconds
}
