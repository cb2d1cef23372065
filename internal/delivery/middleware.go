package delivery

import (
	"errors"
	"strconv"
	"time"

	"shop_service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Identity is the resolved caller supplied by the auth collaborator. The
// gateway terminates credentials; this service trusts the forwarded
// headers and never re-validates them.
type Identity struct {
	UserID int
	Role   domain.Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == domain.RoleAdmin
}

var errMissingIdentity = errors.New("missing or invalid caller identity")

// resolveIdentity reads the forwarded identity headers. It is called
// explicitly by handlers that need an actor; nothing is stashed on shared
// request state.
func resolveIdentity(c *gin.Context) (Identity, error) {
	userIDHeader := c.GetHeader("X-User-ID")
	if userIDHeader == "" {
		return Identity{}, errMissingIdentity
	}
	userID, err := strconv.Atoi(userIDHeader)
	if err != nil || userID <= 0 {
		return Identity{}, errMissingIdentity
	}

	role := domain.Role(c.GetHeader("X-User-Role"))
	if role != domain.RoleAdmin {
		role = domain.RoleUser
	}

	return Identity{UserID: userID, Role: role}, nil
}

func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", requestID)

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"remote_ip":  c.ClientIP(),
			"request_id": requestID,
		}).Info("Incoming request")

		c.Next()

		latency := time.Since(startTime)
		statusCode := c.Writer.Status()

		entry := logger.WithFields(logrus.Fields{
			"status_code": statusCode,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"latency_ms":  latency.Milliseconds(),
			"request_id":  requestID,
		})

		switch {
		case statusCode >= 500:
			entry.Error("Request completed with server error")
		case statusCode >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}
