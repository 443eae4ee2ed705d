package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"wager-settlement/internal/metrics"
	"wager-settlement/pkg/apperror"
	"wager-settlement/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// HeaderUserID carries the caller identity set by the upstream gateway.
	HeaderUserID    = "X-User-ID"
	HeaderRequestID = "X-Request-ID"
	HeaderSignature = "X-Signature"
	HeaderTimestamp = "X-Timestamp"

	// Max timestamp drift allowed on provider callbacks
	maxTimestampDrift = 5 * time.Minute

	// Context keys
	CtxUserID    = "user_id"
	CtxRequestID = "request_id"
)

var userIDRe = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]{1,64}$`)

// RequestID propagates or assigns a request id.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(CtxRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequireUser reads the caller identity from X-User-ID.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(HeaderUserID)
		if !userIDRe.MatchString(userID) {
			response.Error(c, apperror.ErrUnauthenticated())
			c.Abort()
			return
		}
		c.Set(CtxUserID, userID)
		c.Next()
	}
}

// UserID returns the identity stored by RequireUser.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// VerifySignature checks provider callbacks signed with HMAC-SHA256 over
// "<timestamp>.<body>". An empty secret disables verification.
func VerifySignature(secret string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		signature := c.GetHeader(HeaderSignature)
		timestampStr := c.GetHeader(HeaderTimestamp)
		if signature == "" || timestampStr == "" {
			response.Error(c, apperror.ErrInvalidSignature())
			c.Abort()
			return
		}

		timestamp, err := strconv.ParseInt(timestampStr, 10, 64)
		if err != nil || math.Abs(float64(time.Now().Unix()-timestamp)) > maxTimestampDrift.Seconds() {
			response.Error(c, apperror.ErrInvalidSignature())
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.Error(c, apperror.Validation("cannot read request body"))
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

		if !hmac.Equal([]byte(Sign(secret, timestamp, body)), []byte(signature)) {
			log.Warn().Str("path", c.Request.URL.Path).Msg("webhook signature mismatch")
			response.Error(c, apperror.ErrInvalidSignature())
			c.Abort()
			return
		}
		c.Next()
	}
}

// Sign computes the hex signature a provider sends for body at timestamp.
func Sign(secret string, timestamp int64, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		userID, _ := UserID(c)
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Str("user_id", userID).
			Str("request_id", c.GetString(CtxRequestID)).
			Msg("http request")
	}
}

// Metrics records request counts and latency by route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTP(path, c.Request.Method, c.Writer.Status(), start)
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error_code": apperror.CodeInternal,
					"message":    "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// MaxBodySize rejects request bodies larger than maxBytes with 413.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
