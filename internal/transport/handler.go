package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"go-model-comparator/internal/catalog"
	"go-model-comparator/internal/config"
	apperrors "go-model-comparator/internal/errors"
	"go-model-comparator/internal/logger"
	"go-model-comparator/internal/metrics"
	"go-model-comparator/pkg/models"
)

// Comparator is the boundary the HTTP layer consumes; the comparison engine
// implements it.
type Comparator interface {
	Compare(ctx context.Context, imageData []byte, contentType string, configs []models.ModelConfig) (*models.ComparisonResponse, error)
	AvailableModels() map[string]catalog.ProviderListing
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func NewHandler(comparator Comparator, cfg *config.Config) http.Handler {
	r := gin.New()

	r.Use(
		gin.Recovery(),
		requestID(),
		metrics.Middleware(),
		requestSizeLimiter(cfg.MaxUploadSize),
	)

	r.GET("/health", healthCheck)
	r.GET("/available-models", listModels(comparator))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/compare-models", compareModels(comparator, cfg))

	return r
}

func compareModels(comparator Comparator, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		fileHeader, err := c.FormFile("image")
		if err != nil {
			respondError(c, http.StatusBadRequest, "missing image upload", err)
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			respondError(c, http.StatusBadRequest, "failed to open image upload", err)
			return
		}
		imageData, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			respondError(c, http.StatusBadRequest, "failed to read image upload", err)
			return
		}

		modelsField := c.PostForm("models")
		if modelsField == "" {
			respondError(c, http.StatusBadRequest, "missing models configuration", nil)
			return
		}
		var configs []models.ModelConfig
		if err := json.Unmarshal([]byte(modelsField), &configs); err != nil {
			respondError(c, http.StatusBadRequest, "invalid models configuration", err)
			return
		}

		logger.WithFields(logrus.Fields{
			"request_id":  c.GetString(requestIDKey),
			"model_count": len(configs),
			"image_size":  len(imageData),
			"ip":          c.ClientIP(),
		}).Info("Processing model comparison request")

		response, err := comparator.Compare(ctx, imageData, fileHeader.Header.Get("Content-Type"), configs)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "comparison failed", err)
			return
		}

		logger.WithFields(logrus.Fields{
			"request_id":         c.GetString(requestIDKey),
			"model_count":        len(response.Results),
			"winner":             response.Summary.Winner,
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		}).Info("Model comparison completed")

		c.JSON(http.StatusOK, response)
	}
}

func listModels(comparator Comparator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, comparator.AvailableModels())
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"service": "model-comparator",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

const requestIDKey = "request_id"

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"request_id":  c.GetString(requestIDKey),
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	detail := message
	if err != nil {
		detail = fmt.Sprintf("%s: %v", message, err)
	}
	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: detail,
	})
}
