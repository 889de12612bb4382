package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/S-Corkum/sae-inference/internal/sae"
	"github.com/S-Corkum/sae-inference/pkg/models"
	"github.com/S-Corkum/sae-inference/pkg/observability"
	"github.com/gin-gonic/gin"
)

// Client-facing messages for malformed requests
const (
	MsgInvalidRequestBody = "Invalid request body"
	MsgInvalidLimit       = "Invalid limit"
	MsgBodyTooLarge       = "Request body too large"
)

// ErrorResponse is the body of every error answer
type ErrorResponse struct {
	Error string `json:"error"`
}

// SAEAPI handles the SAE endpoints
type SAEAPI struct {
	engine  *sae.Engine
	logger  observability.Logger
	metrics observability.MetricsClient
	maxBody int64
}

// NewSAEAPI creates a new SAE API handler. Request bodies larger than
// maxBody bytes are rejected; 0 means no cap.
func NewSAEAPI(engine *sae.Engine, logger observability.Logger, metrics observability.MetricsClient, maxBody int64) *SAEAPI {
	return &SAEAPI{
		engine:  engine,
		logger:  logger.WithPrefix("sae-api"),
		metrics: metrics,
		maxBody: maxBody,
	}
}

// RegisterRoutes registers the SAE routes on the given group
func (api *SAEAPI) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/sae")
	group.POST("/encode", api.encode)
	group.GET("/feature/:feature_id", api.feature)
	group.GET("/search", api.search)
}

// encode godoc
// @Summary Encode text into SAE features
// @Tags sae
// @Accept json
// @Produce json
// @Param request body sae.EncodeRequest true "Text and optional layer"
// @Success 200 {object} models.EncodingResult
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /sae/encode [post]
func (api *SAEAPI) encode(c *gin.Context) {
	if api.maxBody > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, api.maxBody)
	}

	var req sae.EncodeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: MsgBodyTooLarge})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgInvalidRequestBody})
		return
	}

	start := time.Now()
	result, err := api.engine.EncodeText(c.Request.Context(), req)
	api.metrics.RecordOperation(sae.OpEncode, err == nil, time.Since(start))
	if err != nil {
		api.writeError(c, err)
		return
	}

	api.metrics.RecordActiveFeatures(result.TotalFeatures)
	c.JSON(http.StatusOK, result)
}

// feature godoc
// @Summary Describe a single SAE feature
// @Tags sae
// @Produce json
// @Param feature_id path int true "Feature id in [0, 16384)"
// @Success 200 {object} models.FeatureMetadata
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /sae/feature/{feature_id} [get]
func (api *SAEAPI) feature(c *gin.Context) {
	featureID, err := strconv.Atoi(c.Param("feature_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: sae.MsgInvalidFeatureID})
		return
	}

	start := time.Now()
	metadata, err := api.engine.LookupFeature(c.Request.Context(), featureID)
	api.metrics.RecordOperation(sae.OpFeature, err == nil, time.Since(start))
	if err != nil {
		api.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, metadata)
}

// search godoc
// @Summary Search SAE features
// @Description Ranking is independent of the query text.
// @Tags sae
// @Produce json
// @Param query query string true "Search query"
// @Param limit query int false "Maximum results, default 20, capped at 100"
// @Success 200 {object} models.SearchResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /sae/search [get]
func (api *SAEAPI) search(c *gin.Context) {
	req := sae.SearchRequest{Query: c.Query("query")}

	if raw, ok := c.GetQuery("limit"); ok && raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgInvalidLimit})
			return
		}
		req.Limit = &limit
	}

	start := time.Now()
	result, err := api.engine.SearchFeatures(c.Request.Context(), req)
	api.metrics.RecordOperation(sae.OpSearch, err == nil, time.Since(start))
	if err != nil {
		api.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// writeError maps engine errors to status codes
func (api *SAEAPI) writeError(c *gin.Context, err error) {
	var saeErr *sae.Error
	if !errors.As(err, &saeErr) {
		saeErr = sae.NewInternalError("unknown", err)
	}

	if saeErr.Kind == sae.KindValidation {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: saeErr.Message})
		return
	}

	_ = c.Error(err)
	api.logger.Error("SAE operation failed", map[string]interface{}{
		"operation":  saeErr.Op,
		"error":      saeErr.Message,
		"request_id": c.GetString(requestIDKey),
	})
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: saeErr.Message})
}

// healthHandler reports liveness
//
// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthStatus
// @Router /health [get]
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthStatus{
		Status:  "healthy",
		Service: ServiceName,
	})
}
