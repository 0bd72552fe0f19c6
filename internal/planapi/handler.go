package planapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/mmtuentertainment/payplan/core/config"
	"github.com/mmtuentertainment/payplan/core/entities"
	coreErrors "github.com/mmtuentertainment/payplan/core/errors"
	"github.com/mmtuentertainment/payplan/core/logger"
	"github.com/mmtuentertainment/payplan/core/metrics"
	"github.com/mmtuentertainment/payplan/internal/hashing"
	"github.com/mmtuentertainment/payplan/internal/idempotency"
	"github.com/mmtuentertainment/payplan/internal/ratelimit"
)

// errTooLarge is returned when the request body exceeds MaxRequestBodyBytes
// (spec §4.C15 step 5).
var errTooLarge = errors.New("request body exceeds the maximum allowed size")

// Handler serves POST /api/plan, wired the way the teacher wires a feature handler
// (features/presets/presentation/handlers): one struct with injected collaborators, one
// method per route (spec §4.C15).
type Handler struct {
	logger      logger.Logger
	validate    *validator.Validate
	limiter     *ratelimit.Limiter
	idempotency *idempotency.Store
	maxBodyBytes int64
}

// NewHandler builds a Handler for fx DI.
func NewHandler(log logger.Logger, cfg *config.AppConfig, limiter *ratelimit.Limiter, idem *idempotency.Store) *Handler {
	return &Handler{
		logger:       log,
		validate:     validator.New(),
		limiter:      limiter,
		idempotency:  idem,
		maxBodyBytes: cfg.MaxRequestBodyBytes,
	}
}

// Plan handles POST /api/plan end to end (spec §4.C15 steps 2-10). CORS/OPTIONS (step 1)
// is handled by the CORS middleware and router registration, not here.
func (h *Handler) Plan(c *gin.Context) {
	ctx := c.Request.Context()
	instance := c.Request.URL.Path
	identifier := c.ClientIP()

	decision := h.limiter.Allow(ctx, identifier)
	h.setRateLimitHeaders(c, decision)
	if !decision.Allowed {
		metrics.RateLimitDecisions.WithLabelValues("denied").Inc()
		c.Header("Retry-After", strconv.FormatInt(decision.RetryAfterSec, 10))
		h.respondProblem(c, instance, coreErrors.RateLimitedError("Rate limit exceeded."))
		return
	}
	metrics.RateLimitDecisions.WithLabelValues("allowed").Inc()

	if c.Request.Method != http.MethodPost {
		h.respondProblem(c, instance, coreErrors.MethodNotAllowedError("Only POST is supported on this endpoint."))
		return
	}

	body, err := h.readBody(c)
	if err != nil {
		h.respondProblem(c, instance, coreErrors.ValidationError("body", err.Error()))
		return
	}

	var req PlanRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.respondProblem(c, instance, coreErrors.ValidationError("body", "malformed JSON: "+err.Error()))
		return
	}

	bodyHash, err := hashing.HashHex(json.RawMessage(body))
	if err != nil {
		h.respondProblem(c, instance, coreErrors.ValidationError("body", "failed to canonicalize request body: "+err.Error()))
		return
	}
	idempotencyKey := c.GetHeader("Idempotency-Key")
	if idempotencyKey != "" {
		outcome, rec, err := h.idempotency.Lookup(ctx, c.Request.Method, c.Request.URL.Path, idempotencyKey, bodyHash)
		if errors.Is(err, idempotency.ErrMalformedRecord) {
			h.respondProblem(c, instance, coreErrors.CacheValidationError("Stored idempotency record is malformed.", err))
			return
		}
		switch outcome {
		case idempotency.Hit:
			metrics.IdempotencyOutcomes.WithLabelValues("hit").Inc()
			c.Header("X-Idempotent-Replayed", "true")
			c.Data(http.StatusOK, "application/json", rec.Response)
			return
		case idempotency.Conflict:
			metrics.IdempotencyOutcomes.WithLabelValues("conflict").Inc()
			h.respondProblem(c, instance, coreErrors.IdempotencyConflictError(
				"Idempotency-Key was reused with a different request body within the TTL window ("+h.idempotency.TTL().String()+")."))
			return
		default:
			metrics.IdempotencyOutcomes.WithLabelValues("miss").Inc()
		}
	}

	if err := h.validate.Struct(&req); err != nil {
		h.respondValidationError(c, instance, err)
		return
	}
	loc, err := validatePlanFields(&req)
	if err != nil {
		h.respondValidationError(c, instance, err)
		return
	}

	resp, err := RunPipeline(&req, loc, time.Now())
	if err != nil {
		h.respondValidationError(c, instance, err)
		return
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		appErr := coreErrors.InternalError(err)
		h.logger.LogError(ctx, "failed to marshal plan response", err)
		h.respondProblem(c, instance, appErr)
		return
	}

	if idempotencyKey != "" {
		if err := h.idempotency.Store(ctx, c.Request.Method, c.Request.URL.Path, idempotencyKey, bodyHash, payload); err != nil {
			h.logger.LogError(ctx, "idempotency store failed", err)
		}
	}

	c.Data(http.StatusOK, "application/json", payload)
}

func (h *Handler) readBody(c *gin.Context) ([]byte, error) {
	limit := h.maxBodyBytes
	if limit <= 0 {
		limit = 1 << 20
	}
	reader := io.LimitReader(c.Request.Body, limit+1)
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, errTooLarge
	}
	return body, nil
}

func (h *Handler) setRateLimitHeaders(c *gin.Context, d ratelimit.Decision) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(d.ResetEpochSec, 10))
}

// respondValidationError renders either a ValidationFieldError or a validator.
// ValidationErrors as a 400 Problem Details pointing at the offending field.
func (h *Handler) respondValidationError(c *gin.Context, instance string, err error) {
	if fe, ok := err.(*ValidationFieldError); ok {
		appErr := coreErrors.ValidationError(fe.Field, fe.Detail)
		h.respondProblem(c, instance, appErr)
		return
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		appErr := coreErrors.ValidationError(fe.Field(), "failed on the '"+fe.Tag()+"' rule")
		h.respondProblem(c, instance, appErr)
		return
	}
	h.respondProblem(c, instance, coreErrors.ValidationError("body", err.Error()))
}

func (h *Handler) respondProblem(c *gin.Context, instance string, appErr *coreErrors.AppError) {
	if appErr.Type == entities.ErrInternal {
		h.logger.LogError(c.Request.Context(), "internal error serving plan request", appErr)
	}
	problem := coreErrors.NewProblemDetails(appErr, c.Request.Host, instance)
	c.Data(problem.Status, coreErrors.ContentType, mustMarshal(problem))
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte(`{"title":"Internal Error","status":500,"detail":"failed to render error"}`)
	}
	return b
}
