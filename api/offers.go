package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/offercheck/internal/domain"
	"github.com/Domenick1991/offercheck/internal/repository"
	"github.com/Domenick1991/offercheck/internal/schema"
	"github.com/Domenick1991/offercheck/internal/service/offers"
)

const defaultMaxBodyBytes = 8 << 20

type OfferHandler struct {
	service      offers.OfferUseCase
	maxBodyBytes int64
}

func NewOfferHandler(service offers.OfferUseCase) *OfferHandler {
	return &OfferHandler{service: service, maxBodyBytes: defaultMaxBodyBytes}
}

func (h *OfferHandler) Register(router *gin.RouterGroup) {
	router.POST("/offers/validate", h.validate)
	router.POST("/offers/validate/batch", h.validateBatch)
	router.POST("/offers/normalize", h.normalize)
	router.GET("/reports/:id", h.getReport)
}

type BatchRequest struct {
	Payloads []json.RawMessage `json:"payloads"`
}

type BatchResponse struct {
	Items []offers.BatchItem `json:"items"`
}

func (h *OfferHandler) validate(c *gin.Context) {
	raw, ok := h.readBody(c)
	if !ok {
		return
	}
	outcome, err := h.service.Validate(c.Request.Context(), raw)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.PureJSON(http.StatusOK, outcome)
}

// normalize answers with the canonical document itself, or with the
// report when the payload is Invalid.
func (h *OfferHandler) normalize(c *gin.Context) {
	raw, ok := h.readBody(c)
	if !ok {
		return
	}
	outcome, err := h.service.Validate(c.Request.Context(), raw)
	if err != nil {
		h.fail(c, err)
		return
	}
	if outcome.Report.Status == domain.StatusInvalid {
		c.JSON(http.StatusUnprocessableEntity, outcome.Report)
		return
	}
	c.Header("X-Report-ID", outcome.Report.ID)
	c.Header("X-Report-Status", string(outcome.Report.Status))
	c.Data(http.StatusOK, "application/json", outcome.Canonical)
}

func (h *OfferHandler) validateBatch(c *gin.Context) {
	raw, ok := h.readBody(c)
	if !ok {
		return
	}
	var req BatchRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("decode batch: %w", err))
		return
	}
	if len(req.Payloads) == 0 {
		respondError(c, http.StatusBadRequest, "invalid_request", errors.New("payloads must not be empty"))
		return
	}

	payloads := make([][]byte, len(req.Payloads))
	for i, p := range req.Payloads {
		payloads[i] = p
	}
	items, err := h.service.ValidateBatch(c.Request.Context(), payloads)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.PureJSON(http.StatusOK, BatchResponse{Items: items})
}

func (h *OfferHandler) getReport(c *gin.Context) {
	report, err := h.service.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *OfferHandler) readBody(c *gin.Context) ([]byte, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, "payload_too_large", err)
			return nil, false
		}
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return nil, false
	}
	if len(raw) == 0 {
		respondError(c, http.StatusBadRequest, "invalid_request", errors.New("request body is empty"))
		return nil, false
	}
	return raw, true
}

func (h *OfferHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, schema.ErrMalformedDocument):
		respondError(c, http.StatusBadRequest, "malformed_document", err)
	case errors.Is(err, repository.ErrReportNotFound):
		respondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, offers.ErrNoReportStore):
		respondError(c, http.StatusServiceUnavailable, "unavailable", err)
	default:
		respondError(c, http.StatusInternalServerError, "internal", err)
	}
}
