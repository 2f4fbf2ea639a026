package handler

import (
	"net/http"
	"strconv"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/intake"
	"leadflow_backend/internal/leads/service"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/httpkit"
	"leadflow_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, ingestLimiter gin.HandlerFunc) {
	rg.POST("/events", ingestLimiter, h.IngestEvent)
	rg.GET("/leads/:id", h.GetLead)
	rg.POST("/leads/:id/score", h.ScoreLead)
	rg.PATCH("/leads/:id/stage", h.SetStage)
	rg.DELETE("/leads/:id/stage", h.RemoveOverride)
	rg.GET("/leads/:id/stage-changes", h.ListStageChanges)
}

func (h *Handler) IngestEvent(c *gin.Context) {
	var req transport.IngestEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	res, err := h.svc.IngestEvent(c.Request.Context(), intake.RawEvent{
		BrandID:             httpkit.BrandID(c),
		Channel:             req.Channel,
		EventID:             req.EventID,
		ContactName:         req.ContactName,
		ContactPhone:        req.ContactPhone,
		ContactEmail:        req.ContactEmail,
		Sender:              req.Sender,
		Content:             req.Content,
		ConversationSummary: req.ConversationSummary,
		MessageCount:        req.MessageCount,
		BookingStatus:       req.BookingStatus,
		BookingDate:         req.BookingDate,
		BookingTime:         req.BookingTime,
		Timestamp:           req.Timestamp,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	httpkit.JSON(c, status, transport.IngestEventResponse{
		LeadID:    res.Lead.ID,
		Created:   res.Created,
		Duplicate: res.Duplicate,
	})
}

func (h *Handler) GetLead(c *gin.Context) {
	id, ok := h.leadID(c)
	if !ok {
		return
	}

	lead, override, err := h.svc.GetLead(c.Request.Context(), httpkit.BrandID(c), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewLeadResponse(lead, override))
}

func (h *Handler) ScoreLead(c *gin.Context) {
	id, ok := h.leadID(c)
	if !ok {
		return
	}

	outcome, err := h.svc.ScoreLead(c.Request.Context(), httpkit.BrandID(c), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ScoreResponse{
		LeadID:       outcome.Lead.ID,
		Score:        outcome.Result.Score,
		Breakdown:    outcome.Result.Breakdown,
		Stage:        outcome.Lead.LeadStage,
		SubStage:     outcome.Lead.SubStage,
		StageChanged: outcome.StageChanged,
		DaysInactive: outcome.Lead.DaysInactive,
	})
}

func (h *Handler) SetStage(c *gin.Context) {
	id, ok := h.leadID(c)
	if !ok {
		return
	}

	var req transport.SetStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.SetStage(c.Request.Context(), httpkit.BrandID(c), id, service.SetStageParams{
		Stage:     domain.Stage(req.Stage),
		SubStage:  domain.SubStage(req.SubStage),
		ChangedBy: req.ChangedBy,
		Reason:    req.Reason,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewLeadResponse(lead, nil))
}

func (h *Handler) RemoveOverride(c *gin.Context) {
	id, ok := h.leadID(c)
	if !ok {
		return
	}

	outcome, err := h.svc.RemoveOverride(c.Request.Context(), httpkit.BrandID(c), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ScoreResponse{
		LeadID:       outcome.Lead.ID,
		Score:        outcome.Result.Score,
		Breakdown:    outcome.Result.Breakdown,
		Stage:        outcome.Lead.LeadStage,
		SubStage:     outcome.Lead.SubStage,
		StageChanged: outcome.StageChanged,
		DaysInactive: outcome.Lead.DaysInactive,
	})
}

func (h *Handler) ListStageChanges(c *gin.Context) {
	id, ok := h.leadID(c)
	if !ok {
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			httpkit.Error(c, http.StatusBadRequest, "limit must be between 1 and 500", nil)
			return
		}
		limit = parsed
	}

	changes, err := h.svc.ListStageChanges(c.Request.Context(), httpkit.BrandID(c), id, limit)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.StageChangeResponse, 0, len(changes))
	for _, sc := range changes {
		out = append(out, transport.NewStageChangeResponse(sc))
	}
	httpkit.OK(c, out)
}

func (h *Handler) leadID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return uuid.Nil, false
	}
	return id, true
}
