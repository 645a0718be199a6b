package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"esklenchen/server/config"
	"esklenchen/server/internal/leads"
	"esklenchen/server/internal/metrics"
	"esklenchen/server/internal/models"
	"esklenchen/server/internal/queue"
	"esklenchen/server/internal/valuation"
)

const (
	serviceName    = "ESKLENCHEN Complete"
	serviceVersion = "2.0.0"

	// Upper bound for a synchronous save when the lead queue is saturated.
	syncSaveTimeout = 5 * time.Second
)

type Handler struct {
	cfg       *config.Config
	scorer    *valuation.Scorer
	locator   valuation.Locator
	leadQueue *queue.LeadQueue
	store     leads.Store
	metrics   *metrics.Metrics
	logger    *logrus.Logger
	now       func() time.Time
}

func NewHandler(cfg *config.Config, scorer *valuation.Scorer, locator valuation.Locator, leadQueue *queue.LeadQueue, store leads.Store, m *metrics.Metrics, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		cfg:       cfg,
		scorer:    scorer,
		locator:   locator,
		leadQueue: leadQueue,
		store:     store,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"service":    serviceName,
		"version":    serviceVersion,
		"timestamp":  h.now().Format(time.RFC3339),
		"go_version": runtime.Version(),
		"features": gin.H{
			"frontend":      "React 18 + Vite",
			"backend":       "Go + Gin",
			"ai_analysis":   "Enabled",
			"crm":           "Enabled",
			"multilenguaje": "ES/EN/CA",
		},
		"markets": valuation.Locations(),
		"contact": h.cfg.Contact,
	})
}

func (h *Handler) HandleContact(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.WithError(err).Error("Failed to parse contact request")
		h.metrics.ObserveInvalidRequest("contact")
		h.fail(c, http.StatusBadRequest, "Error procesando mensaje")
		return
	}

	lead := models.NewContactLead(req, h.now())
	h.logger.WithFields(logrus.Fields{
		"lead_id": lead.ID,
		"name":    lead.Name,
		"email":   lead.Email,
		"source":  lead.Source,
	}).Info("Contact received")

	if err := h.captureLead(c.Request.Context(), lead); err != nil {
		h.logger.WithError(err).WithField("lead_id", lead.ID).Error("Failed to store contact")
		h.fail(c, http.StatusInternalServerError, "Error procesando mensaje")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Mensaje recibido correctamente. Te contactaremos en las próximas 24 horas.",
		"contact_info": h.cfg.Contact,
	})
}

func (h *Handler) HandleRenovationProposal(c *gin.Context) {
	var req models.RenovationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.WithError(err).Error("Failed to parse renovation proposal")
		h.metrics.ObserveInvalidRequest("renovation-proposal")
		h.fail(c, http.StatusBadRequest, "Error procesando propuesta")
		return
	}

	lead := models.NewRenovationLead(req, h.now())
	h.logger.WithFields(logrus.Fields{
		"lead_id": lead.ID,
		"name":    lead.Name,
		"phone":   lead.Phone,
		"address": lead.PropertyAddress,
	}).Info("Renovation proposal received")

	if err := h.captureLead(c.Request.Context(), lead); err != nil {
		h.logger.WithError(err).WithField("lead_id", lead.ID).Error("Failed to store renovation proposal")
		h.fail(c, http.StatusInternalServerError, "Error procesando propuesta")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Propuesta recibida. Te contactaremos para programar una visita técnica gratuita.",
		"contact_info": h.cfg.Contact,
	})
}

func (h *Handler) HandlePropertyAnalysis(c *gin.Context) {
	var req valuation.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.rejectAnalysis(c, err)
		return
	}

	property, err := valuation.ParseRequest(req, h.now(), h.locator)
	if err != nil {
		h.rejectAnalysis(c, err)
		return
	}

	result := h.scorer.Estimate(property)
	h.metrics.ObserveValuation(string(result.MarketTrend))

	h.logger.WithFields(logrus.Fields{
		"surface":         property.Surface,
		"rooms":           property.Rooms,
		"location":        property.Location,
		"property_type":   property.PropertyType,
		"estimated_value": result.EstimatedValue,
		"market_trend":    result.MarketTrend,
	}).Info("Property analysis completed")

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"analysis":     result,
		"contact_info": h.cfg.Contact,
	})
}

func (h *Handler) rejectAnalysis(c *gin.Context, err error) {
	if !errors.Is(err, valuation.ErrInvalidInput) {
		err = fmt.Errorf("%w: %v", valuation.ErrInvalidInput, err)
	}
	h.logger.WithError(err).Warn("Rejected property analysis request")
	h.metrics.ObserveInvalidRequest("property-analysis")

	c.JSON(http.StatusBadRequest, gin.H{
		"success":      false,
		"error":        "Datos de la propiedad no válidos",
		"details":      err.Error(),
		"contact_info": h.cfg.Contact,
	})
}

// captureLead queues the lead for persistence, saving it inline when the queue
// cannot take it. Queued leads are counted by the processor once stored.
func (h *Handler) captureLead(ctx context.Context, lead models.Lead) error {
	err := h.leadQueue.Push([]models.Lead{lead})
	if !errors.Is(err, queue.ErrQueueFull) && !errors.Is(err, queue.ErrQueueClosed) {
		return err
	}

	h.logger.WithError(err).WithField("lead_id", lead.ID).Warn("Lead queue unavailable, saving synchronously")

	ctx, cancel := context.WithTimeout(ctx, syncSaveTimeout)
	defer cancel()
	if err := h.store.Save(ctx, []models.Lead{lead}); err != nil {
		return err
	}

	h.metrics.ObserveLead(string(lead.Kind))
	return nil
}

func (h *Handler) fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success":      false,
		"error":        message,
		"contact_info": h.cfg.Contact,
	})
}
