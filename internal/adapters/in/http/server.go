package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"returns/internal/core/application/usecases/commands"
	"returns/internal/core/application/usecases/queries"
	"returns/internal/core/domain/model/kernel"
	"returns/internal/pkg/errs"
	"returns/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server handles inbound HTTP traffic: partner webhook deliveries and the
// read-side endpoints used by ops tooling. It coordinates between HTTP
// handlers and application use cases.
type Server struct {
	// Command handlers
	processEventHandler commands.ProcessShipmentEventHandler

	// Query handlers
	getReturnStatusHandler queries.GetReturnStatusQueryHandler

	authenticator Authenticator
	logger        *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query
// handlers.
func NewServer(
	processEventHandler commands.ProcessShipmentEventHandler,
	getReturnStatusHandler queries.GetReturnStatusQueryHandler,
	authenticator Authenticator,
	logger *slog.Logger,
) *Server {
	return &Server{
		processEventHandler:    processEventHandler,
		getReturnStatusHandler: getReturnStatusHandler,
		authenticator:          authenticator,
		logger:                 logger,
	}
}

// RegisterRoutes attaches all endpoints to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/webhooks/:partner/events", s.PostWebhookEvent)
	e.GET("/api/v1/returns/:id/status", s.GetReturnStatus)
	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// webhookResponse acknowledges an accepted webhook delivery. Outcome is the
// engine's disposition; Reason is present only when an ignoring gate fired.
type webhookResponse struct {
	Ok      bool   `json:"ok"`
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`
	EventID string `json:"eventId"`
	Mapped  string `json:"mapped,omitempty"`
}

type errorResponse struct {
	Ok    bool   `json:"ok"`
	Error string `json:"error"`
}

// PostWebhookEvent handles POST /api/v1/webhooks/:partner/events - ingests
// one partner status event. Authentication failures return 401 before the
// body is read; payloads without an identifying shipment key return 400.
// Every disposition the engine reaches is acknowledged with 200 so the
// partner does not retry deliveries we have already decided on.
func (s *Server) PostWebhookEvent(ctx echo.Context) error {
	if !s.authenticator.Authenticate(ctx.Request().Header.Get(HeaderWebhookToken)) {
		metrics.WebhookRejectedTotal.WithLabelValues("unauthorized").Inc()

		return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	}

	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		metrics.WebhookRejectedTotal.WithLabelValues("unreadable_body").Inc()

		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
	}

	receivedAt := time.Now().UTC()

	event, err := NormalizeWebhookPayload(body, receivedAt)
	if err != nil {
		metrics.WebhookRejectedTotal.WithLabelValues("unidentifiable_payload").Inc()

		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	cmd, err := commands.NewProcessShipmentEventCommand(
		ctx.Param("partner"),
		event.TrackingNumber,
		event.ExternalShipmentID,
		event.PartnerStatus,
		event.EventAt,
		receivedAt,
		event.ExplicitEventID,
		event.CoarseTimestamp,
		string(body),
	)
	if err != nil {
		metrics.WebhookRejectedTotal.WithLabelValues("invalid_event").Inc()

		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	start := time.Now()
	result, err := s.processEventHandler.Handle(ctx.Request().Context(), cmd)
	metrics.WebhookProcessingDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.logger.Error("webhook processing failed",
			"partner", ctx.Param("partner"),
			"event_id", cmd.EventID(),
			"error", err,
		)

		return ctx.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}

	metrics.WebhookEventsTotal.WithLabelValues(string(result.Outcome)).Inc()

	s.logger.Info("webhook processed",
		"partner", ctx.Param("partner"),
		"event_id", result.EventID,
		"outcome", string(result.Outcome),
		"reason", result.Reason,
	)

	return ctx.JSON(http.StatusOK, webhookResponse{
		Ok:      true,
		Outcome: string(result.Outcome),
		Reason:  result.Reason,
		EventID: result.EventID,
		Mapped:  result.Mapped,
	})
}

// returnStatusResponse is the reconciled view of one return exposed to ops
// tooling.
type returnStatusResponse struct {
	ID                  string     `json:"id"`
	Status              string     `json:"status"`
	StatusUpdatedAt     time.Time  `json:"statusUpdatedAt"`
	PickupPartner       string     `json:"pickupPartner,omitempty"`
	PickupPartnerStatus string     `json:"pickupPartnerStatus,omitempty"`
	PickupLastEventAt   *time.Time `json:"pickupLastEventAt,omitempty"`
	TrackingNumber      string     `json:"trackingNumber,omitempty"`
	ExternalShipmentID  string     `json:"externalShipmentId,omitempty"`
	InspectDueAt        *time.Time `json:"inspectDueAt,omitempty"`
}

// GetReturnStatus handles GET /api/v1/returns/:id/status - retrieves the
// current reconciled state of one return.
func (s *Server) GetReturnStatus(ctx echo.Context) error {
	returnID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid return id"})
	}

	query, err := queries.NewGetReturnStatusQuery(returnID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	status, err := s.getReturnStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, errorResponse{Error: "return not found"})
		}

		s.logger.Error("return status query failed", "return_id", returnID.String(), "error", err)

		return ctx.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}

	return ctx.JSON(http.StatusOK, returnStatusResponse{
		ID:                  status.ID.String(),
		Status:              status.Status,
		StatusUpdatedAt:     status.StatusUpdatedAt,
		PickupPartner:       status.PickupPartner,
		PickupPartnerStatus: status.PickupPartnerStatus,
		PickupLastEventAt:   status.PickupLastEventAt,
		TrackingNumber:      status.TrackingNumber,
		ExternalShipmentID:  status.ExternalShipmentID,
		InspectDueAt:        status.InspectDueAt,
	})
}

// Health handles GET /health - liveness probe.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
