package controller

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"supplyhub/internal/commons"
	"supplyhub/internal/domain"
)

type SummaryService interface {
	Report(ctx context.Context) (*domain.Summary, error)
}

type SummaryController struct {
	service SummaryService
	logger  *zap.Logger
}

func NewSummaryController(service SummaryService, logger *zap.Logger) *SummaryController {
	return &SummaryController{service: service, logger: logger}
}

func (c *SummaryController) Report(w http.ResponseWriter, r *http.Request) {
	report, err := c.service.Report(r.Context())
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}
	commons.WriteJSON(w, http.StatusOK, report, c.logger)
}
