package fulfillment

import (
	"context"
	"time"

	"github.com/orderfeed/backend/internal/domain/commerce"
	"github.com/orderfeed/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Renderer turns a page of orders into the partner feed document
type Renderer interface {
	Render(ctx context.Context, orders []commerce.Order, pages int) ([]byte, error)
}

// ExportRequest carries the raw export parameters as received
type ExportRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      string `form:"page"`
}

// ExportResult is a rendered feed page
type ExportResult struct {
	Body       []byte
	Orders     int
	Page       int
	TotalPages int
}

// ExportService serves paged order exports
type ExportService struct {
	query    *OrderQueryService
	renderer Renderer
	location *time.Location
}

// NewExportService creates a new ExportService. Dates without a zone are read in loc.
func NewExportService(query *OrderQueryService, renderer Renderer, loc *time.Location) *ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ExportService{query: query, renderer: renderer, location: loc}
}

// Export renders the requested page. The whole document is built before returning.
func (s *ExportService) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	start := ParseDate(req.StartDate, s.location)
	end := ParseDate(req.EndDate, s.location)
	page := ParsePage(req.Page)

	result, err := s.query.OrdersBetween(ctx, start, end, page)
	if err != nil {
		return nil, err
	}

	body, err := s.renderer.Render(ctx, result.Orders, result.TotalPages)
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Debug("Orders exported",
		zap.Int("page", result.Page),
		zap.Int("total_pages", result.TotalPages),
		zap.Int("orders", len(result.Orders)),
	)
	return &ExportResult{
		Body:       body,
		Orders:     len(result.Orders),
		Page:       result.Page,
		TotalPages: result.TotalPages,
	}, nil
}
