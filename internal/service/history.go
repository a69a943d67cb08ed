package service

import (
	"bytes"
	"context"
	"time"

	"github.com/rs/zerolog"

	"micropantry-api/internal/logger"
	"micropantry-api/internal/model"
	"micropantry-api/internal/source"
	"micropantry-api/internal/telemetry"
)

// HistoryService loads and renders the sensor history of a pantry.
type HistoryService struct {
	source source.TelemetrySource
	plot   telemetry.Plot
	loc    *time.Location
	log    zerolog.Logger
}

// NewHistoryService creates a history service drawing on src.
func NewHistoryService(src source.TelemetrySource, loc *time.Location) *HistoryService {
	if loc == nil {
		loc = time.UTC
	}
	return &HistoryService{
		source: src,
		plot:   telemetry.DefaultPlot(),
		loc:    loc,
		log:    logger.Component("history"),
	}
}

// View builds the history panel. A failing source yields the placeholder
// view rather than an error.
func (s *HistoryService) View(ctx context.Context, pantryID string) telemetry.View {
	raw, err := s.source.History(ctx, pantryID)
	if err != nil {
		s.log.Warn().Err(err).Str("pantry_id", pantryID).Msg("telemetry history unavailable")
		return telemetry.FailedView(pantryID)
	}
	return s.Build(pantryID, raw)
}

// Build renders already fetched readings.
func (s *HistoryService) Build(pantryID string, raw []model.RawTelemetry) telemetry.View {
	return telemetry.BuildView(pantryID, raw, s.plot, s.loc)
}

// ChartSVG renders the weight chart as SVG.
func (s *HistoryService) ChartSVG(ctx context.Context, pantryID string) (string, error) {
	raw, err := s.source.History(ctx, pantryID)
	if err != nil {
		return "", err
	}
	h := telemetry.ParseHistory(raw)
	if len(h.Weight) == 0 {
		return "", telemetry.ErrNoWeightData
	}
	return telemetry.BuildWeightChart(h.Weight, s.plot, s.loc).SVG(), nil
}

// ChartPNG renders the weight chart as PNG. Both chart renderers return
// telemetry.ErrNoWeightData when the history has no weight readings.
func (s *HistoryService) ChartPNG(ctx context.Context, pantryID string) ([]byte, error) {
	raw, err := s.source.History(ctx, pantryID)
	if err != nil {
		return nil, err
	}
	h := telemetry.ParseHistory(raw)

	var buf bytes.Buffer
	if err := telemetry.RenderPNG(&buf, h.Weight, s.plot, s.loc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
