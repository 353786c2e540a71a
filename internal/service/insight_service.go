package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"docinsight/internal/chart"
	"docinsight/internal/config"
	"docinsight/internal/decode"
	"docinsight/internal/domain"
	"docinsight/internal/frame"
	"docinsight/internal/logger"
	"docinsight/internal/metrics"
	"docinsight/internal/port"
	"docinsight/internal/prompt"
)

const pipelineCSV = "csv"

// Answer is the outcome of one natural-language question about a CSV.
type Answer struct {
	Answer   string          `json:"answer" yaml:"answer"`
	Charts   []*chart.Series `json:"charts,omitempty" yaml:"charts,omitempty"`
	Warnings []string        `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Degraded bool            `json:"degraded" yaml:"degraded"`
	Strategy decode.Strategy `json:"strategy,omitempty" yaml:"strategy,omitempty"`
}

// ChartRequest asks for a chart computed locally from frame columns.
type ChartRequest struct {
	Kind    chart.Kind `json:"kind"`
	Columns []string   `json:"columns"`
}

// ChartResult is a derived chart with the rows that could not be plotted.
type ChartResult struct {
	Series   *chart.Series `json:"series" yaml:"series"`
	Warnings []string      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// InsightService defines the CSV question-answering contract.
type InsightService interface {
	Ask(ctx context.Context, f *frame.Frame, query string) *Answer
	Chart(f *frame.Frame, req ChartRequest) (*ChartResult, error)
	Analyze(f *frame.Frame, analysis domain.AnalysisType, column string) (any, error)
}

type insightService struct {
	completer port.Completer
	decoder   *decode.Decoder
	metrics   *metrics.Metrics
	cfg       *config.LLMConfig
	log       *zap.Logger
}

// NewInsightService creates a new InsightService implementation.
func NewInsightService(
	completer port.Completer,
	cfg *config.LLMConfig,
	m *metrics.Metrics,
	log *zap.Logger,
) InsightService {
	log = logger.OrNop(log)
	return &insightService{
		completer: completer,
		decoder:   decode.New(log),
		metrics:   m,
		cfg:       cfg,
		log:       log,
	}
}

// Ask never fails. A completion error is reported in the answer text.
func (s *insightService) Ask(ctx context.Context, f *frame.Frame, query string) *Answer {
	wantsChart := prompt.WantsChart(query)
	req := port.CompletionRequest{
		System:      prompt.BuildCSVSystemPrompt(f.Context()),
		User:        prompt.BuildCSVUserMessage(query, wantsChart),
		MaxTokens:   s.cfg.CSVMaxTokens,
		Temperature: s.cfg.Temperature,
	}

	started := time.Now()
	resp, err := s.completer.Complete(ctx, req)
	s.metrics.ObserveCompletion(pipelineCSV, started, err)
	if err != nil {
		s.log.Error("csv completion failed",
			zap.Error(fmt.Errorf("%w: %w", domain.ErrCompletionFailed, err)),
			zap.Bool("wants_chart", wantsChart))
		return &Answer{
			Answer: fmt.Sprintf("Error: %v. Please try a different query or check your API key.", err),
		}
	}

	out := s.decoder.Decode(resp.Text)
	s.metrics.ObserveDecode(pipelineCSV, string(out.Strategy))
	result := decode.EnsureAnswer(out.Result)

	answer := &Answer{
		Answer:   answerText(result[domain.KeyAnswer]),
		Degraded: out.Degraded(),
		Strategy: out.Strategy,
	}
	for _, kind := range chart.Kinds {
		raw, ok := result[string(kind)]
		if !ok {
			continue
		}
		series, dropped, err := chart.Shape(kind, raw)
		s.recordDropped(kind, dropped, &answer.Warnings)
		if err != nil {
			s.log.Warn("omitting chart", zap.String("kind", string(kind)), zap.Error(err))
			answer.Warnings = append(answer.Warnings, fmt.Sprintf("could not display %s: %v", kind, err))
			continue
		}
		answer.Charts = append(answer.Charts, series)
	}

	s.log.Info("answered csv query",
		zap.String("strategy", string(out.Strategy)),
		zap.Int("charts", len(answer.Charts)),
		zap.Int("warnings", len(answer.Warnings)))
	return answer
}

func (s *insightService) Chart(f *frame.Frame, req ChartRequest) (*ChartResult, error) {
	var (
		series  *chart.Series
		dropped []*chart.RowDropped
		err     error
	)
	cols := req.Columns
	switch {
	case req.Kind == chart.KindBar && len(cols) == 1:
		series, dropped, err = chart.BarFromColumn(f, cols[0])
	case req.Kind == chart.KindBar && len(cols) == 2:
		series, dropped, err = chart.BarFromColumns(f, cols[0], cols[1])
	case req.Kind == chart.KindLine && len(cols) == 2:
		series, dropped, err = chart.LineFromColumns(f, cols[0], cols[1])
	case req.Kind == chart.KindPie && len(cols) == 1:
		series, dropped, err = chart.PieFromColumn(f, cols[0])
	case req.Kind == chart.KindPie && len(cols) == 2:
		series, dropped, err = chart.PieFromColumns(f, cols[0], cols[1])
	default:
		return nil, fmt.Errorf("%w: %s with %d column(s)", domain.ErrInvalidChartRequest, req.Kind, len(cols))
	}

	result := &ChartResult{}
	s.recordDropped(req.Kind, dropped, &result.Warnings)
	if err != nil {
		return nil, err
	}
	result.Series = series
	return result, nil
}

func (s *insightService) Analyze(f *frame.Frame, analysis domain.AnalysisType, column string) (any, error) {
	switch analysis {
	case domain.AnalysisSummary:
		return f.Summary(), nil
	case domain.AnalysisStatistics:
		if column == "" {
			return nil, domain.ErrInvalidAnalysis
		}
		return f.Statistics(column)
	case domain.AnalysisCorrelation:
		return f.Correlation()
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAnalysis, analysis)
	}
}

func (s *insightService) recordDropped(kind chart.Kind, dropped []*chart.RowDropped, warnings *[]string) {
	if len(dropped) == 0 {
		return
	}
	s.metrics.ObserveDropped(string(kind), len(dropped))
	for _, d := range dropped {
		s.log.Debug("row dropped", zap.Error(d))
		*warnings = append(*warnings, d.Error())
	}
}

// answerText renders a decoded answer value as display text.
func answerText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

