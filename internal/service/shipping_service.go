package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"docinsight/internal/config"
	"docinsight/internal/decode"
	"docinsight/internal/domain"
	"docinsight/internal/logger"
	"docinsight/internal/metrics"
	"docinsight/internal/port"
	"docinsight/internal/prompt"
	"docinsight/internal/shipping"
	"docinsight/internal/xlsxexport"
)

const pipelineShipping = "shipping"

// Upload is one document in a batch. Open is called once, when the
// document's turn comes.
type Upload struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// BatchFailure records a document that could not be extracted.
type BatchFailure struct {
	Name    string `json:"name" yaml:"name"`
	Message string `json:"error" yaml:"error"`
	err     error
}

func (f *BatchFailure) Error() string { return f.Name + ": " + f.Message }

// Unwrap returns the underlying extraction error.
func (f *BatchFailure) Unwrap() error { return f.err }

// BatchResult collects the outcome of a batch extraction.
type BatchResult struct {
	Records  []domain.ShippingRecord `json:"records" yaml:"records"`
	Failures []*BatchFailure         `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Progress is called after every document, successful or not.
type Progress func(done, total int, name string)

// ShippingService defines the airway-bill extraction contract.
type ShippingService interface {
	Extract(ctx context.Context, name string, body io.Reader) (*domain.ShippingRecord, error)
	ExtractBatch(ctx context.Context, uploads []Upload, progress Progress) *BatchResult
	Export(records []domain.ShippingRecord, batch bool) (data []byte, filename string, err error)
}

type shippingService struct {
	extractor port.TextExtractor
	completer port.Completer
	decoder   *decode.Decoder
	metrics   *metrics.Metrics
	cfg       *config.LLMConfig
	log       *zap.Logger
}

// NewShippingService creates a new ShippingService implementation.
func NewShippingService(
	extractor port.TextExtractor,
	completer port.Completer,
	cfg *config.LLMConfig,
	m *metrics.Metrics,
	log *zap.Logger,
) ShippingService {
	log = logger.OrNop(log)
	return &shippingService{
		extractor: extractor,
		completer: completer,
		decoder:   decode.New(log),
		metrics:   m,
		cfg:       cfg,
		log:       log,
	}
}

func (s *shippingService) Extract(ctx context.Context, name string, body io.Reader) (*domain.ShippingRecord, error) {
	text, err := s.extractor.Extract(ctx, name, body)
	if err != nil {
		return nil, err
	}

	req := port.CompletionRequest{
		System:      prompt.ShippingSystemPrompt,
		User:        prompt.BuildShippingUserPrompt(text),
		MaxTokens:   s.cfg.ShippingMaxToks,
		Temperature: s.cfg.Temperature,
	}
	started := time.Now()
	resp, err := s.completer.Complete(ctx, req)
	s.metrics.ObserveCompletion(pipelineShipping, started, err)
	if err != nil {
		s.log.Error("shipping completion failed", zap.String("file", name), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrCompletionFailed, name, err)
	}

	out := s.decoder.Decode(resp.Text)
	s.metrics.ObserveDecode(pipelineShipping, string(out.Strategy))
	fields := shipping.Normalize(out.Result, resp.Text)

	s.log.Info("extracted shipping record",
		zap.String("file", name),
		zap.String("strategy", string(out.Strategy)))
	return &domain.ShippingRecord{FileName: name, Fields: fields}, nil
}

// ExtractBatch processes uploads one at a time, in order. A failing
// document is recorded and the batch moves on.
func (s *shippingService) ExtractBatch(ctx context.Context, uploads []Upload, progress Progress) *BatchResult {
	result := &BatchResult{}
	for i, u := range uploads {
		rec, err := s.extractUpload(ctx, u)
		if err != nil {
			s.log.Warn("batch document failed", zap.String("file", u.Name), zap.Error(err))
			result.Failures = append(result.Failures, &BatchFailure{Name: u.Name, Message: err.Error(), err: err})
		} else {
			result.Records = append(result.Records, *rec)
		}
		if progress != nil {
			progress(i+1, len(uploads), u.Name)
		}
	}
	s.log.Info("batch extraction finished",
		zap.Int("documents", len(uploads)),
		zap.Int("failures", len(result.Failures)))
	return result
}

func (s *shippingService) extractUpload(ctx context.Context, u Upload) (*domain.ShippingRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := u.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrIngestion, u.Name, err)
	}
	defer func() { _ = body.Close() }()
	return s.Extract(ctx, u.Name, body)
}

func (s *shippingService) Export(records []domain.ShippingRecord, batch bool) ([]byte, string, error) {
	data, err := xlsxexport.Write(records, domain.ShippingColumns(batch))
	if err != nil {
		return nil, "", fmt.Errorf("exporting shipping records: %w", err)
	}
	return data, xlsxexport.GenerateFilename(), nil
}
