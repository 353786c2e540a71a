package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"docinsight/internal/domain"
	"docinsight/internal/metrics"
	"docinsight/internal/port"
	"docinsight/internal/service"
	"docinsight/internal/xlsxexport"
	"docinsight/mocks"
)

func newShipping() (service.ShippingService, *mocks.MockTextExtractor, *mocks.MockCompleter) {
	extractor := new(mocks.MockTextExtractor)
	completer := new(mocks.MockCompleter)
	svc := service.NewShippingService(extractor, completer, llmConfig(), metrics.New(prometheus.NewRegistry()), zap.NewNop())
	return svc, extractor, completer
}

func TestShippingService_Extract_JSONResponse(t *testing.T) {
	svc, extractor, completer := newShipping()
	extractor.On("Extract", mock.Anything, "bill.pdf", mock.Anything).Return("\n\n--- Page 1 ---\n\nAWB 123", nil)
	completer.On("Complete", mock.Anything, mock.MatchedBy(func(req port.CompletionRequest) bool {
		return req.MaxTokens == 1000 && strings.HasSuffix(req.User, "AWB 123")
	})).Return(&port.Completion{Text: `{"Order ID":"A1","Recipient Name":"Jane","Courier Name":"DHL"}`}, nil)

	rec, err := svc.Extract(context.Background(), "bill.pdf", strings.NewReader("%PDF"))

	require.NoError(t, err)
	assert.Equal(t, "bill.pdf", rec.FileName)
	assert.Equal(t, domain.Result{
		domain.FieldOrderID:          "A1",
		domain.FieldRecipientName:    "Jane",
		domain.FieldRecipientAddress: domain.NotFound,
		domain.FieldCourierName:      "DHL",
		domain.FieldTrackingNumber:   domain.NotFound,
	}, rec.Fields)
}

func TestShippingService_Extract_PlainTextFallsBackToLabels(t *testing.T) {
	svc, extractor, completer := newShipping()
	extractor.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return("text", nil)
	completer.On("Complete", mock.Anything, mock.Anything).
		Return(&port.Completion{Text: "Order ID: 77\nCarrier: FedEx\nTracking Number: XYZ"}, nil)

	rec, err := svc.Extract(context.Background(), "b.pdf", strings.NewReader(""))

	require.NoError(t, err)
	assert.Equal(t, "77", rec.Fields[domain.FieldOrderID])
	assert.Equal(t, "FedEx", rec.Fields[domain.FieldCourierName])
	assert.Equal(t, "XYZ", rec.Fields[domain.FieldTrackingNumber])
	assert.Equal(t, domain.NotFound, rec.Fields[domain.FieldRecipientName])
	assert.Len(t, rec.Fields, len(domain.CanonicalFields))
}

func TestShippingService_Extract_IngestionFailureSkipsCompletion(t *testing.T) {
	svc, extractor, completer := newShipping()
	extractor.On("Extract", mock.Anything, mock.Anything, mock.Anything).
		Return("", fmt.Errorf("%w: bad.pdf: malformed", domain.ErrIngestion))

	rec, err := svc.Extract(context.Background(), "bad.pdf", strings.NewReader("junk"))

	assert.Nil(t, rec)
	assert.ErrorIs(t, err, domain.ErrIngestion)
	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestShippingService_Extract_CompletionFailure(t *testing.T) {
	svc, extractor, completer := newShipping()
	upstream := errors.New("connection reset")
	extractor.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return("text", nil)
	completer.On("Complete", mock.Anything, mock.Anything).Return(nil, upstream)

	rec, err := svc.Extract(context.Background(), "b.pdf", strings.NewReader(""))

	assert.Nil(t, rec)
	assert.ErrorIs(t, err, domain.ErrCompletionFailed)
	assert.ErrorIs(t, err, upstream)
}

func opener(body string) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(body)), nil
	}
}

func TestShippingService_ExtractBatch_ContinuesPastFailures(t *testing.T) {
	svc, extractor, completer := newShipping()
	extractor.On("Extract", mock.Anything, "one.pdf", mock.Anything).Return("first", nil)
	extractor.On("Extract", mock.Anything, "three.pdf", mock.Anything).Return("", domain.ErrIngestion)
	extractor.On("Extract", mock.Anything, "four.pdf", mock.Anything).Return("fourth", nil)
	completer.On("Complete", mock.Anything, mock.Anything).
		Return(&port.Completion{Text: `{"Order ID":"X"}`}, nil)

	uploads := []service.Upload{
		{Name: "one.pdf", Open: opener("a")},
		{Name: "two.pdf", Open: func() (io.ReadCloser, error) { return nil, errors.New("gone") }},
		{Name: "three.pdf", Open: opener("c")},
		{Name: "four.pdf", Open: opener("d")},
	}
	var seen []string
	res := svc.ExtractBatch(context.Background(), uploads, func(done, total int, name string) {
		assert.Equal(t, 4, total)
		seen = append(seen, fmt.Sprintf("%d:%s", done, name))
	})

	assert.Equal(t, []string{"1:one.pdf", "2:two.pdf", "3:three.pdf", "4:four.pdf"}, seen)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "one.pdf", res.Records[0].FileName)
	assert.Equal(t, "four.pdf", res.Records[1].FileName)
	require.Len(t, res.Failures, 2)
	assert.Equal(t, "two.pdf", res.Failures[0].Name)
	assert.ErrorIs(t, res.Failures[0], domain.ErrIngestion)
	assert.Equal(t, "three.pdf", res.Failures[1].Name)
}

func TestShippingService_ExtractBatch_CanceledContext(t *testing.T) {
	svc, extractor, _ := newShipping()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := svc.ExtractBatch(ctx, []service.Upload{{Name: "a.pdf", Open: opener("a")}}, nil)

	assert.Empty(t, res.Records)
	require.Len(t, res.Failures, 1)
	assert.ErrorIs(t, res.Failures[0], context.Canceled)
	extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything, mock.Anything)
}

func TestShippingService_Export(t *testing.T) {
	svc, _, _ := newShipping()
	records := []domain.ShippingRecord{{
		FileName: "one.pdf",
		Fields: domain.Result{
			domain.FieldOrderID:          "A1",
			domain.FieldRecipientName:    "Jane",
			domain.FieldRecipientAddress: domain.NotFound,
			domain.FieldCourierName:      "DHL",
			domain.FieldTrackingNumber:   "T9",
		},
	}}

	data, name, err := svc.Export(records, true)

	require.NoError(t, err)
	assert.Regexp(t, `^shipping_data_\d{8}_\d{6}\.xlsx$`, name)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(xlsxexport.SheetName)
	require.NoError(t, err)
	assert.Equal(t, domain.ShippingColumns(true), rows[0])
	assert.Equal(t, []string{"A1", "Jane", domain.NotFound, "DHL", "T9", "one.pdf"}, rows[1])
}
