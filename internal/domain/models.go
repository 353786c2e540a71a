package domain

import "github.com/spf13/cast"

// Result is the decoded mapping produced from a single LLM completion.
// Values are strings, float64 numbers, booleans, nil, []any or nested
// map[string]any objects, exactly as encoding/json produces them.
type Result map[string]any

// Result keys recognized by the CSV question-answering pipeline.
const (
	KeyAnswer = "answer"
	KeyTable  = "table"
	KeyBar    = "bar"
	KeyLine   = "line"
	KeyPie    = "pie"
)

// Has reports whether key is present in the result.
func (r Result) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Canonical shipping fields extracted from courier airway bills, in export order.
const (
	FieldOrderID          = "Order ID"
	FieldRecipientName    = "Recipient Name"
	FieldRecipientAddress = "Recipient Address"
	FieldCourierName      = "Courier Name"
	FieldTrackingNumber   = "Tracking Number"

	// FieldFileName is appended to records produced in batch mode.
	FieldFileName = "File Name"
)

// NotFound is the sentinel stored in a canonical field that could not be resolved.
const NotFound = "Not Found"

// CanonicalFields lists the shipping fields in their fixed order.
var CanonicalFields = []string{
	FieldOrderID,
	FieldRecipientName,
	FieldRecipientAddress,
	FieldCourierName,
	FieldTrackingNumber,
}

// ShippingRecord is one normalized airway bill.
type ShippingRecord struct {
	FileName string `json:"file_name,omitempty"`
	Fields   Result `json:"fields"`
}

// Row returns the record as an ordered list of cells for the given columns.
// Scalars are stringified; missing values render as empty strings.
func (s *ShippingRecord) Row(columns []string) []string {
	row := make([]string, len(columns))
	for i, col := range columns {
		if col == FieldFileName {
			row[i] = s.FileName
			continue
		}
		row[i] = cast.ToString(s.Fields[col])
	}
	return row
}

// ShippingColumns returns the export header. Batch exports carry the source file name.
func ShippingColumns(withFileName bool) []string {
	cols := append([]string(nil), CanonicalFields...)
	if withFileName {
		cols = append(cols, FieldFileName)
	}
	return cols
}
