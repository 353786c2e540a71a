// Package shipping normalizes airway-bill extractions into the fixed
// five-field shipping record.
package shipping

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cast"

	"docinsight/internal/domain"
)

// labelRule binds a canonical field to the lowercase labels that introduce it.
type labelRule struct {
	field    string
	synonyms []string
}

// labelRules are evaluated in order against every line.
var labelRules = []labelRule{
	{domain.FieldOrderID, []string{"order id", "order number", "order #", "id"}},
	{domain.FieldRecipientName, []string{"recipient name", "receiver name", "consignee", "to:"}},
	{domain.FieldRecipientAddress, []string{"recipient address", "delivery address", "shipping address", "destination"}},
	{domain.FieldCourierName, []string{"courier name", "carrier", "shipping company", "delivery service"}},
	{domain.FieldTrackingNumber, []string{"tracking number", "tracking #", "awb", "airway bill", "tracking id"}},
}

// Normalize returns a result holding exactly the canonical fields. Values
// already present in partial are kept. When some are missing, the label
// matcher scans raw for the rest; anything still unresolved is NotFound.
func Normalize(partial domain.Result, raw string) domain.Result {
	out := make(domain.Result, len(domain.CanonicalFields))
	for _, field := range domain.CanonicalFields {
		if v, ok := present(partial[field]); ok {
			out[field] = v
		}
	}

	if len(out) < len(domain.CanonicalFields) {
		matched := MatchLabels(raw)
		for field, v := range matched {
			if _, ok := out[field]; !ok {
				out[field] = v
			}
		}
	}

	for _, field := range domain.CanonicalFields {
		if _, ok := out[field]; !ok {
			out[field] = domain.NotFound
		}
	}
	return out
}

// MatchLabels scans text line by line for "label: value" pairs. A field is
// bound by the first line containing one of its synonyms and a colon; an
// empty value binds NotFound. Unmatched fields are absent from the result.
func MatchLabels(text string) map[string]string {
	found := make(map[string]string, len(labelRules))
	text = strings.TrimSpace(strings.ReplaceAll(text, "```", ""))

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		for _, rule := range labelRules {
			if _, ok := found[rule.field]; ok {
				continue
			}
			for _, syn := range rule.synonyms {
				if !strings.Contains(lower, syn) {
					continue
				}
				_, value, hasColon := strings.Cut(line, ":")
				if !hasColon {
					continue
				}
				value = strings.TrimSpace(value)
				if value == "" {
					value = domain.NotFound
				}
				found[rule.field] = value
				break
			}
		}
	}
	return found
}

// present stringifies v, reporting false for nil and blank values.
func present(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case nil:
		return "", false
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return "", false
		}
		s = string(b)
	default:
		var err error
		if s, err = cast.ToStringE(t); err != nil {
			return "", false
		}
	}
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
