// Package prompt builds the system and user prompts for both pipelines.
package prompt

import (
	"strings"

	"docinsight/internal/domain"
)

// ShippingSystemPrompt instructs the model to answer with a bare JSON object.
const ShippingSystemPrompt = `You are an AI assistant specialized in extracting shipping information from courier airway bills.

IMPORTANT: Your response must be a valid JSON object only, with no text before or after.
Do not include markdown code blocks or explanations.`

// BuildShippingUserPrompt asks for the canonical fields from extracted PDF text.
func BuildShippingUserPrompt(pdfText string) string {
	var sb strings.Builder
	sb.WriteString("Please extract the following information from this courier airway bill text and return it as a JSON object:\n")
	for _, field := range domain.CanonicalFields {
		sb.WriteString("- ")
		sb.WriteString(field)
		sb.WriteString("\n")
	}
	sb.WriteString("\nIf any field cannot be found, label it as \"")
	sb.WriteString(domain.NotFound)
	sb.WriteString("\".\n\nHere is the text from the courier airway bill:\n\n")
	sb.WriteString(pdfText)
	return sb.String()
}
