// Package decode turns raw LLM completions into structured results.
//
// Decoding never fails. Strategies are tried in a fixed order and the first
// one that yields a JSON object wins:
//
//  1. the whole completion parsed as a JSON object
//  2. balanced {...} spans found by a string-aware depth scanner
//  3. the body of a ```json fence, then of a generic ``` fence
//  4. cleaned plain text wrapped as {"answer": text}
package decode

import (
	"encoding/json"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"docinsight/internal/domain"
	"docinsight/internal/logger"
)

// Strategy names the decoding step that produced a result.
type Strategy string

const (
	StrategyDirect    Strategy = "direct"
	StrategyBrace     Strategy = "brace"
	StrategyFenced    Strategy = "fenced"
	StrategyPlainText Strategy = "plain_text"
)

// Outcome is the result of decoding one completion.
type Outcome struct {
	Result   domain.Result
	Strategy Strategy
}

// Degraded reports whether no JSON object could be recovered and the
// result is the cleaned completion text.
func (o Outcome) Degraded() bool {
	return o.Strategy == StrategyPlainText
}

// Decoder decodes LLM completions. The zero value is not usable; use New.
type Decoder struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Decoder {
	return &Decoder{log: logger.OrNop(log)}
}

// Decode runs the fallback chain over raw.
func (d *Decoder) Decode(raw string) Outcome {
	if r, ok := parseObject(raw); ok {
		return Outcome{Result: r, Strategy: StrategyDirect}
	}

	for _, candidate := range braceCandidates(raw) {
		if r, ok := parseObject(candidate); ok {
			d.log.Debug("decoded embedded JSON object", zap.Int("span_len", len(candidate)))
			return Outcome{Result: r, Strategy: StrategyBrace}
		}
	}

	// Unreachable while braceCandidates scans every span; kept for other scanners.
	if r, ok := parseFenced(raw); ok {
		d.log.Debug("decoded fenced JSON block")
		return Outcome{Result: r, Strategy: StrategyFenced}
	}

	text := CleanText(raw)
	d.log.Warn("completion is not JSON, falling back to plain text",
		zap.Int("raw_len", len(raw)),
		zap.String("preview", preview(raw)))
	return Outcome{
		Result:   domain.Result{domain.KeyAnswer: text},
		Strategy: StrategyPlainText,
	}
}

// EnsureAnswer adds an empty answer to results that lack one.
func EnsureAnswer(r domain.Result) domain.Result {
	if r == nil {
		r = domain.Result{}
	}
	if !r.Has(domain.KeyAnswer) {
		r[domain.KeyAnswer] = ""
	}
	return r
}

func parseObject(s string) (domain.Result, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s[0] != '{' {
		return nil, false
	}
	var r domain.Result
	if err := json.Unmarshal([]byte(s), &r); err != nil || r == nil {
		return nil, false
	}
	return r, true
}

// braceCandidates returns, for every '{' in source order, the balanced span
// that starts there. Braces inside JSON string literals are ignored. Starts
// that never balance produce no candidate.
func braceCandidates(s string) []string {
	var out []string
	for start := strings.IndexByte(s, '{'); start >= 0; {
		if end := matchBrace(s, start); end > start {
			out = append(out, s[start:end+1])
		}
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return out
}

func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

const fence = "```"

func parseFenced(s string) (domain.Result, bool) {
	if _, after, ok := strings.Cut(s, fence+"json"); ok {
		body, _, _ := strings.Cut(after, fence)
		if r, ok := parseObject(body); ok {
			return r, true
		}
	}
	parts := strings.Split(s, fence)
	if len(parts) < 2 {
		return nil, false
	}
	return parseObject(parts[1])
}

var (
	fencedBlock   = regexp.MustCompile("(?s)```.*?```")
	markdownMarks = regexp.MustCompile("[`*_#]")
	blankRuns     = regexp.MustCompile(`\n\s*\n`)
)

// CleanText strips fenced blocks and markdown markers from s, collapses
// runs of blank lines to a single blank line and trims the result.
func CleanText(s string) string {
	s = fencedBlock.ReplaceAllString(s, "")
	s = markdownMarks.ReplaceAllString(s, "")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func preview(s string) string {
	const n = 120
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
