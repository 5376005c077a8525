package filter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mikey/phish-filter/internal/core"
	"golang.org/x/net/idna"
)

// bodyPreviewLimit is the number of characters of the raw body shown in verbose mode
const bodyPreviewLimit = 5000

// bandMessage returns the banner line shown under the score
func bandMessage(a *core.Analysis) string {
	switch a.Level {
	case core.RiskHigh:
		if a.Message != nil {
			return "High risk — this looks phishy."
		}
		return "High risk — looks phishy."
	case core.RiskMedium:
		return "Medium risk — be careful."
	default:
		return "Low risk — still review carefully."
	}
}

// writeReport renders an analysis as plain text
func writeReport(w io.Writer, a *core.Analysis, verbose bool) error {
	var b strings.Builder

	if msg := a.Message; msg != nil {
		b.WriteString("=== Email Headers ===\n")
		fmt.Fprintf(&b, "From: %s\n", msg.Headers.From)
		fmt.Fprintf(&b, "To: %s\n", msg.Headers.To)
		fmt.Fprintf(&b, "Subject: %s\n", msg.Headers.Subject)
		fmt.Fprintf(&b, "Date: %s\n", msg.Headers.Date)
		if len(msg.Attachments) > 0 {
			fmt.Fprintf(&b, "Attachments: %s\n", strings.Join(msg.Attachments, ", "))
		} else {
			b.WriteString("Attachments: None\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("=== Results ===\n")
	fmt.Fprintf(&b, "Risk score: %d/100\n", a.Result.Score)
	fmt.Fprintf(&b, "%s\n", bandMessage(a))

	b.WriteString("\nWhy?\n")
	if len(a.Result.Reasons) == 0 {
		b.WriteString("No strong indicators found.\n")
	}
	for _, r := range a.Result.Reasons {
		fmt.Fprintf(&b, "• %s\n", r)
	}

	b.WriteString("\nLinks found\n")
	if len(a.Result.Links) == 0 {
		b.WriteString("No links detected.\n")
	}
	for _, link := range a.Result.Links {
		fmt.Fprintf(&b, "  %s\n", link)
		domain := core.DomainOf(link)
		if core.UsesPunycode(domain) {
			if unicode, err := idna.Display.ToUnicode(domain); err == nil && unicode != domain {
				fmt.Fprintf(&b, "    displays as: %s\n", unicode)
			}
		}
	}

	if verbose && a.Message != nil {
		b.WriteString("\n=== Raw body (first 5,000 chars) ===\n")
		b.WriteString(preview(a.Message.Body, bodyPreviewLimit))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// jsonReport is the machine readable form of an analysis
type jsonReport struct {
	Score       int                 `json:"score"`
	Level       core.RiskLevel      `json:"level"`
	Reasons     []string            `json:"reasons"`
	Links       []string            `json:"links"`
	Headers     *core.ParsedHeaders `json:"headers,omitempty"`
	Attachments []string            `json:"attachments,omitempty"`
	AnalyzedAt  string              `json:"analyzed_at"`
}

// writeJSON renders an analysis as indented JSON
func writeJSON(w io.Writer, a *core.Analysis) error {
	report := jsonReport{
		Score:      a.Result.Score,
		Level:      a.Level,
		Reasons:    a.Result.Reasons,
		Links:      a.Result.Links,
		AnalyzedAt: a.AnalyzedAt.UTC().Format(time.RFC3339),
	}
	if report.Reasons == nil {
		report.Reasons = []string{}
	}
	if report.Links == nil {
		report.Links = []string{}
	}
	if a.Message != nil {
		headers := a.Message.Headers
		report.Headers = &headers
		report.Attachments = a.Message.Attachments
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// preview returns at most limit characters of text
func preview(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit])
}
