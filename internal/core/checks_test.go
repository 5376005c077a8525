package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mikey/phish-filter/internal/core"
)

func TestRiskyAttachments(t *testing.T) {
	lex := core.DefaultLexicon()

	tests := []struct {
		name  string
		files []string
		want  []string
	}{
		{"none", nil, nil},
		{"safe", []string{"report.pdf", "photo.JPG"}, nil},
		{"uppercase extension", []string{"Invoice.EXE"}, []string{"Invoice.EXE"}},
		{"last dot wins", []string{"doc.pdf.html", "archive.zip.pdf"}, []string{"doc.pdf.html"}},
		{"no dot", []string{"README", "exe"}, nil},
		{"order kept", []string{"b.js", "a.txt", "c.iso"}, []string{"b.js", "c.iso"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lex.RiskyAttachments(tt.files))
		})
	}
}

func TestBrandMismatch(t *testing.T) {
	lex := core.DefaultLexicon()

	t.Run("no links yields nothing", func(t *testing.T) {
		assert.Empty(t, lex.BrandMismatch("Your PayPal account", nil))
	})

	t.Run("brand in link domain", func(t *testing.T) {
		got := lex.BrandMismatch("Sign in to PayPal", []string{"https://www.paypal.com/signin"})
		assert.Empty(t, got)
	})

	t.Run("brand missing from domains", func(t *testing.T) {
		got := lex.BrandMismatch("Sign in to PayPal", []string{"https://paypa1-secure.top/"})
		assert.Equal(t, []string{"paypal"}, got)
	})

	t.Run("multi word brand collapses spaces", func(t *testing.T) {
		got := lex.BrandMismatch("Your NZ Post parcel", []string{"https://track.nzpost.co.nz/"})
		assert.Empty(t, got)
	})

	t.Run("substring brands match loosely", func(t *testing.T) {
		// "anz" is contained in "bonanza"
		got := lex.BrandMismatch("What a bonanza of deals", []string{"https://example.com/"})
		assert.Equal(t, []string{"anz"}, got)
	})

	t.Run("table order", func(t *testing.T) {
		got := lex.BrandMismatch("dhl and google and microsoft", []string{"https://example.com/"})
		assert.Equal(t, []string{"microsoft", "google", "dhl"}, got)
	})
}

func TestApplyMessageChecks(t *testing.T) {
	scorer := newScorer()
	body := "Your PayPal account needs action http://totallyfake.top"
	msg := &core.Message{
		Body:        body,
		Attachments: []string{"update.exe", "notes.txt"},
	}

	base := scorer.Score(body)
	got := scorer.ApplyMessageChecks(base, msg)

	assert.Equal(t, 60, got.Score)
	assert.Equal(t, []string{
		"http://totallyfake.top → risky TLD, not HTTPS",
		"Risky attachment(s): update.exe",
		"Brand mentioned but not in link domains: paypal",
	}, got.Reasons)
	assert.Equal(t, base.Links, got.Links)

	// the input result is left untouched
	assert.Equal(t, 25, base.Score)
	assert.Len(t, base.Reasons, 1)
}

func TestApplyMessageChecks_NothingToAdd(t *testing.T) {
	scorer := newScorer()
	msg := &core.Message{Body: "Lunch on Friday?", Attachments: []string{}}

	got := scorer.ApplyMessageChecks(scorer.Score(msg.Body), msg)

	assert.Equal(t, 0, got.Score)
	assert.Empty(t, got.Reasons)
}

func TestApplyMessageChecks_Clamps(t *testing.T) {
	scorer := newScorer()
	result := core.ScoreResult{Score: 95, Reasons: []string{"x"}, Links: []string{"https://example.com"}}
	msg := &core.Message{Body: "amazon", Attachments: []string{"a.exe"}}

	got := scorer.ApplyMessageChecks(result, msg)

	assert.Equal(t, 100, got.Score)
	assert.Len(t, got.Reasons, 3)
}

func TestApplyMessageChecks_NilMessage(t *testing.T) {
	scorer := newScorer()
	result := core.ScoreResult{Score: 10, Reasons: []string{"r"}}

	assert.Equal(t, result, scorer.ApplyMessageChecks(result, nil))
}
