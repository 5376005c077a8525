package core_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mikey/phish-filter/internal/core"
)

func TestExtractLinks_Deduplicates(t *testing.T) {
	links := core.ExtractLinks("see http://a.com and http://a.com")
	assert.Equal(t, []string{"http://a.com"}, links)
}

func TestExtractLinks_KeepsFirstSeenOrder(t *testing.T) {
	links := core.ExtractLinks("https://b.com http://a.com https://b.com https://c.com")
	assert.Equal(t, []string{"https://b.com", "http://a.com", "https://c.com"}, links)
}

func TestExtractLinks_StripsTrailingPunctuation(t *testing.T) {
	links := core.ExtractLinks(`go to http://a.com/x).,;:'"> now, or https://b.com.`)
	assert.Equal(t, []string{"http://a.com/x", "https://b.com"}, links)
}

func TestExtractLinks_SchemeIsCaseSensitive(t *testing.T) {
	assert.Empty(t, core.ExtractLinks("HTTP://A.COM Https://b.com ftp://c.com www.d.com"))
}

func TestExtractLinks_TokenMustStartWithScheme(t *testing.T) {
	assert.Empty(t, core.ExtractLinks("(http://a.com) <https://b.com>"))
}

func TestExtractLinks_SplitsOnAnyWhitespace(t *testing.T) {
	links := core.ExtractLinks("http://a.com\nhttp://b.com\thttp://c.com\r\nhttp://d.com")
	assert.Equal(t, []string{"http://a.com", "http://b.com", "http://c.com", "http://d.com"}, links)
}

func TestExtractLinks_EmptyInput(t *testing.T) {
	links := core.ExtractLinks("")
	assert.NotNil(t, links)
	assert.Empty(t, links)
	assert.Empty(t, core.ExtractLinks("   \n\t "))
}

func TestExtractLinks_Idempotent(t *testing.T) {
	text := "Click http://a.com, then https://b.top/x. Also http://a.com! and https://c.com/path?q=1;"
	first := core.ExtractLinks(text)
	second := core.ExtractLinks(strings.Join(first, " "))
	assert.Equal(t, first, second)
}
