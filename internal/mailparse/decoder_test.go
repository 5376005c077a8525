package mailparse

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/jhillyerd/enmime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func crlf(s string) []byte {
	return []byte(strings.ReplaceAll(s, "\n", "\r\n"))
}

func TestDecode_PlainMessage(t *testing.T) {
	raw := crlf(`From: Alice <alice@example.com>
To: bob@example.com
Subject: Lunch
Date: Mon, 2 Jan 2006 15:04:05 -0700
Content-Type: text/plain; charset=utf-8

See you at noon.
`)

	msg, err := NewDecoder(nil, zap.NewNop()).Decode(raw)

	require.NoError(t, err)
	assert.Equal(t, "Alice <alice@example.com>", msg.Headers.From)
	assert.Equal(t, "bob@example.com", msg.Headers.To)
	assert.Equal(t, "Lunch", msg.Headers.Subject)
	assert.Equal(t, "Mon, 2 Jan 2006 15:04:05 -0700", msg.Headers.Date)
	assert.Contains(t, msg.Body, "See you at noon.")
	assert.NotNil(t, msg.Attachments)
	assert.Empty(t, msg.Attachments)
}

func TestDecode_MissingHeaders(t *testing.T) {
	raw := crlf(`Subject: only a subject

body
`)

	msg, err := NewDecoder(nil, nil).Decode(raw)

	require.NoError(t, err)
	assert.Equal(t, "", msg.Headers.From)
	assert.Equal(t, "", msg.Headers.To)
	assert.Equal(t, "", msg.Headers.Date)
	assert.Equal(t, "only a subject", msg.Headers.Subject)
}

func TestDecode_EncodedSubjectAndBase64Body(t *testing.T) {
	raw := crlf(`From: bank@example.com
Subject: =?UTF-8?B?VXJnZW50IGFjdGlvbg==?=
Content-Type: text/plain; charset=utf-8
Content-Transfer-Encoding: base64

VmVyaWZ5IHlvdXIgYWNjb3VudCBub3c=
`)

	msg, err := NewDecoder(nil, zap.NewNop()).Decode(raw)

	require.NoError(t, err)
	assert.Equal(t, "Urgent action", msg.Headers.Subject)
	assert.Equal(t, "Verify your account now", strings.TrimSpace(msg.Body))
}

func TestDecode_MultipartWalk(t *testing.T) {
	raw := crlf(`From: sender@example.com
To: rcpt@example.com
Subject: Documents
MIME-Version: 1.0
Content-Type: multipart/mixed; boundary="outer"

--outer
Content-Type: multipart/alternative; boundary="inner"

--inner
Content-Type: text/plain; charset=utf-8

First body
--inner
Content-Type: text/html; charset=utf-8

<p>ignored html</p>
--inner--
--outer
Content-Type: text/plain; charset=utf-8
Content-Disposition: attachment; filename="notes.txt"

Second body
--outer
Content-Type: application/octet-stream
Content-Disposition: attachment; filename="update.exe"
Content-Transfer-Encoding: base64

TVqQAAMAAAAEAAAA
--outer
Content-Type: application/pdf
Content-Disposition: attachment; filename="update.exe"
Content-Transfer-Encoding: base64

JVBERi0xLjQK
--outer--
`)

	msg, err := NewDecoder(nil, zap.NewNop()).Decode(raw)

	require.NoError(t, err)
	assert.Equal(t, []string{"notes.txt", "update.exe", "update.exe"}, msg.Attachments)
	assert.Contains(t, msg.Body, "First body")
	assert.Contains(t, msg.Body, "Second body")
	assert.NotContains(t, msg.Body, "ignored html")
	assert.Less(t, strings.Index(msg.Body, "First body"), strings.Index(msg.Body, "Second body"))
}

func TestDecode_HTMLOnlyMultipartHasNoBody(t *testing.T) {
	raw := crlf(`Subject: html
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary="b"

--b
Content-Type: text/html; charset=utf-8

<a href="http://1.2.3.4/">click</a>
--b--
`)

	msg, err := NewDecoder(nil, zap.NewNop()).Decode(raw)

	require.NoError(t, err)
	assert.Equal(t, "", msg.Body)
}

func TestDecode_CorruptPartIsSkipped(t *testing.T) {
	raw := crlf(`From: sender@example.com
Subject: Mixed
MIME-Version: 1.0
Content-Type: multipart/mixed; boundary="b"

--b
Content-Type: text/plain; charset=utf-8
Content-Transfer-Encoding: base64

Zm9vY
--b
Content-Type: text/plain; charset=utf-8

Good part text
--b--
`)

	msg, err := NewDecoder(nil, zap.NewNop()).Decode(raw)

	require.NoError(t, err)
	assert.Equal(t, "Good part text", strings.TrimSpace(msg.Body))
	assert.NotContains(t, msg.Body, "foo")
	assert.Empty(t, msg.Attachments)
}

func TestDecodeReader_ReadFailure(t *testing.T) {
	_, err := NewDecoder(nil, zap.NewNop()).DecodeReader(iotest.ErrReader(errors.New("disk gone")))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedMessage)
}

func TestPartText(t *testing.T) {
	d := NewDecoder(nil, zap.NewNop())

	tests := []struct {
		name   string
		part   *enmime.Part
		want   string
		wantOK bool
	}{
		{
			name:   "decoded content",
			part:   &enmime.Part{Content: []byte("hello")},
			want:   "hello",
			wantOK: true,
		},
		{
			name:   "empty content",
			part:   &enmime.Part{},
			wantOK: false,
		},
		{
			name: "severe error",
			part: &enmime.Part{
				Content: []byte("garbage"),
				Errors:  []*enmime.Error{{Name: "Malformed Base64", Detail: "bad", Severe: true}},
			},
			wantOK: false,
		},
		{
			name: "warning only",
			part: &enmime.Part{
				Content: []byte("still fine"),
				Errors:  []*enmime.Error{{Name: "Missing Boundary", Detail: "warn", Severe: false}},
			},
			want:   "still fine",
			wantOK: true,
		},
		{
			name:   "invalid utf-8 dropped",
			part:   &enmime.Part{Content: []byte("ok\xffay")},
			want:   "okay",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.partText(tt.part)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWalkOrder(t *testing.T) {
	root := &enmime.Part{PartID: "0"}
	a := &enmime.Part{PartID: "1"}
	a1 := &enmime.Part{PartID: "1.1"}
	b := &enmime.Part{PartID: "2"}
	root.FirstChild = a
	a.FirstChild = a1
	a.NextSibling = b

	var order []string
	walk(root, func(p *enmime.Part) {
		order = append(order, p.PartID)
	})

	assert.Equal(t, []string{"0", "1", "1.1", "2"}, order)
}

func TestJoinNonEmpty(t *testing.T) {
	assert.Equal(t, "", joinNonEmpty(nil))
	assert.Equal(t, "a\nb", joinNonEmpty([]string{"a", "", "b"}))
}
