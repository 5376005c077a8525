package filter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/phish-filter/internal/config"
	"github.com/mikey/phish-filter/internal/core"
	"github.com/mikey/phish-filter/internal/whitelist"
	"go.uber.org/zap"
)

// errorHeader carries the decode error when a message could not be analyzed
const errorHeader = "X-Phish-Analysis-Error"

// PostfixFilter implements a Postfix after-queue content filter that tags messages
// with their phishing score and optionally rejects high-risk mail
type PostfixFilter struct {
	service        *core.PhishService
	trusted        *whitelist.Checker
	logger         *zap.Logger
	listenAddr     string
	timeout        time.Duration
	server         *smtp.Server
	blockPhish     bool
	blockThreshold int
	scoreHeader    string
	levelHeader    string
	reasonsHeader  string
	postfixAddr    string
	postfixPort    int
	postfixEnabled bool
	subjectPrefix  string
	modifySubject  bool

	// deliver hands the tagged message to the next hop
	deliver func(sender string, recipients []string, data []byte) error
}

// NewPostfixFilter creates a new Postfix content filter
func NewPostfixFilter(
	service *core.PhishService,
	trusted *whitelist.Checker,
	logger *zap.Logger,
	server config.ServerConfig,
	blockThreshold int,
) *PostfixFilter {
	subjectPrefix := server.SubjectPrefix
	if subjectPrefix == "" && server.ModifySubject {
		subjectPrefix = "[PHISH?] "
	}
	if trusted == nil {
		trusted = whitelist.NewChecker(nil, logger)
	}

	f := &PostfixFilter{
		service:        service,
		trusted:        trusted,
		logger:         logger,
		listenAddr:     server.ListenAddress,
		timeout:        server.Timeout,
		blockPhish:     server.BlockPhish,
		blockThreshold: blockThreshold,
		scoreHeader:    server.ScoreHeader,
		levelHeader:    server.LevelHeader,
		reasonsHeader:  server.ReasonsHeader,
		postfixAddr:    server.PostfixAddress,
		postfixPort:    server.PostfixPort,
		postfixEnabled: server.PostfixEnabled,
		subjectPrefix:  subjectPrefix,
		modifySubject:  server.ModifySubject,
	}
	f.deliver = f.sendToPostfix
	return f
}

// Start starts the Postfix filter service
func (f *PostfixFilter) Start() error {
	f.server = smtp.NewServer(&smtpBackend{filter: f})

	f.server.Addr = f.listenAddr
	f.server.Domain = "localhost"
	f.server.ReadTimeout = f.timeout
	f.server.WriteTimeout = f.timeout
	f.server.MaxMessageBytes = 30 * 1024 * 1024 // 30MB
	f.server.MaxRecipients = 50
	f.server.AllowInsecureAuth = true

	f.logger.Info("Postfix filter starting", zap.String("address", f.listenAddr))

	go func() {
		if err := f.server.ListenAndServe(); err != nil {
			if !errors.Is(err, smtp.ErrServerClosed) {
				f.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the Postfix filter service
func (f *PostfixFilter) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// ProcessEmail analyzes a raw message without delivering it
func (f *PostfixFilter) ProcessEmail(ctx context.Context, raw []byte) (*core.Analysis, error) {
	return f.service.AnalyzeMessage(raw)
}

// ProcessText analyzes free text without delivering anything
func (f *PostfixFilter) ProcessText(ctx context.Context, text string) (*core.Analysis, error) {
	return f.service.AnalyzeText(text), nil
}

// shouldReject reports whether a message from the envelope sender with the given analysis
// is refused. A message is exempt only when the envelope sender and the header From, if
// present, are both trusted.
func (f *PostfixFilter) shouldReject(sender string, analysis *core.Analysis) bool {
	if !f.blockPhish || analysis == nil {
		return false
	}
	if analysis.Result.Score < f.blockThreshold {
		return false
	}
	if !f.trusted.IsWhitelisted(sender) {
		return true
	}
	if analysis.Message != nil && analysis.Message.Headers.From != "" {
		return !f.trusted.IsWhitelisted(analysis.Message.Headers.From)
	}
	return false
}

// tagHeaders builds the headers prepended to an analyzed message
func (f *PostfixFilter) tagHeaders(analysis *core.Analysis, analysisErr error) [][2]string {
	if analysisErr != nil {
		return [][2]string{{errorHeader, analysisErr.Error()}}
	}
	headers := [][2]string{
		{f.scoreHeader, strconv.Itoa(analysis.Result.Score)},
		{f.levelHeader, string(analysis.Level)},
	}
	if len(analysis.Result.Reasons) > 0 {
		headers = append(headers, [2]string{
			f.reasonsHeader,
			mime.QEncoding.Encode("utf-8", strings.Join(analysis.Result.Reasons, "; ")),
		})
	}
	return headers
}

// tagMessage prepends headers to raw and optionally prefixes the Subject. The original
// header block and body are otherwise left untouched.
func tagMessage(raw []byte, headers [][2]string, subjectPrefix string, currentSubject string) []byte {
	eol := "\n"
	if bytes.Contains(raw, []byte("\r\n")) {
		eol = "\r\n"
	}

	var out bytes.Buffer
	for _, h := range headers {
		out.WriteString(foldHeader(h[0], h[1], eol))
	}

	if subjectPrefix == "" || strings.HasPrefix(currentSubject, subjectPrefix) {
		out.Write(raw)
		return out.Bytes()
	}

	headerEnd := bytes.Index(raw, []byte(eol+eol))
	if headerEnd < 0 {
		headerEnd = len(raw)
	}
	head := raw[:headerEnd]

	idx := findHeaderLine(head, "Subject", eol)
	if idx < 0 {
		out.WriteString("Subject: " + strings.TrimSpace(subjectPrefix) + eol)
		out.Write(raw)
		return out.Bytes()
	}

	valueStart := idx + len("Subject:")
	for valueStart < len(raw) && (raw[valueStart] == ' ' || raw[valueStart] == '\t') {
		valueStart++
	}
	out.Write(raw[:valueStart])
	out.WriteString(subjectPrefix)
	out.Write(raw[valueStart:])
	return out.Bytes()
}

// findHeaderLine returns the offset of the header line called name within head, or -1
func findHeaderLine(head []byte, name string, eol string) int {
	offset := 0
	for _, line := range strings.Split(string(head), eol) {
		if len(line) > len(name) && line[len(name)] == ':' && strings.EqualFold(line[:len(name)], name) {
			return offset
		}
		offset += len(line) + len(eol)
	}
	return -1
}

// foldHeader renders a header line folded on spaces at roughly 76 columns
func foldHeader(name, value, eol string) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteString(":")
	lineLen := len(name) + 1
	for _, word := range strings.Fields(value) {
		if lineLen+1+len(word) > 76 && lineLen > len(name)+1 {
			b.WriteString(eol)
			lineLen = 0
		}
		b.WriteString(" ")
		b.WriteString(word)
		lineLen += 1 + len(word)
	}
	b.WriteString(eol)
	return b.String()
}

// sendToPostfix sends the processed email back to Postfix on the configured port using go-smtp
func (f *PostfixFilter) sendToPostfix(sender string, recipients []string, emailData []byte) error {
	if !f.postfixEnabled {
		f.logger.Warn("Postfix forwarding disabled, message not re-injected")
		return nil
	}

	postfixAddr := net.JoinHostPort(f.postfixAddr, strconv.Itoa(f.postfixPort))

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", postfixAddr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to Postfix: %w", err)
	}

	if err := conn.SetDeadline(time.Now().Add(f.timeout)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
		} else {
			recipientOK = true
		}
	}

	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}

	if _, err := wc.Write(emailData); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	// The message is already accepted at this point
	if err := c.Quit(); err != nil {
		f.logger.Warn("QUIT command failed", zap.Error(err))
	}

	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	filter *PostfixFilter
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{
		filter:     b.filter,
		recipients: make([]string, 0),
	}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	filter     *PostfixFilter
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data analyzes, tags and forwards the message
func (s *smtpSession) Data(r io.Reader) error {
	f := s.filter

	rawData, err := io.ReadAll(r)
	if err != nil {
		f.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	senderDomain := whitelist.SenderDomain(s.sender)
	if senderDomain == "" {
		senderDomain = "unknown"
	}

	analysis, analysisErr := f.service.AnalyzeMessage(rawData)
	if analysisErr != nil {
		// Undecodable mail is passed through untagged apart from the error header
		f.logger.Error("Failed to analyze message",
			zap.Error(analysisErr),
			zap.String("sender", s.sender),
			zap.String("sender_domain", senderDomain))
	}

	if f.shouldReject(s.sender, analysis) {
		f.logger.Info("Rejecting phishing email",
			zap.String("from", s.sender),
			zap.String("sender_domain", senderDomain),
			zap.Int("score", analysis.Result.Score),
			zap.Strings("reasons", analysis.Result.Reasons))
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 7, 1},
			Message:      fmt.Sprintf("Rejected as likely phishing (score: %d)", analysis.Result.Score),
		}
	}

	prefix := ""
	currentSubject := ""
	if analysisErr == nil && f.modifySubject && analysis.Result.Score >= f.blockThreshold {
		prefix = f.subjectPrefix
		currentSubject = analysis.Message.Headers.Subject
	}
	tagged := tagMessage(rawData, f.tagHeaders(analysis, analysisErr), prefix, currentSubject)

	if err := f.deliver(s.sender, s.recipients, tagged); err != nil {
		f.logger.Error("Failed to send email back to Postfix",
			zap.Error(err),
			zap.String("sender", s.sender))
		return err
	}

	if analysisErr == nil {
		f.logger.Info("Processed email",
			zap.String("from", s.sender),
			zap.String("sender_domain", senderDomain),
			zap.Int("score", analysis.Result.Score),
			zap.String("level", string(analysis.Level)))
	}

	return nil
}

// Logout handles SMTP logout
func (s *smtpSession) Logout() error {
	return nil
}
