// Package eml converts RFC 822 email files into indexable text. Headers
// are kept as a leading header block so the segmenter can detect and
// split the message as an email; sender and recipient addresses feed the
// contact metadata.
package eml

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
	"github.com/custodia-labs/docquery-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles EML (email) documents.
type Normaliser struct{}

// New creates a new EML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions handled.
func (n *Normaliser) Extensions() []string {
	return []string{".eml"}
}

// Normalise parses the email and rebuilds it as a header block followed
// by the best available text body.
func (n *Normaliser) Normalise(raw []byte, filename string) (string, domain.DocumentMetadata, error) {
	meta := domain.DocumentMetadata{Filename: filename, DocumentType: domain.TypeEmail}

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return "", meta, domain.ErrInvalidInput
	}

	from := decodeHeader(msg.Header.Get("From"))
	to := decodeHeader(msg.Header.Get("To"))
	subject := decodeHeader(msg.Header.Get("Subject"))
	date := msg.Header.Get("Date")

	body, err := messageBody(msg)
	if err != nil {
		return "", meta, err
	}

	var sb strings.Builder
	writeHeader(&sb, "From", from)
	writeHeader(&sb, "To", to)
	writeHeader(&sb, "Date", date)
	writeHeader(&sb, "Subject", subject)
	sb.WriteString("\n")
	sb.WriteString(body)

	meta.Date = date
	meta.People = senderNames(from, to)
	meta.Contacts = addressList(from, to)
	if subject != "" {
		meta.Summary = subject
	}

	return strings.TrimSpace(sb.String()), meta, nil
}

func writeHeader(sb *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	sb.WriteString(name)
	sb.WriteString(": ")
	sb.WriteString(value)
	sb.WriteString("\n")
}

// decodeHeader decodes RFC 2047 encoded headers.
func decodeHeader(header string) string {
	if header == "" {
		return ""
	}
	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(header)
	if err != nil {
		return header
	}
	return decoded
}

// senderNames extracts display names from address headers, falling back
// to the bare address when no name is present.
func senderNames(headers ...string) []string {
	var names []string
	for _, h := range headers {
		addrs, err := mail.ParseAddressList(h)
		if err != nil {
			continue
		}
		for _, a := range addrs {
			if a.Name != "" {
				names = append(names, a.Name)
			}
		}
	}
	return names
}

// addressList extracts bare email addresses from address headers.
func addressList(headers ...string) []string {
	var out []string
	for _, h := range headers {
		addrs, err := mail.ParseAddressList(h)
		if err != nil {
			continue
		}
		for _, a := range addrs {
			out = append(out, a.Address)
		}
	}
	return out
}

// messageBody extracts the text content of the message, preferring plain
// text parts over stripped HTML.
func messageBody(msg *mail.Message) (string, error) {
	contentType := msg.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		body, readErr := io.ReadAll(msg.Body)
		if readErr != nil {
			return "", domain.ErrInvalidInput
		}
		return string(body), nil
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		return multipartBody(msg.Body, params["boundary"])
	}

	body, err := io.ReadAll(msg.Body)
	if err != nil {
		return "", domain.ErrInvalidInput
	}
	if mediaType == "text/html" {
		return stripHTMLTags(string(body)), nil
	}
	return string(body), nil
}

// multipartBody walks the multipart tree collecting text parts.
func multipartBody(r io.Reader, boundary string) (string, error) {
	if boundary == "" {
		return "", nil
	}

	mr := multipart.NewReader(r, boundary)
	var textParts []string
	var htmlParts []string

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		mediaType, params, parseErr := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if parseErr != nil {
			mediaType = "application/octet-stream"
		}

		content, readErr := io.ReadAll(part)
		part.Close()
		if readErr != nil {
			continue
		}

		switch {
		case mediaType == "text/plain":
			textParts = append(textParts, string(content))
		case mediaType == "text/html":
			htmlParts = append(htmlParts, stripHTMLTags(string(content)))
		case strings.HasPrefix(mediaType, "multipart/"):
			nested, nestedErr := multipartBody(bytes.NewReader(content), params["boundary"])
			if nestedErr == nil && nested != "" {
				textParts = append(textParts, nested)
			}
		}
	}

	if len(textParts) > 0 {
		return strings.Join(textParts, "\n"), nil
	}
	if len(htmlParts) > 0 {
		return strings.Join(htmlParts, "\n"), nil
	}
	return "", nil
}

// stripHTMLTags removes HTML tags for basic text extraction.
func stripHTMLTags(html string) string {
	var result strings.Builder
	inTag := false

	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			result.WriteRune(r)
		}
	}

	lines := strings.Split(result.String(), "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
