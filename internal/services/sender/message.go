package sender

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"html/template"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/k3a/html2text"

	"github.com/magabrotheeeer/coleta-calendar/internal/models"
)

// AttachmentPrefix starts every calendar attachment name; the send date and
// ".pdf" follow.
const AttachmentPrefix = "calendario-coleta-sao-joao-ver-"

// CalendarEmail is one calendar delivery.
type CalendarEmail struct {
	To             string
	Template       models.EmailTemplate
	PDF            []byte
	UnsubscribeURL string
}

type bodyData struct {
	Greeting           string
	MainMessage        string
	PDFDescription     string
	Features           []string
	ClosingMessage     string
	Signature          string
	UnsubscribeMessage template.HTML
	UnsubscribeURL     string
	FooterMessage      string
	ContactEmail       string
}

// Message is a composed email ready for the DATA command.
type Message struct {
	ID   string
	Raw  []byte
	HTML string
	Text string
}

// AttachmentName returns the file name of the PDF sent on day t.
func AttachmentName(t time.Time) string {
	return AttachmentPrefix + t.UTC().Format("2006-01-02") + ".pdf"
}

// unsubscribeHTML escapes msg and swaps the contact placeholder for the
// highlighted address.
func unsubscribeHTML(msg, contact string) template.HTML {
	escaped := html.EscapeString(msg)
	highlighted := "<strong>" + html.EscapeString(contact) + "</strong>"
	return template.HTML(strings.ReplaceAll(escaped, models.ContactEmailPlaceholder, highlighted))
}

// RenderBody builds the HTML document and its plain-text alternative.
func RenderBody(tpl models.EmailTemplate, unsubscribeURL, contactEmail string) (htmlDoc, text string, err error) {
	data := bodyData{
		Greeting:           tpl.Greeting,
		MainMessage:        tpl.MainMessage,
		PDFDescription:     tpl.PDFDescription,
		Features:           tpl.Features,
		ClosingMessage:     tpl.ClosingMessage,
		Signature:          tpl.Signature,
		UnsubscribeMessage: unsubscribeHTML(tpl.UnsubscribeMessage, contactEmail),
		UnsubscribeURL:     unsubscribeURL,
		FooterMessage:      tpl.FooterMessage,
		ContactEmail:       contactEmail,
	}

	var doc, body bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&doc, "document", data); err != nil {
		return "", "", err
	}
	if err := emailTemplates.ExecuteTemplate(&body, "body", data); err != nil {
		return "", "", err
	}
	text = html2text.HTML2Text(body.String()) + "\n\n" + unsubscribeURL + "\n"
	return doc.String(), text, nil
}

// Compose builds the full multipart message: an alternative text/html body
// followed by the PDF attachment.
func Compose(from mail.Address, email CalendarEmail, contactEmail string, now time.Time) (*Message, error) {
	htmlDoc, text, err := RenderBody(email.Template, email.UnsubscribeURL, contactEmail)
	if err != nil {
		return nil, fmt.Errorf("render body: %w", err)
	}

	id := fmt.Sprintf("<%s@%s>", uuid.NewString(), domainOf(from.Address))
	to := mail.Address{Address: email.To}

	var alt bytes.Buffer
	altWriter := multipart.NewWriter(&alt)
	if err := writeQuotedPart(altWriter, "text/plain; charset=UTF-8", text); err != nil {
		return nil, err
	}
	if err := writeQuotedPart(altWriter, "text/html; charset=UTF-8", htmlDoc); err != nil {
		return nil, err
	}
	if err := altWriter.Close(); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	mixed := multipart.NewWriter(&body)

	altPart, err := mixed.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"multipart/alternative; boundary=" + altWriter.Boundary()},
	})
	if err != nil {
		return nil, err
	}
	if _, err := altPart.Write(alt.Bytes()); err != nil {
		return nil, err
	}

	filename := AttachmentName(now)
	pdfPart, err := mixed.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {mime.FormatMediaType("application/pdf", map[string]string{"name": filename})},
		"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": filename})},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return nil, err
	}
	if err := writeBase64(pdfPart, email.PDF); err != nil {
		return nil, err
	}
	if err := mixed.Close(); err != nil {
		return nil, err
	}

	var raw bytes.Buffer
	headers := [][2]string{
		{"From", from.String()},
		{"To", to.String()},
		{"Subject", mime.QEncoding.Encode("utf-8", email.Template.Subject)},
		{"Date", now.Format(time.RFC1123Z)},
		{"Message-ID", id},
		{"MIME-Version", "1.0"},
	}
	if email.UnsubscribeURL != "" {
		headers = append(headers, [2]string{"List-Unsubscribe", "<" + email.UnsubscribeURL + ">"})
	}
	headers = append(headers, [2]string{"Content-Type", "multipart/mixed; boundary=" + mixed.Boundary()})
	for _, h := range headers {
		fmt.Fprintf(&raw, "%s: %s\r\n", h[0], h[1])
	}
	raw.WriteString("\r\n")
	raw.Write(body.Bytes())

	return &Message{ID: id, Raw: raw.Bytes(), HTML: htmlDoc, Text: text}, nil
}

func writeQuotedPart(w *multipart.Writer, contentType, content string) error {
	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return err
	}
	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write([]byte(content)); err != nil {
		return err
	}
	return qp.Close()
}

// writeBase64 encodes data in 76 character lines.
func writeBase64(w io.Writer, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	const lineLen = 76
	for len(encoded) > 0 {
		n := min(lineLen, len(encoded))
		if _, err := io.WriteString(w, encoded[:n]+"\r\n"); err != nil {
			return err
		}
		encoded = encoded[n:]
	}
	return nil
}

func domainOf(address string) string {
	if i := strings.LastIndex(address, "@"); i >= 0 && i < len(address)-1 {
		return address[i+1:]
	}
	return "localhost"
}
