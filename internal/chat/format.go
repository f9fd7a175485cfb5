package chat

import (
	"fmt"
	"strings"
)

// Formatter turns search results into chat deliverables: a bounded inline
// preview, a downloadable payload with the full batch, and pagination
// controls. Pagination is backed by the delivery ledger rather than the
// transient result batch, so page buttons keep working after the originating
// session (and process) is gone.
type Formatter struct {
	previewLines int
}

// NewFormatter creates a formatter with the given preview size. The preview
// is always smaller than the search cap.
func NewFormatter(previewLines int) *Formatter {
	return &Formatter{previewLines: previewLines}
}

// PageSize returns the number of lines per pagination page.
func (f *Formatter) PageSize() int {
	return f.previewLines
}

// ResultFilename names the downloadable payload after the keyword and result
// count. Purely cosmetic: nothing parses it back.
func (f *Formatter) ResultFilename(keyword string, count int) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, keyword)
	if safe == "" {
		safe = "search"
	}
	return fmt.Sprintf("results_%s_%d.txt", safe, count)
}

// ResultDocument serializes the full batch as a newline-joined payload.
func (f *Formatter) ResultDocument(chatID int64, keyword string, lines []string, capped bool, cap int) Document {
	caption := fmt.Sprintf("%d new lines for %q", len(lines), keyword)
	if capped {
		caption += fmt.Sprintf(" (capped at %d, search again for more)", cap)
	}
	return Document{
		ChatID:   chatID,
		Filename: f.ResultFilename(keyword, len(lines)),
		Content:  []byte(strings.Join(lines, "\n")),
		Caption:  caption,
	}
}

// ResultPreview builds the inline preview message. total is the ledger's
// overall count for this user and keyword; when it exceeds the preview size
// the message carries pagination buttons starting at page zero.
func (f *Formatter) ResultPreview(chatID int64, keyword string, lines []string, total int) Message {
	preview := lines
	if len(preview) > f.previewLines {
		preview = preview[:f.previewLines]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Results for %q (%d new):\n\n", keyword, len(lines))
	for _, line := range preview {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if len(lines) > len(preview) {
		fmt.Fprintf(&b, "\n… and %d more in the attached file", len(lines)-len(preview))
	}

	msg := Message{ChatID: chatID, Text: b.String()}
	if total > f.previewLines {
		msg.Buttons = f.PageButtons(keyword, 0, total)
	}
	return msg
}

// PageMessage renders one ledger page with prev/next controls.
func (f *Formatter) PageMessage(chatID int64, keyword string, lines []string, offset, total int) Message {
	var b strings.Builder
	from := offset + 1
	to := offset + len(lines)
	fmt.Fprintf(&b, "%q lines %d–%d of %d:\n\n", keyword, from, to, total)
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	return Message{
		ChatID:  chatID,
		Text:    b.String(),
		Buttons: f.PageButtons(keyword, offset, total),
	}
}

// PageButtons builds prev/next buttons for the ledger page at offset. The
// keyword and target offset are encoded in the action tag.
func (f *Formatter) PageButtons(keyword string, offset, total int) [][]Button {
	var row []Button
	if offset > 0 {
		prev := offset - f.previewLines
		if prev < 0 {
			prev = 0
		}
		row = append(row, Button{
			Label:  "⬅️ Prev",
			Action: EncodePageAction(keyword, prev),
		})
	}
	if offset+f.previewLines < total {
		row = append(row, Button{
			Label:  "Next ➡️",
			Action: EncodePageAction(keyword, offset+f.previewLines),
		})
	}
	if row == nil {
		return nil
	}
	return [][]Button{row}
}
