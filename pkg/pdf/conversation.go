package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	DefaultTitle    = "Conversación"
	timestampLayout = "2006-01-02 15:04"
)

// Line is one message of an exported conversation.
type Line struct {
	Role      string
	Content   string
	Timestamp time.Time
}

func RoleLabel(role string) string {
	if role == "user" {
		return "Usuario"
	}
	return "Asistente"
}

// RenderConversation lays out the conversation as a letter-size document:
// bold title, then one block per message headed by role and timestamp.
func RenderConversation(title string, lines []Line) ([]byte, error) {
	if title == "" {
		title = DefaultTitle
	}

	doc := fpdf.New("P", "mm", "Letter", "")
	// Core fonts are cp1252; translate so Spanish accents render.
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetTitle(title, true)
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.MultiCell(0, 9, tr(title), "", "C", false)
	doc.Ln(6)

	for _, l := range lines {
		header := fmt.Sprintf("%s - %s", RoleLabel(l.Role), l.Timestamp.Format(timestampLayout))
		doc.SetFont("Helvetica", "B", 11)
		doc.CellFormat(0, 6, tr(header), "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 11)
		doc.MultiCell(0, 5.5, tr(l.Content), "", "L", false)
		doc.Ln(4)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render conversation pdf: %w", err)
	}
	return buf.Bytes(), nil
}
