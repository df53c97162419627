package worksheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"learn-proxy/api/internal/learn"
)

type Config struct {
	PageSize   string
	MarginsMM  float64
	FontFamily string
}

func DefaultConfig() Config {
	return Config{PageSize: "A4", MarginsMM: 15, FontFamily: "Helvetica"}
}

// Generator renders practice sets as printable worksheets.
type Generator struct {
	cfg Config
}

func New(cfg Config) *Generator {
	return &Generator{cfg: cfg}
}

// Title is the heading printed on both pages, e.g. "Math Practice: Prime Numbers".
func Title(subject learn.Subject, topic string) string {
	c := cases.Title(language.English)
	return fmt.Sprintf("%s Practice: %s", c.String(string(subject)), c.String(strings.TrimSpace(topic)))
}

// Render writes a two-part PDF to w: the questions with blank answer lines,
// then an answer key with explanations.
func (g *Generator) Render(w io.Writer, subject learn.Subject, ps learn.PracticeResponse) error {
	if len(ps.Problems) == 0 {
		return errors.New("worksheet: no problems to render")
	}
	pdf := fpdf.New("P", "mm", g.cfg.PageSize, "")
	pdf.SetMargins(g.cfg.MarginsMM, g.cfg.MarginsMM, g.cfg.MarginsMM)
	pdf.SetAutoPageBreak(true, g.cfg.MarginsMM)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	title := Title(subject, ps.Topic)
	pdf.SetTitle(title, true)

	pdf.AddPage()
	g.heading(pdf, tr(title), tr("Difficulty: "+cases.Title(language.English).String(ps.Difficulty)))
	for i, p := range ps.Problems {
		pdf.SetFont(g.cfg.FontFamily, "B", 12)
		pdf.MultiCell(0, 7, tr(fmt.Sprintf("%d. %s", i+1, p.Question)), "", "L", false)
		pdf.SetFont(g.cfg.FontFamily, "", 11)
		for _, opt := range p.Options {
			pdf.MultiCell(0, 6, tr("    "+opt), "", "L", false)
		}
		if p.Hint != "" {
			pdf.SetFont(g.cfg.FontFamily, "I", 10)
			pdf.MultiCell(0, 6, tr("Hint: "+p.Hint), "", "L", false)
		}
		pdf.SetFont(g.cfg.FontFamily, "", 11)
		pdf.MultiCell(0, 8, "Answer: ______________________", "", "L", false)
		pdf.Ln(3)
	}

	pdf.AddPage()
	g.heading(pdf, tr(title+" - Answer Key"), "")
	for i, p := range ps.Problems {
		pdf.SetFont(g.cfg.FontFamily, "B", 12)
		pdf.MultiCell(0, 7, tr(fmt.Sprintf("%d. %s", i+1, p.Answer)), "", "L", false)
		pdf.SetFont(g.cfg.FontFamily, "", 11)
		pdf.MultiCell(0, 6, tr(p.Explanation), "", "L", false)
		pdf.Ln(3)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("worksheet: %w", err)
	}
	return pdf.Output(w)
}

func (g *Generator) heading(pdf *fpdf.Fpdf, title, sub string) {
	pdf.SetFont(g.cfg.FontFamily, "B", 20)
	pdf.CellFormat(0, 12, title, "", 1, "C", false, 0, "")
	if sub != "" {
		pdf.SetFont(g.cfg.FontFamily, "", 12)
		pdf.CellFormat(0, 8, sub, "", 1, "C", false, 0, "")
	}
	pdf.Ln(6)
}

// Filename turns a topic into a download name like "long-division-worksheet.pdf".
func Filename(topic string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(topic)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	name := strings.Trim(b.String(), "-")
	if name == "" {
		name = "practice"
	}
	return name + "-worksheet.pdf"
}
