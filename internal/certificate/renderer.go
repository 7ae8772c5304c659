package certificate

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	id "symposia/pkg/domain"
)

// Certificates are always one landscape A4 page.
const (
	PageWidthPt  = 841.89
	PageHeightPt = 595.28
)

// RenderError is a fatal failure for one render: the template references a
// background asset that cannot be used. It carries enough context for the
// operator to fix the template.
type RenderError struct {
	TemplateID id.TemplateID
	AssetPath  string
	cause      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render template %s: background asset %q: %v", e.TemplateID, e.AssetPath, e.cause)
}

func (e *RenderError) Unwrap() error { return e.cause }

// RenderOptions tune one render call.
type RenderOptions struct {
	// DrawBackground disables the backdrop when false, for printing onto
	// pre-printed stock.
	DrawBackground bool
}

// Renderer draws resolved template fields onto a PDF page.
type Renderer struct {
	assetDir string
}

func NewRenderer(assetDir string) *Renderer {
	return &Renderer{assetDir: assetDir}
}

// Render produces the one-page PDF for a template and its resolved field
// texts. texts is positionally aligned with template.Fields.
//
// A missing or unreadable background is fatal and returns *RenderError.
// Unknown fonts and colors degrade silently to Helvetica and black.
func (r *Renderer) Render(template *Template, texts []string, opts RenderOptions) ([]byte, error) {
	pdf := gofpdf.New("L", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	if opts.DrawBackground && template.Background != "" {
		path := filepath.Join(r.assetDir, template.Background)
		if _, err := os.Stat(path); err != nil {
			return nil, &RenderError{TemplateID: template.ID, AssetPath: path, cause: err}
		}
		pdf.ImageOptions(path, 0, 0, PageWidthPt, PageHeightPt, false, gofpdf.ImageOptions{}, 0, "")
		if pdf.Err() {
			return nil, &RenderError{TemplateID: template.ID, AssetPath: path, cause: pdf.Error()}
		}
	}

	for i, field := range template.Fields {
		text := ""
		if i < len(texts) {
			text = texts[i]
		}
		if text == "" {
			continue
		}
		r.drawField(pdf, template.Unit, field, text)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render template %s: %w", template.ID, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawField(pdf *gofpdf.Fpdf, unit Unit, field Field, text string) {
	x := unit.ToPoints(field.X)
	y := unit.ToPoints(field.Y)

	family, style := fontFace(field.Font)
	size := field.Size
	if size <= 0 {
		size = 12
	}
	pdf.SetFont(family, style, size)
	pdf.SetTextColor(parseColor(field.Color))

	if field.Rotation != 0 {
		pdf.TransformBegin()
		pdf.TransformRotate(field.Rotation, x, y)
		defer pdf.TransformEnd()
	}

	if field.MaxWidth > 0 {
		pdf.SetXY(x, y)
		pdf.CellFormat(unit.ToPoints(field.MaxWidth), size, text, "", 0, cellAlign(field.Align), false, 0, "")
		return
	}

	drawX := x
	switch field.Align {
	case AlignCenter:
		drawX = x - pdf.GetStringWidth(text)/2
	case AlignRight:
		drawX = x - pdf.GetStringWidth(text)
	}
	// Text anchors at the baseline; shift down so (x, y) is the top edge,
	// matching how template editors position fields.
	pdf.Text(drawX, y+size, text)
}

// fontFace maps a template font name onto a PDF core face. Unknown names
// fall back to Helvetica rather than failing the render.
func fontFace(name string) (family, style string) {
	base := strings.ToLower(name)
	if strings.HasSuffix(base, "-bold") {
		base = strings.TrimSuffix(base, "-bold")
		style = "B"
	} else if strings.HasSuffix(base, "-italic") {
		base = strings.TrimSuffix(base, "-italic")
		style = "I"
	}
	switch base {
	case "courier":
		return "Courier", style
	case "times", "times new roman":
		return "Times", style
	case "helvetica", "arial", "":
		return "Helvetica", style
	default:
		return "Helvetica", style
	}
}

// parseColor decodes "#RRGGBB"; anything else is black.
func parseColor(hex string) (red, green, blue int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0
	}
	value, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(value >> 16 & 0xff), int(value >> 8 & 0xff), int(value & 0xff)
}

func cellAlign(a Align) string {
	switch a {
	case AlignCenter:
		return "C"
	case AlignRight:
		return "R"
	default:
		return "L"
	}
}
