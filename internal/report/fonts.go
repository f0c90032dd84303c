package report

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

// Font files expected under Renderer.FontDir. DejaVu covers Latin, Cyrillic
// and the Kazakh extensions; Noto Sans SC covers CJK.
const (
	fontBodyFile   = "DejaVuSans.ttf"
	fontBoldFile   = "DejaVuSans-Bold.ttf"
	fontItalicFile = "DejaVuSans-Oblique.ttf"
	fontCJKFile    = "NotoSansSC-Regular.ttf"
)

type pdfFonts struct {
	body    string
	unicode bool
}

// registerFonts loads the UTF-8 TrueType fonts from dir into the document.
// Chinese reports use the CJK font for all styles; everything else uses the
// DejaVu family. When no usable font file is found the core Helvetica fonts
// are used instead; output still succeeds but non-Latin text will not
// render, which is logged rather than treated as an error.
func registerFonts(pdf *fpdf.Fpdf, dir string, lang string, log *slog.Logger) pdfFonts {
	type variant struct{ style, file string }
	variants := []variant{
		{"", fontBodyFile},
		{"B", fontBoldFile},
		{"I", fontItalicFile},
	}
	if lang == "zh" {
		variants = []variant{{"", fontCJKFile}, {"B", fontCJKFile}, {"I", fontCJKFile}}
	}

	regular := filepath.Join(dir, variants[0].file)
	if dir == "" || !fileExists(regular) {
		log.Warn("report: unicode fonts unavailable, PDF falls back to core fonts",
			"font_dir", dir, "lang", lang)
		return pdfFonts{body: "Helvetica"}
	}
	for _, v := range variants {
		path := filepath.Join(dir, v.file)
		if !fileExists(path) {
			path = regular
		}
		pdf.AddUTF8Font("body", v.style, path)
	}
	return pdfFonts{body: "body", unicode: true}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
