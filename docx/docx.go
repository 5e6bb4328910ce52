// Package docx reads Word documents (OOXML) into the content model:
// an ordered stream of classified paragraph and table blocks plus side
// registries of embedded images, hyperlinks and tables.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppichler/issuedoc/content"
)

// Extract reads a .docx file and produces the full extraction result.
// Blocks appear in document body order; the image registry follows the
// order of image relationships in the document part, which matches
// paragraph traversal order for inline images (a documented precondition
// of ordinal linking, not something this package verifies).
func Extract(path string) (*content.Document, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening docx: %w", err)
	}
	defer r.Close()

	fileIndex := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		fileIndex[f.Name] = f
	}

	docFile := fileIndex["word/document.xml"]
	if docFile == nil {
		return nil, fmt.Errorf("word/document.xml not found in archive")
	}
	data, err := readZipFile(docFile)
	if err != nil {
		return nil, fmt.Errorf("reading document.xml: %w", err)
	}

	rels := parseRels(fileIndex)
	styles := parseStyles(fileIndex)

	doc := &content.Document{
		Path:   path,
		Images: extractImages(rels, fileIndex),
	}

	if err := walkBody(data, rels, styles, doc); err != nil {
		return nil, fmt.Errorf("parsing document body: %w", err)
	}

	slog.Info("docx: extraction complete",
		"file", filepath.Base(path),
		"blocks", len(doc.Blocks),
		"images", len(doc.Images),
		"links", len(doc.Links),
		"tables", len(doc.Tables))
	return doc, nil
}

// --- relationships ---

type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type relationships struct {
	XMLName xml.Name       `xml:"Relationships"`
	Rels    []relationship `xml:"Relationship"`
}

// docRels holds the document part's relationships, both by ID and in
// file order (image extraction depends on the latter).
type docRels struct {
	byID    map[string]relationship
	ordered []relationship
}

func parseRels(fileIndex map[string]*zip.File) docRels {
	out := docRels{byID: make(map[string]relationship)}

	relsFile := fileIndex["word/_rels/document.xml.rels"]
	if relsFile == nil {
		return out
	}
	data, err := readZipFile(relsFile)
	if err != nil {
		return out
	}

	var rels relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return out
	}
	for _, rel := range rels.Rels {
		out.byID[rel.ID] = rel
		out.ordered = append(out.ordered, rel)
	}
	return out
}

// --- styles ---

type stylesXML struct {
	XMLName xml.Name   `xml:"styles"`
	Styles  []styleDef `xml:"style"`
}

type styleDef struct {
	ID   string `xml:"styleId,attr"`
	Name struct {
		Val string `xml:"val,attr"`
	} `xml:"name"`
}

// parseStyles maps style IDs to display names, so "ListParagraph"
// resolves to "List Paragraph" the way the classifier expects.
func parseStyles(fileIndex map[string]*zip.File) map[string]string {
	out := make(map[string]string)

	stylesFile := fileIndex["word/styles.xml"]
	if stylesFile == nil {
		return out
	}
	data, err := readZipFile(stylesFile)
	if err != nil {
		return out
	}

	var s stylesXML
	if err := xml.Unmarshal(data, &s); err != nil {
		return out
	}
	for _, def := range s.Styles {
		if def.ID != "" && def.Name.Val != "" {
			out[def.ID] = def.Name.Val
		}
	}
	return out
}

// --- images ---

// extractImages pulls every embedded image from the media folder, in
// relationship order. Filenames are synthesized as image_N with the
// original extension, matching the 1-based ordinals recorded on blocks.
func extractImages(rels docRels, fileIndex map[string]*zip.File) []content.Image {
	var images []content.Image

	for _, rel := range rels.ordered {
		if !strings.Contains(rel.Type, "/image") {
			continue
		}

		mediaPath := filepath.Clean("word/" + rel.Target)
		mediaPath = strings.ReplaceAll(mediaPath, "\\", "/")
		zf := fileIndex[mediaPath]
		if zf == nil {
			slog.Debug("docx: image target not in archive", "rId", rel.ID, "path", mediaPath)
			continue
		}

		data, err := readZipFile(zf)
		if err != nil {
			slog.Debug("docx: reading image failed", "rId", rel.ID, "error", err)
			continue
		}

		ext := strings.ToLower(filepath.Ext(rel.Target))
		if ext == "" {
			ext = ".png"
		}
		images = append(images, content.Image{
			Filename: fmt.Sprintf("image_%d%s", len(images)+1, ext),
			Size:     len(data),
			Data:     data,
		})
	}
	return images
}

// SaveImages writes the registry to dir and records each image's path.
// Used when the caller wants images on disk, e.g. for manual review.
func SaveImages(doc *content.Document, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating image dir: %w", err)
	}
	for i := range doc.Images {
		p := filepath.Join(dir, doc.Images[i].Filename)
		if err := os.WriteFile(p, doc.Images[i].Data, 0o644); err != nil {
			return fmt.Errorf("saving %s: %w", doc.Images[i].Filename, err)
		}
		doc.Images[i].Path = p
	}
	return nil
}

// --- body XML ---

type xmlStyleRef struct {
	Val string `xml:"val,attr"`
}

type xmlParaProps struct {
	Style *xmlStyleRef `xml:"pStyle"`
}

type xmlBlip struct {
	Embed string `xml:"embed,attr"`
}

type xmlGraphicHolder struct {
	Blips []xmlBlip `xml:"graphic>graphicData>pic>blipFill>blip"`
}

type xmlDrawing struct {
	Inline *xmlGraphicHolder `xml:"inline"`
	Anchor *xmlGraphicHolder `xml:"anchor"`
}

type xmlRun struct {
	Texts    []string     `xml:"t"`
	Drawings []xmlDrawing `xml:"drawing"`
}

type xmlHyperlink struct {
	ID   string   `xml:"id,attr"`
	Runs []xmlRun `xml:"r"`
}

type xmlPara struct {
	Props      *xmlParaProps  `xml:"pPr"`
	Runs       []xmlRun       `xml:"r"`
	Hyperlinks []xmlHyperlink `xml:"hyperlink"`
}

type xmlCell struct {
	Paras []xmlPara `xml:"p"`
}

type xmlRow struct {
	Cells []xmlCell `xml:"tc"`
}

type xmlTable struct {
	Rows []xmlRow `xml:"tr"`
}

// walkBody streams through document.xml, decoding paragraphs and tables
// in the order they appear so issue segmentation sees the true content
// sequence. Tables are decoded whole, which also consumes their nested
// paragraphs.
func walkBody(data []byte, rels docRels, styles map[string]string, doc *content.Document) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	imageCounter := 0
	tableCounter := 0
	inBody := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "body":
			inBody = true
		case "p":
			if !inBody {
				continue
			}
			var para xmlPara
			if err := decoder.DecodeElement(&para, &start); err != nil {
				return err
			}
			appendParagraph(doc, para, rels, styles, &imageCounter)
		case "tbl":
			if !inBody {
				continue
			}
			var tbl xmlTable
			if err := decoder.DecodeElement(&tbl, &start); err != nil {
				return err
			}
			tableCounter++
			appendTable(doc, tbl, rels, tableCounter)
		}
	}
	return nil
}

// appendParagraph converts one paragraph into a classified block.
// Paragraphs with no text, image or link are dropped.
func appendParagraph(doc *content.Document, para xmlPara, rels docRels, styles map[string]string, imageCounter *int) {
	text := strings.TrimSpace(paraText(para))

	hasImage := false
	for _, run := range para.Runs {
		if runHasImage(run) {
			hasImage = true
			*imageCounter++
		}
	}

	links := paraLinks(para, rels)
	if text == "" && !hasImage && len(links) == 0 {
		return
	}

	styleName := paraStyleName(para, styles)
	kind, level := content.Classify(text, styleName)

	block := content.Block{
		Kind:         kind,
		Text:         text,
		StyleName:    styleName,
		HeadingLevel: level,
		HasImage:     hasImage,
		Links:        links,
	}
	if hasImage {
		block.ImageRef = *imageCounter
	}

	doc.Blocks = append(doc.Blocks, block)
	doc.Links = append(doc.Links, links...)
}

// appendTable converts one table into a table block plus a registry
// entry.
func appendTable(doc *content.Document, tbl xmlTable, rels docRels, number int) {
	t := content.Table{
		Number:   number,
		RowCount: len(tbl.Rows),
	}

	var formatted []string
	for rowIdx, row := range tbl.Rows {
		var cells []content.Cell
		var texts []string
		for _, cell := range row.Cells {
			var cellParts []string
			var cellLinks []content.Link
			for _, p := range cell.Paras {
				if pt := strings.TrimSpace(paraText(p)); pt != "" {
					cellParts = append(cellParts, pt)
				}
				cellLinks = append(cellLinks, paraLinks(p, rels)...)
			}
			cellText := strings.Join(cellParts, " ")
			cells = append(cells, content.Cell{Text: cellText, Links: cellLinks})
			texts = append(texts, cellText)
			doc.Links = append(doc.Links, cellLinks...)
		}
		t.Rows = append(t.Rows, cells)
		formatted = append(formatted, strings.Join(texts, " | "))
		if rowIdx == 0 {
			t.Headers = texts
			t.ColCount = len(cells)
		}
	}
	t.FormattedText = strings.Join(formatted, "\n")

	doc.Tables = append(doc.Tables, t)
	doc.Blocks = append(doc.Blocks, content.Block{
		Kind:  content.KindTable,
		Text:  t.FormattedText,
		Table: &t,
	})
}

func paraStyleName(para xmlPara, styles map[string]string) string {
	if para.Props == nil || para.Props.Style == nil {
		return ""
	}
	id := para.Props.Style.Val
	if name, ok := styles[id]; ok {
		return name
	}
	return id
}

func paraText(para xmlPara) string {
	var b strings.Builder
	for _, run := range para.Runs {
		for _, t := range run.Texts {
			b.WriteString(t)
		}
	}
	for _, h := range para.Hyperlinks {
		for _, run := range h.Runs {
			for _, t := range run.Texts {
				b.WriteString(t)
			}
		}
	}
	return b.String()
}

// paraLinks resolves hyperlink relationship IDs against the rels table
// and scans the plain text for URL and e-mail patterns.
func paraLinks(para xmlPara, rels docRels) []content.Link {
	var links []content.Link

	for _, h := range para.Hyperlinks {
		rel, ok := rels.byID[h.ID]
		if !ok {
			slog.Debug("docx: hyperlink relationship not found", "rId", h.ID)
			continue
		}
		text := strings.TrimSpace(hyperlinkText(h))
		if text == "" {
			text = "Link"
		}
		links = append(links, content.Link{
			Text: text,
			URL:  rel.Target,
			Type: content.ClassifyLinkType(rel.Target),
		})
	}

	links = append(links, content.FindLinks(paraText(para))...)
	return links
}

func hyperlinkText(h xmlHyperlink) string {
	var b strings.Builder
	for _, run := range h.Runs {
		for _, t := range run.Texts {
			b.WriteString(t)
		}
	}
	return b.String()
}

func runHasImage(run xmlRun) bool {
	for _, d := range run.Drawings {
		if d.Inline != nil && len(d.Inline.Blips) > 0 {
			return true
		}
		if d.Anchor != nil && len(d.Anchor.Blips) > 0 {
			return true
		}
	}
	return false
}

func readZipFile(zf *zip.File) ([]byte, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
