// Package content defines the typed content model produced by document
// extraction: ordered paragraph/table blocks, hyperlinks, tables and
// embedded images, plus the heuristic classifiers that label them.
package content

// Kind labels the semantic role of a block.
type Kind string

const (
	KindHeading       Kind = "heading"
	KindTitle         Kind = "title"
	KindSubtitle      Kind = "subtitle"
	KindLabel         Kind = "label"
	KindBulletPoint   Kind = "bullet_point"
	KindNumberedList  Kind = "numbered_list"
	KindListItem      Kind = "list_item"
	KindSectionHeader Kind = "section_header"
	KindSeparator     Kind = "separator"
	KindTable         Kind = "table"
	KindText          Kind = "text"
	KindEmpty         Kind = "empty"
)

// Block is one paragraph- or table-level unit from the source document,
// in document order. Blocks are immutable once extraction completes;
// categorization is tracked externally by block index.
type Block struct {
	Kind         Kind   `json:"kind"`
	Text         string `json:"text"`
	StyleName    string `json:"style_name,omitempty"`
	HeadingLevel int    `json:"heading_level,omitempty"`
	HasImage     bool   `json:"has_image,omitempty"`
	ImageRef     int    `json:"image_ref,omitempty"` // 1-based ordinal into the image registry, 0 if none
	Links        []Link `json:"links,omitempty"`
	Table        *Table `json:"table,omitempty"` // set only when Kind == KindTable
}

// LinkType categorizes a hyperlink by target platform or file type.
type LinkType string

const (
	LinkEmail       LinkType = "email"
	LinkVideo       LinkType = "video"
	LinkDocument    LinkType = "document"
	LinkImage       LinkType = "image"
	LinkSocial      LinkType = "social"
	LinkCloud       LinkType = "cloud"
	LinkDevelopment LinkType = "development"
	LinkExternal    LinkType = "external"
	LinkInternal    LinkType = "internal"
	LinkUnknown     LinkType = "unknown"
)

// Link is a hyperlink discovered in a paragraph or table cell.
type Link struct {
	Text string   `json:"text"`
	URL  string   `json:"url"`
	Type LinkType `json:"type"`
}

// Cell is one table cell: its trimmed text and any links found inside.
type Cell struct {
	Text  string `json:"text"`
	Links []Link `json:"links,omitempty"`
}

// Table holds the structured rows of one document table. The first row
// is recorded as header candidates but not structurally distinguished.
type Table struct {
	Number        int      `json:"number"`
	RowCount      int      `json:"row_count"`
	ColCount      int      `json:"col_count"`
	Rows          [][]Cell `json:"rows"`
	Headers       []string `json:"headers,omitempty"`
	FormattedText string   `json:"formatted_text"`
}

// Image is one embedded image extracted from the document. The registry
// is append-only and indexed 1..N matching paragraph ImageRef ordinals.
type Image struct {
	Filename string `json:"filename"`
	Path     string `json:"path,omitempty"` // set when saved to disk
	Size     int    `json:"size"`
	Data     []byte `json:"-"`
}

// Document is the complete extraction result: the ordered block stream
// plus the side registries. Each analysis run builds a fresh Document;
// nothing is shared across documents.
type Document struct {
	Path   string
	Blocks []Block
	Images []Image
	Links  []Link
	Tables []Table
}
