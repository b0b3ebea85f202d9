package domain

// Cover is the generated cover design.
type Cover struct {
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	Subtitle      string          `json:"subtitle,omitempty"`
	Design        CoverDesign     `json:"design"`
	Typography    CoverTypography `json:"typography"`
	Graphics      CoverGraphics   `json:"graphics"`
	Tagline       string          `json:"tagline,omitempty"`
	BackCoverText string          `json:"back_cover_text,omitempty"`
}

// CoverDesign describes the cover's palette and layout.
type CoverDesign struct {
	Colors []string `json:"colors"`
	Style  string   `json:"style"`
	Layout string   `json:"layout"`
}

// CoverTypography describes the cover's fonts.
type CoverTypography struct {
	TitleFont  string `json:"title_font"`
	StyleNotes string `json:"style_notes"`
}

// CoverGraphics describes suggested imagery.
type CoverGraphics struct {
	Suggestions []string `json:"suggestions"`
	Mood        string   `json:"mood"`
}

// LegalPages holds the front-matter legal texts.
type LegalPages struct {
	CopyrightPage string `json:"copyright_page"`
	LegalMentions string `json:"legal_mentions"`
	TitlePage     string `json:"title_page"`
	ISBN          string `json:"isbn"`
	Publisher     string `json:"publisher"`
	Year          int    `json:"year"`
	Edition       string `json:"edition"`
}

// LegalOptions are the small fixed parameters of legal page generation.
// Zero values let the remote service choose.
type LegalOptions struct {
	Year      int    `json:"year,omitempty"`
	Edition   string `json:"edition,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	ISBN      string `json:"isbn,omitempty"`
}

// VisualTheme is the generated typographic and colour theme.
type VisualTheme struct {
	Name           string `json:"name"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	AccentColor    string `json:"accent_color"`
	HeadingFont    string `json:"heading_font"`
	BodyFont       string `json:"body_font"`
	Style          string `json:"style,omitempty"`
}

// IllustrationSet is the ordered images of one chapter.
type IllustrationSet struct {
	ChapterNumber int     `json:"chapter_number"`
	Images        []Image `json:"images"`
}

// Image sources.
const (
	ImageSourceGenerated = "generated"
	ImageSourceUploaded  = "uploaded"
)

// ImageStatus is derived from an image's content.
type ImageStatus string

// Image statuses.
const (
	ImagePending ImageStatus = "pending"
	ImageReady   ImageStatus = "ready"
	ImageFailed  ImageStatus = "failed"
)

// Image occupies one (chapter number, index) slot.
type Image struct {
	Index  int    `json:"index"`
	Data   []byte `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
	Source string `json:"source,omitempty"`
	Prompt string `json:"prompt,omitempty"`
}

// Status reports whether the image holds bytes, an error marker, or neither.
func (i Image) Status() ImageStatus {
	switch {
	case i.Error != "":
		return ImageFailed
	case len(i.Data) > 0:
		return ImageReady
	default:
		return ImagePending
	}
}
