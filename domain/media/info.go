package media

// MaxPreviewTitles is the number of member titles shown before a collection download
const MaxPreviewTitles = 5

// Info is the result of a metadata probe: either Single or Collection
type Info interface {
	// DisplayTitle returns the item or collection title
	DisplayTitle() string
	isInfo()
}

// Single describes one downloadable item
type Single struct {
	Title           string
	Uploader        string
	DurationSeconds int
	ViewCount       int64
	UploadDate      string
}

// Collection describes a URL with several members, such as a playlist
type Collection struct {
	Title         string
	Uploader      string
	MemberCount   int
	PreviewTitles []string
}

func (s *Single) DisplayTitle() string     { return s.Title }
func (c *Collection) DisplayTitle() string { return c.Title }

func (*Single) isInfo()     {}
func (*Collection) isInfo() {}

// IsCollection reports whether info describes a collection
func IsCollection(info Info) bool {
	_, ok := info.(*Collection)
	return ok
}

// Metadata is the raw inspection record returned by the extraction capability
type Metadata struct {
	ID            string
	Type          string
	Title         string
	Uploader      string
	Duration      float64
	ViewCount     int64
	UploadDate    string
	PlaylistCount int
	Entries       []Metadata
}

// HasEntries reports whether the record exposes member entries
func (m *Metadata) HasEntries() bool {
	return m.Type == "playlist" || len(m.Entries) > 0
}
