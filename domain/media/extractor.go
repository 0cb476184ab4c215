package media

import "context"

// Progress is one in-flight transfer update reported by the extraction capability
type Progress struct {
	Status          string
	Filename        string
	Percent         string
	Speed           string
	ETA             string
	DownloadedBytes int64
	TotalBytes      int64
}

// ProgressListener receives transfer updates during a fetch
type ProgressListener interface {
	// Progress is called repeatedly while a file is transferring
	Progress(p Progress)
	// Finished is called once per file that reached its final location
	Finished(path string)
}

// Extractor is the port to the external media-extraction capability
type Extractor interface {
	// Inspect resolves url to metadata without materializing any file
	Inspect(ctx context.Context, url string, quiet bool) (*Metadata, error)
	// Fetch materializes the media described by req
	Fetch(ctx context.Context, req *FetchRequest, listener ProgressListener) (*FetchResult, error)
	// ListFormats enumerates the stream variants available for url
	ListFormats(ctx context.Context, url string) ([]Format, error)
}
