package blogapi

import "time"

// Upper bounds for a single store call. Repositories derive their call
// context from the caller's with these timeouts.
const (
	SingleDocumentTimeout = 5 * time.Second
	ScanTimeout           = 10 * time.Second
)

// Document is implemented by every type stored through a repository. The
// returned name is the collection (or table) the documents live in.
type Document interface {
	GetCollectionName() string
}
