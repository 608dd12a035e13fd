package feed

import "time"

// Publication is one feed item. It is implemented only by *Post, *Comment,
// *Quote and *Mirror; callers switch on the concrete type.
type Publication interface {
	PublicationID() string
	Author() Profile
	Created() time.Time
	isPublication()
}

// Base holds the fields every publication variant shares.
type Base struct {
	ID        string
	CreatedAt time.Time
	By        Profile
	Metadata  Metadata // nil for mirrors and for publications without metadata
	Stats     Stats

	// HasUpvoted is the viewer-specific reaction flag reported by the API.
	// Always false for anonymous reads.
	HasUpvoted bool
}

func (b *Base) PublicationID() string { return b.ID }
func (b *Base) Author() Profile       { return b.By }
func (b *Base) Created() time.Time    { return b.CreatedAt }

// Post is a top-level publication.
type Post struct {
	Base
}

// Comment is a reply to another publication.
type Comment struct {
	Base
	CommentOn Publication
}

// Quote wraps and comments on another publication.
type Quote struct {
	Base
	QuoteOn Publication
}

// Mirror is a re-share. It carries no content of its own.
type Mirror struct {
	Base
	MirrorOn Publication
}

func (*Post) isPublication()    {}
func (*Comment) isPublication() {}
func (*Quote) isPublication()   {}
func (*Mirror) isPublication()  {}

// Stats are the aggregate counters of a publication. Absent counters are zero.
type Stats struct {
	Comments int `json:"comments"`
	Mirrors  int `json:"mirrors"`
	Upvotes  int `json:"upvotes"`
	Collects int `json:"collects"`
}

// Profile is the author of a publication.
type Profile struct {
	ID          string
	LocalName   string // handle without namespace, e.g. "stani"
	FullHandle  string // e.g. "lens/stani"
	DisplayName string
	Bio         string
	PictureURI  string
	Followers   int
	Following   int
	OwnedBy     string
}

// Name returns the display name, falling back to the handle.
func (p Profile) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.LocalName
}

// Unwrap returns the publication whose content should be displayed: the
// mirrored publication for a mirror, the publication itself otherwise.
// A mirror whose target is missing unwraps to itself.
func Unwrap(p Publication) Publication {
	if m, ok := p.(*Mirror); ok && m.MirrorOn != nil {
		return m.MirrorOn
	}
	return p
}

// Typename returns the API discriminator for a publication.
func Typename(p Publication) string {
	switch p.(type) {
	case *Post:
		return TypePost
	case *Comment:
		return TypeComment
	case *Quote:
		return TypeQuote
	case *Mirror:
		return TypeMirror
	}
	return ""
}

// BaseOf returns the shared fields of any publication variant.
func BaseOf(p Publication) *Base {
	switch v := p.(type) {
	case *Post:
		return &v.Base
	case *Comment:
		return &v.Base
	case *Quote:
		return &v.Base
	case *Mirror:
		return &v.Base
	}
	return &Base{}
}
