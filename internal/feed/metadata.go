package feed

// Metadata is the typed content of a publication. It is implemented only by
// TextMetadata, ImageMetadata, VideoMetadata and AudioMetadata.
type Metadata interface {
	Body() string
	isMetadata()
}

// TextMetadata covers text-only publications and any metadata type this
// client has no dedicated rendering for (articles, links, embeds...).
type TextMetadata struct {
	Content string
}

// ImageMetadata is a publication with one attached image.
type ImageMetadata struct {
	Content  string
	ImageURI string
}

// VideoMetadata is a publication with an attached video and optional cover.
type VideoMetadata struct {
	Content  string
	VideoURI string
	CoverURI string
}

// AudioMetadata is a publication with an attached audio track and optional cover.
type AudioMetadata struct {
	Content  string
	AudioURI string
	CoverURI string
}

func (m TextMetadata) Body() string  { return m.Content }
func (m ImageMetadata) Body() string { return m.Content }
func (m VideoMetadata) Body() string { return m.Content }
func (m AudioMetadata) Body() string { return m.Content }

func (TextMetadata) isMetadata()  {}
func (ImageMetadata) isMetadata() {}
func (VideoMetadata) isMetadata() {}
func (AudioMetadata) isMetadata() {}

// BodyOf returns the content of a publication, or "" when it has none.
func BodyOf(p Publication) string {
	if p == nil {
		return ""
	}
	if md := BaseOf(p).Metadata; md != nil {
		return md.Body()
	}
	return ""
}
