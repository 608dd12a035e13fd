package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// API discriminators for publications.
const (
	TypePost    = "Post"
	TypeComment = "Comment"
	TypeQuote   = "Quote"
	TypeMirror  = "Mirror"
)

// Metadata discriminators with dedicated rendering. Any other *MetadataV3
// typename decodes to TextMetadata.
const (
	TypeTextMetadata  = "TextOnlyMetadataV3"
	TypeImageMetadata = "ImageMetadataV3"
	TypeVideoMetadata = "VideoMetadataV3"
	TypeAudioMetadata = "AudioMetadataV3"
)

// maxDepth bounds nested commentOn/quoteOn/mirrorOn decoding.
const maxDepth = 4

var (
	ErrUnknownType = errors.New("unknown publication type")
	ErrTooDeep     = errors.New("publication nesting too deep")
	ErrNotFound    = errors.New("not found")
)

type rawURI struct {
	Optimized *struct {
		URI string `json:"uri"`
	} `json:"optimized"`
	Raw *struct {
		URI string `json:"uri"`
	} `json:"raw"`
}

func (r *rawURI) uri() string {
	if r == nil {
		return ""
	}
	if r.Optimized != nil && r.Optimized.URI != "" {
		return r.Optimized.URI
	}
	if r.Raw != nil {
		return r.Raw.URI
	}
	return ""
}

type rawProfile struct {
	ID     string `json:"id"`
	Handle *struct {
		LocalName  string `json:"localName"`
		FullHandle string `json:"fullHandle"`
	} `json:"handle"`
	OwnedBy *struct {
		Address string `json:"address"`
	} `json:"ownedBy"`
	Metadata *struct {
		DisplayName string `json:"displayName"`
		Bio         string `json:"bio"`
		Picture     *struct {
			Typename string `json:"__typename"`
			rawURI
			// NftImage pictures carry the image set one level down.
			Image *rawURI `json:"image"`
		} `json:"picture"`
	} `json:"metadata"`
	Stats *struct {
		Followers int `json:"followers"`
		Following int `json:"following"`
	} `json:"stats"`
}

type rawMetadata struct {
	Typename string `json:"__typename"`
	Content  string `json:"content"`
	Asset    *struct {
		Image *rawURI `json:"image"`
		Video *rawURI `json:"video"`
		Audio *rawURI `json:"audio"`
		Cover *rawURI `json:"cover"`
	} `json:"asset"`
}

type rawPublication struct {
	Typename   string       `json:"__typename"`
	ID         string       `json:"id"`
	CreatedAt  string       `json:"createdAt"`
	By         *rawProfile  `json:"by"`
	Metadata   *rawMetadata `json:"metadata"`
	Stats      *Stats       `json:"stats"`
	Operations *struct {
		HasUpvoted bool `json:"hasUpvoted"`
	} `json:"operations"`
	CommentOn json.RawMessage `json:"commentOn"`
	QuoteOn   json.RawMessage `json:"quoteOn"`
	MirrorOn  json.RawMessage `json:"mirrorOn"`
}

// Decode parses a single publication object.
func Decode(data []byte) (Publication, error) {
	return decode(data, 0)
}

// DecodeList parses a JSON array of publications. Items that fail to decode
// are skipped and returned as errors alongside the decoded items, so one bad
// item never hides a whole page.
func DecodeList(data []byte) ([]Publication, []error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, []error{fmt.Errorf("decode publication list: %w", err)}
	}
	pubs := make([]Publication, 0, len(items))
	var errs []error
	for i, item := range items {
		p, err := decode(item, 0)
		if err != nil {
			errs = append(errs, fmt.Errorf("item %d: %w", i, err))
			continue
		}
		pubs = append(pubs, p)
	}
	return pubs, errs
}

// DecodeProfile parses a single profile object. A JSON null is ErrNotFound.
func DecodeProfile(data []byte) (Profile, error) {
	if len(data) == 0 || string(data) == "null" {
		return Profile{}, ErrNotFound
	}
	var raw rawProfile
	if err := json.Unmarshal(data, &raw); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return raw.profile(), nil
}

func decode(data []byte, depth int) (Publication, error) {
	if depth > maxDepth {
		return nil, ErrTooDeep
	}
	var raw rawPublication
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode publication: %w", err)
	}

	base := Base{
		ID:        raw.ID,
		CreatedAt: parseTime(raw.CreatedAt),
		By:        raw.By.profile(),
	}
	if raw.Stats != nil {
		base.Stats = *raw.Stats
	}
	if raw.Operations != nil {
		base.HasUpvoted = raw.Operations.HasUpvoted
	}

	switch raw.Typename {
	case TypePost:
		base.Metadata = raw.Metadata.metadata()
		return &Post{Base: base}, nil
	case TypeComment:
		base.Metadata = raw.Metadata.metadata()
		target, err := decodeTarget(raw.CommentOn, depth)
		if err != nil {
			return nil, fmt.Errorf("comment %s: %w", raw.ID, err)
		}
		return &Comment{Base: base, CommentOn: target}, nil
	case TypeQuote:
		base.Metadata = raw.Metadata.metadata()
		target, err := decodeTarget(raw.QuoteOn, depth)
		if err != nil {
			return nil, fmt.Errorf("quote %s: %w", raw.ID, err)
		}
		return &Quote{Base: base, QuoteOn: target}, nil
	case TypeMirror:
		target, err := decodeTarget(raw.MirrorOn, depth)
		if err != nil {
			return nil, fmt.Errorf("mirror %s: %w", raw.ID, err)
		}
		if _, ok := target.(*Mirror); ok {
			return nil, fmt.Errorf("mirror %s: mirror of a mirror", raw.ID)
		}
		return &Mirror{Base: base, MirrorOn: target}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownType, raw.Typename)
}

// decodeTarget decodes a nested publication; absent targets are nil.
func decodeTarget(data json.RawMessage, depth int) (Publication, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	return decode(data, depth+1)
}

func (r *rawProfile) profile() Profile {
	if r == nil {
		return Profile{}
	}
	p := Profile{ID: r.ID}
	if r.Handle != nil {
		p.LocalName = r.Handle.LocalName
		p.FullHandle = r.Handle.FullHandle
	}
	if r.OwnedBy != nil {
		p.OwnedBy = r.OwnedBy.Address
	}
	if md := r.Metadata; md != nil {
		p.DisplayName = md.DisplayName
		p.Bio = md.Bio
		if pic := md.Picture; pic != nil {
			if pic.Typename == "NftImage" {
				p.PictureURI = pic.Image.uri()
			} else {
				p.PictureURI = pic.uri()
			}
		}
	}
	if r.Stats != nil {
		p.Followers = r.Stats.Followers
		p.Following = r.Stats.Following
	}
	return p
}

func (r *rawMetadata) metadata() Metadata {
	if r == nil {
		return nil
	}
	var image, video, audio, cover string
	if a := r.Asset; a != nil {
		image, video, audio, cover = a.Image.uri(), a.Video.uri(), a.Audio.uri(), a.Cover.uri()
	}
	switch r.Typename {
	case TypeImageMetadata:
		return ImageMetadata{Content: r.Content, ImageURI: image}
	case TypeVideoMetadata:
		return VideoMetadata{Content: r.Content, VideoURI: video, CoverURI: cover}
	case TypeAudioMetadata:
		return AudioMetadata{Content: r.Content, AudioURI: audio, CoverURI: cover}
	}
	// TextOnlyMetadataV3 and everything else we don't render specially
	if r.Typename == TypeTextMetadata || strings.HasSuffix(r.Typename, "MetadataV3") || r.Content != "" {
		return TextMetadata{Content: r.Content}
	}
	return nil
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
