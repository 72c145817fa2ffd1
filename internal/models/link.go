package models

import "fmt"

// LinkKind is the closed set of recognized link providers.
type LinkKind int

// Link kinds. LinkGeneric is never produced by detection.
const (
	LinkYouTube LinkKind = iota + 1
	LinkTwitter
	LinkGeneric
)

func (k LinkKind) String() string {
	switch k {
	case LinkYouTube:
		return "youtube"
	case LinkTwitter:
		return "twitter"
	case LinkGeneric:
		return "link"
	}
	return ""
}

// MarshalText implements encoding.TextMarshaler.
func (k LinkKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *LinkKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "youtube":
		*k = LinkYouTube
	case "twitter":
		*k = LinkTwitter
	case "link":
		*k = LinkGeneric
	default:
		return fmt.Errorf("unknown link kind %q", text)
	}
	return nil
}

// Link describes one external reference found in text.
// All fields are determined by URL.
type Link struct {
	Kind         LinkKind `json:"kind" yaml:"kind"`
	URL          string   `json:"url" yaml:"url"`
	EmbedID      string   `json:"embed_id,omitempty" yaml:"embed_id,omitempty"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty" yaml:"thumbnail_url,omitempty"`
	Title        string   `json:"title,omitempty" yaml:"title,omitempty"`
}
