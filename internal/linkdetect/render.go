package linkdetect

import "github.com/starford/secondbrain/internal/models"

// RenderModel is the provider-specific shape a link card is drawn from.
type RenderModel struct {
	Kind         models.LinkKind `json:"kind"`
	URL          string          `json:"url"`
	EmbedURL     string          `json:"embed_url"`
	ThumbnailURL string          `json:"thumbnail_url,omitempty"`
	TweetID      string          `json:"tweet_id,omitempty"`
}

// ToRenderModel maps a descriptor to its render model. It reports false for
// kinds that have no card.
func ToRenderModel(l models.Link) (RenderModel, bool) {
	switch l.Kind {
	case models.LinkYouTube:
		return RenderModel{
			Kind:         models.LinkYouTube,
			URL:          l.URL,
			EmbedURL:     "https://www.youtube.com/embed/" + l.EmbedID,
			ThumbnailURL: l.ThumbnailURL,
		}, true
	case models.LinkTwitter:
		return RenderModel{
			Kind:     models.LinkTwitter,
			URL:      l.URL,
			EmbedURL: "https://platform.twitter.com/embed/Tweet.html?id=" + l.EmbedID,
			TweetID:  l.EmbedID,
		}, true
	case models.LinkGeneric:
		return RenderModel{}, false
	}
	return RenderModel{}, false
}

// RenderAll converts links in order, skipping kinds without a card.
func RenderAll(links []models.Link) []RenderModel {
	out := make([]RenderModel, 0, len(links))
	for _, l := range links {
		if rm, ok := ToRenderModel(l); ok {
			out = append(out, rm)
		}
	}
	return out
}
