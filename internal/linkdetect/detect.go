// Package linkdetect finds embedded YouTube and Twitter/X links in free text
// and prepares renderer-agnostic preview models for them.
package linkdetect

import (
	"regexp"

	"github.com/starford/secondbrain/internal/models"
)

// space is the Unicode whitespace set of browser regexps. RE2's \s is
// ASCII only, so pasted text with non-breaking spaces would otherwise match
// across them.
const space = `\t\n\v\f\r \x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}`

// Go's regexp is RE2 based, so both scans run in time linear in the input.
var (
	youtubeRe = regexp.MustCompile(`(?:https?://)?(?:www\.)?(?:youtube\.com/(?:[^/` + space + `]+/[^` + space + `]+/|(?:v|e(?:mbed)?)/|[^` + space + `]*?[?&]v=)|youtu\.be/)([a-zA-Z0-9_-]{11})`)
	twitterRe = regexp.MustCompile(`https?://(?:www\.)?(?:twitter\.com|x\.com)/\w+/status/(\d+)`)
)

// Placeholder titles; metadata is never fetched.
const (
	youtubeTitle = "YouTube Video"
	twitterTitle = "Twitter Post"
)

// Detect scans text and returns one descriptor per match. All YouTube
// matches come first, then all Twitter/X matches, each group in textual
// order. The result is never nil.
func Detect(text string) []models.Link {
	out := []models.Link{}
	if text == "" {
		return out
	}

	for _, m := range youtubeRe.FindAllStringSubmatch(text, -1) {
		out = append(out, YouTube(m[0], m[1]))
	}
	for _, m := range twitterRe.FindAllStringSubmatch(text, -1) {
		out = append(out, Twitter(m[0], m[1]))
	}
	return out
}

// DetectCombined scans content and a separate link-input field as one text,
// joined by a single space.
func DetectCombined(content, linkInput string) []models.Link {
	if linkInput == "" {
		return Detect(content)
	}
	return Detect(content + " " + linkInput)
}

// YouTube builds the descriptor for a matched YouTube URL and video id.
func YouTube(url, videoID string) models.Link {
	return models.Link{
		Kind:         models.LinkYouTube,
		URL:          url,
		EmbedID:      videoID,
		ThumbnailURL: "https://img.youtube.com/vi/" + videoID + "/mqdefault.jpg",
		Title:        youtubeTitle,
	}
}

// Twitter builds the descriptor for a matched Twitter/X status URL.
func Twitter(url, statusID string) models.Link {
	return models.Link{
		Kind:    models.LinkTwitter,
		URL:     url,
		EmbedID: statusID,
		Title:   twitterTitle,
	}
}
