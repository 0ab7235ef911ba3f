package content

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoEmbed is returned when a video reference has no usable source.
var ErrNoEmbed = errors.New("no embeddable source")

// EmbedSource returns the player URL for a video reference. The API
// stores either a plain URL or a pasted block of embed markup; for
// markup the first iframe's src is used. YouTube and Vimeo page links
// are rewritten to their player URLs.
func EmbedSource(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrNoEmbed
	}
	if strings.HasPrefix(ref, "<") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(ref))
		if err != nil {
			return "", fmt.Errorf("parse embed markup: %w", err)
		}
		src, ok := doc.Find("iframe").First().Attr("src")
		if !ok {
			src, ok = doc.Find("video source, video").First().Attr("src")
		}
		if !ok || strings.TrimSpace(src) == "" {
			return "", ErrNoEmbed
		}
		ref = strings.TrimSpace(src)
	}
	if strings.HasPrefix(ref, "//") {
		ref = "https:" + ref
	}

	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse embed url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrNoEmbed, u.Scheme)
	}
	return playerURL(u), nil
}

func playerURL(u *url.URL) string {
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	path := strings.Trim(u.Path, "/")
	switch host {
	case "youtube.com", "m.youtube.com":
		if path == "watch" {
			if id := u.Query().Get("v"); id != "" {
				return "https://www.youtube.com/embed/" + url.PathEscape(id)
			}
		}
		if id, ok := strings.CutPrefix(path, "shorts/"); ok && id != "" {
			return "https://www.youtube.com/embed/" + url.PathEscape(id)
		}
	case "youtu.be":
		if path != "" {
			return "https://www.youtube.com/embed/" + url.PathEscape(path)
		}
	case "vimeo.com":
		if path != "" && !strings.Contains(path, "/") {
			return "https://player.vimeo.com/video/" + url.PathEscape(path)
		}
	}
	return u.String()
}
