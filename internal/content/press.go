package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/bryan-buckman/studiofront/internal/model"
)

const pressKey = "press"

// Press returns the latest articles from the studio's press feed. With
// no feed configured it returns an empty list.
func (c *Client) Press(ctx context.Context) ([]model.PressItem, error) {
	return c.press(ctx, true)
}

func (c *Client) press(ctx context.Context, readCache bool) ([]model.PressItem, error) {
	if c.pressURL == "" {
		return []model.PressItem{}, nil
	}

	if readCache && c.cache != nil && c.ttl > 0 {
		if snap, err := c.cache.GetSnapshot(pressKey); err == nil && c.clock.Now().Sub(snap.FetchedAt) < c.ttl {
			var items []model.PressItem
			if err := json.Unmarshal(snap.Payload, &items); err == nil {
				return items, nil
			}
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{Collection: model.CollectionPress, Path: c.pressURL, Err: err}
	}
	feed, err := c.parser.ParseURLWithContext(c.pressURL, ctx)
	if err != nil {
		fe := &FetchError{Collection: model.CollectionPress, Path: c.pressURL, Err: err}
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			fe.Status = httpErr.StatusCode
		}
		return nil, fe
	}

	items := pressItems(feed, c.clock.Now())
	payload, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode press items: %w", err)
	}
	c.store(pressKey, payload)
	return items, nil
}

func pressItems(feed *gofeed.Feed, now time.Time) []model.PressItem {
	items := make([]model.PressItem, 0, min(len(feed.Items), MaxPressItems))
	for _, it := range feed.Items {
		if len(items) == MaxPressItems {
			break
		}
		id := it.GUID
		if id == "" {
			id = it.Link
		}
		if id == "" {
			continue
		}
		published := now
		if it.PublishedParsed != nil {
			published = *it.PublishedParsed
		} else if it.UpdatedParsed != nil {
			published = *it.UpdatedParsed
		}
		item := model.PressItem{
			ID:          id,
			Title:       it.Title,
			Link:        it.Link,
			Summary:     it.Description,
			PublishedAt: published,
		}
		if it.Image != nil {
			item.Image = it.Image.URL
		} else {
			for _, enc := range it.Enclosures {
				if enc != nil && strings.HasPrefix(enc.Type, "image/") {
					item.Image = enc.URL
					break
				}
			}
		}
		items = append(items, item)
	}
	return items
}
