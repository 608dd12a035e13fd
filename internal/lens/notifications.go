package lens

import (
	"context"
	"fmt"
)

// Notification is the minimal shape of a notification entry; the page that
// lists them only counts them for now.
type Notification struct {
	Typename string `json:"__typename"`
	ID       string `json:"id"`
}

// NotificationPage is one page of notifications.
type NotificationPage struct {
	Items   []Notification
	HasMore bool
	Next    string
}

// Notifications fetches the notifications of the authenticated profile. The
// API pages at its own size, so the result is cut to pageSize.
func (c *Client) Notifications(ctx context.Context, token, profileID string, pageSize int, cursor string) (*NotificationPage, error) {
	if token == "" {
		return nil, fmt.Errorf("notifications: %w", ErrUnauthenticated)
	}
	var res struct {
		Result struct {
			Items    []Notification `json:"items"`
			PageInfo pageInfo       `json:"pageInfo"`
		} `json:"result"`
	}
	if err := c.run(ctx, c.query, "notifications", token, queryNotifications, map[string]any{"cursor": cursorVar(cursor)}, &res); err != nil {
		return nil, fmt.Errorf("profile %s: %w", profileID, err)
	}
	page := &NotificationPage{Items: res.Result.Items, Next: res.Result.PageInfo.next()}
	page.HasMore = page.Next != ""
	if pageSize > 0 && len(page.Items) > pageSize {
		page.Items = page.Items[:pageSize]
		page.HasMore = true
	}
	return page, nil
}
