package notion

import (
	"context"
	"time"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// QueryAll fetches every page of a database, following cursors. Only the
// filter and sorts of q are used.
func QueryAll(ctx context.Context, c Client, dbID string, q *notionapi.DatabaseQueryRequest) ([]notionapi.Page, error) {
	var all []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{StartCursor: cursor, PageSize: 100}
		if q != nil {
			req.Filter = q.Filter
			req.Sorts = q.Sorts
		}

		resp, err := c.QueryDatabase(ctx, dbID, req)
		if err != nil {
			return nil, eris.Wrap(err, "notion: query all")
		}
		all = append(all, resp.Results...)

		if !resp.HasMore || resp.NextCursor == "" {
			return all, nil
		}
		cursor = resp.NextCursor
	}
}

// Title builds a title property.
func Title(s string) notionapi.TitleProperty {
	return notionapi.TitleProperty{
		Type:  notionapi.PropertyTypeTitle,
		Title: []notionapi.RichText{{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s}}},
	}
}

// RichText builds a rich_text property.
func RichText(s string) notionapi.RichTextProperty {
	return notionapi.RichTextProperty{
		Type:     notionapi.PropertyTypeRichText,
		RichText: []notionapi.RichText{{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s}}},
	}
}

// URL builds a url property.
func URL(s string) notionapi.URLProperty {
	return notionapi.URLProperty{Type: notionapi.PropertyTypeURL, URL: s}
}

// Email builds an email property.
func Email(s string) notionapi.EmailProperty {
	return notionapi.EmailProperty{Type: notionapi.PropertyTypeEmail, Email: s}
}

// Date builds a date property starting at t.
func Date(t time.Time) notionapi.DateProperty {
	d := notionapi.Date(t)
	return notionapi.DateProperty{Type: notionapi.PropertyTypeDate, Date: &notionapi.DateObject{Start: &d}}
}

// Select builds a select property.
func Select(name string) notionapi.SelectProperty {
	return notionapi.SelectProperty{Type: notionapi.PropertyTypeSelect, Select: notionapi.Option{Name: name}}
}

// EmailOf returns the value of an email property, or "" when p is absent or
// of another type. Decoded pages hold pointer properties.
func EmailOf(p notionapi.Property) string {
	switch v := p.(type) {
	case *notionapi.EmailProperty:
		return v.Email
	case notionapi.EmailProperty:
		return v.Email
	}
	return ""
}
