package sheet

import (
	"context"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/pkg/notion"
)

// Notion database property names.
const (
	PropName  = "Name"
	PropURL   = "URL"
	PropEmail = "Email"
	PropSent  = "Sent"
	PropType  = "Type"
)

// Notion logs each sent letter as a page in a Notion database.
type Notion struct {
	client notion.Client
	dbID   string
	label  string
}

// NewNotion creates a Notion sink. An empty label uses the default row label.
func NewNotion(client notion.Client, dbID, label string) *Notion {
	if label == "" {
		label = DefaultRowConfig().Label
	}
	return &Notion{client: client, dbID: dbID, label: label}
}

// Append implements Sink.
func (n *Notion) Append(ctx context.Context, e Entry) error {
	req := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(n.dbID),
		},
		Properties: notionapi.Properties{
			PropName:  notion.Title(e.Domain),
			PropURL:   notion.URL(e.SiteURL),
			PropEmail: notion.Email(e.Recipient),
			PropSent:  notion.Date(e.SentAt),
			PropType:  notion.Select(n.label),
		},
	}
	if _, err := n.client.CreatePage(ctx, req); err != nil {
		return eris.Wrapf(err, "sheet: notion page for %s", e.Domain)
	}
	return nil
}

// Recipients lists the Email property of every page in the database.
func (n *Notion) Recipients(ctx context.Context) ([]string, error) {
	pages, err := notion.QueryAll(ctx, n.client, n.dbID, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sheet: notion recipients")
	}
	var out []string
	for _, p := range pages {
		if v := strings.ToLower(strings.TrimSpace(notion.EmailOf(p.Properties[PropEmail]))); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}
