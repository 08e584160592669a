package sheet

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleSheets appends rows to a Google spreadsheet.
type GoogleSheets struct {
	svc           *sheets.Service
	spreadsheetID string
	rng           string
	cfg           RowConfig
}

// GoogleConfig identifies the target spreadsheet.
type GoogleConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	Range           string
}

// NewGoogleSheets creates a GoogleSheets sink. Credentials come from
// CredentialsPath when set; extra client options are applied after it.
func NewGoogleSheets(ctx context.Context, gc GoogleConfig, cfg RowConfig, opts ...option.ClientOption) (*GoogleSheets, error) {
	if gc.SpreadsheetID == "" {
		return nil, eris.New("sheet: spreadsheet id is required")
	}
	if gc.Range == "" {
		gc.Range = "Sheet1!A1"
	}

	var all []option.ClientOption
	if gc.CredentialsPath != "" {
		all = append(all, option.WithCredentialsFile(gc.CredentialsPath))
	}
	all = append(all, opts...)

	svc, err := sheets.NewService(ctx, all...)
	if err != nil {
		return nil, eris.Wrap(err, "sheet: create sheets service")
	}
	return &GoogleSheets{svc: svc, spreadsheetID: gc.SpreadsheetID, rng: gc.Range, cfg: cfg}, nil
}

// Append implements Sink. Formulas are evaluated by the spreadsheet.
func (g *GoogleSheets) Append(ctx context.Context, e Entry) error {
	cells := Row(e, g.cfg)
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{values}}
	resp, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, g.rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return eris.Wrapf(err, "sheet: append row for %s", e.Domain)
	}

	var updated string
	if resp.Updates != nil {
		updated = resp.Updates.UpdatedRange
	}
	zap.L().Debug("sheet: row appended",
		zap.String("domain", e.Domain),
		zap.String("range", updated),
	)
	return nil
}
