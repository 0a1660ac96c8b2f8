package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"extrack/internal/core"
	ports "extrack/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client reads transaction rows from one range of a spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	// A1 range such as "Transactions!A:D"; empty means the whole first sheet.
	readRange string
}

// Ensure interface conformance
var _ ports.RowSource = (*Client)(nil)

// Credentials selects how the Sheets service authenticates. The first
// non-empty field wins, in field order.
type Credentials struct {
	ServiceAccountJSON string
	ServiceAccountFile string
	ApplicationCreds   string
}

// New creates a Sheets client for the given spreadsheet and range.
func New(ctx context.Context, spreadsheetID, readRange string, creds Credentials) (*Client, error) {
	spreadsheetID = strings.TrimSpace(strings.TrimPrefix(spreadsheetID, "sheets:"))
	if spreadsheetID == "" {
		return nil, core.NewError(core.KindSourceUnavailable, "sheets client", errors.New("missing spreadsheet ID"))
	}

	svc, err := newSheetsService(ctx, creds)
	if err != nil {
		return nil, core.NewError(core.KindSourceUnavailable, "sheets service", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		readRange:     strings.TrimSpace(readRange),
	}, nil
}

// newSheetsService initializes a read-only Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context, creds Credentials) (*gsheet.Service, error) {
	var credentialsJSON []byte
	var err error

	switch {
	case strings.TrimSpace(creds.ServiceAccountJSON) != "":
		slog.DebugContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(creds.ServiceAccountJSON)
	case creds.ServiceAccountFile != "" || creds.ApplicationCreds != "":
		path := creds.ServiceAccountFile
		if path == "" {
			path = creds.ApplicationCreds
		}
		slog.DebugContext(ctx, "Reading credentials from file", "path", path)
		credentialsJSON, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// ReadRows fetches the configured range with unformatted numbers and
// formatted dates, so amounts arrive as numbers and dates as text.
func (c *Client) ReadRows(ctx context.Context) ([]core.Row, error) {
	if c.svc == nil {
		return nil, core.NewError(core.KindSourceUnavailable, "read sheet", errors.New("sheets service not initialized"))
	}

	rng := c.readRange
	if rng == "" {
		first, err := c.firstSheetTitle(ctx)
		if err != nil {
			return nil, err
		}
		rng = quoteSheetName(first)
	}

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).Do()
	if err != nil {
		return nil, core.NewError(core.KindSourceUnavailable, "read sheet", fmt.Errorf("read %s: %w", rng, err))
	}

	slog.DebugContext(ctx, "Read sheet range", "range", rng, "rows", len(resp.Values))
	return toRows(resp.Values), nil
}

func (c *Client) firstSheetTitle(ctx context.Context) (string, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return "", core.NewError(core.KindSourceUnavailable, "read spreadsheet", err)
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return "", core.NewError(core.KindSourceUnavailable, "read spreadsheet",
			fmt.Errorf("could not find a sheet in spreadsheet %s", c.spreadsheetID))
	}
	return ss.Sheets[0].Properties.Title, nil
}
