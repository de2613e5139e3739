// Package google reads import tables from a Google Sheets range.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"fluxo/internal/log"
	"fluxo/internal/sheets"
)

// Config selects the spreadsheet range and the service account used to
// read it. CredentialsJSON wins over CredentialsFile.
type Config struct {
	SpreadsheetID   string
	Range           string
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	rng           string
}

var _ sheets.TableReader = (*Client)(nil)

// New creates a read-only Sheets client from cfg.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	creds, err := credentials(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return newClient(ctx, cfg,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
}

func newClient(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Client, error) {
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	rng := strings.TrimSpace(cfg.Range)
	if rng == "" {
		rng = "A:E"
	}
	return &Client{
		svc:           svc,
		spreadsheetID: strings.TrimSpace(cfg.SpreadsheetID),
		rng:           rng,
	}, nil
}

func credentials(ctx context.Context, cfg Config) ([]byte, error) {
	inline := strings.TrimSpace(cfg.CredentialsJSON)
	path := strings.TrimSpace(cfg.CredentialsFile)
	if inline == "" && path == "" {
		path = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		logger().DebugContext(ctx, "Using inline service account credentials")
		return []byte(inline), nil
	case path != "":
		logger().DebugContext(ctx, "Reading service account credentials", "path", path)
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	}
	return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
}

// ReadTable reads the configured range. Numbers arrive unformatted and
// dates as the sheet displays them.
func (c *Client) ReadTable(ctx context.Context) (sheets.Table, error) {
	if c.svc == nil {
		return sheets.Table{}, errors.New("sheets service not initialized")
	}

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).Do()
	if err != nil {
		return sheets.Table{}, fmt.Errorf("read %s: %w", c.rng, err)
	}

	logger().DebugContext(ctx, "Read sheet range", "range", c.rng, "rows", len(resp.Values))
	return sheets.NewTable(toStrings(resp.Values)), nil
}

func toStrings(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = cellString(v)
		}
		out[i] = cells
	}
	return out
}

// cellString avoids the exponent form fmt uses for large floats.
func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return strings.TrimSpace(x)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func logger() *slog.Logger {
	return slog.Default().With(log.FieldComponent, log.ComponentSheets)
}
