package sheets

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/csi-informatics/results-api/pkg/config"
)

// NewService authenticates against the Google Sheets API with a service
// account credential file and returns the shared API client.
func NewService(ctx context.Context, cfg config.SheetsConfig) (*sheetsapi.Service, error) {
	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read sheets credentials: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse sheets credentials: %w", err)
	}

	svc, err := sheetsapi.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

// Observer receives the duration of each remote sheet operation.
type Observer func(op string, d time.Duration)

// Worksheet is a Store backed by one worksheet of one remote spreadsheet.
type Worksheet struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	name          string
	observe       Observer
}

var _ Store = (*Worksheet)(nil)

// NewWorksheet binds a Store to a spreadsheet and worksheet title. The
// observer may be nil.
func NewWorksheet(svc *sheetsapi.Service, spreadsheetID, name string, observe Observer) *Worksheet {
	return &Worksheet{svc: svc, spreadsheetID: spreadsheetID, name: name, observe: observe}
}

// Snapshot fetches the entire worksheet and converts it to a Table.
func (w *Worksheet) Snapshot(ctx context.Context) (*Table, error) {
	start := time.Now()
	resp, err := w.svc.Spreadsheets.Values.Get(w.spreadsheetID, w.name).Context(ctx).Do()
	w.observed("snapshot", start)
	if err != nil {
		return nil, fmt.Errorf("fetch worksheet %s: %w", w.name, err)
	}

	if len(resp.Values) == 0 {
		return NewTable(nil, nil), nil
	}

	headers := stringifyRow(resp.Values[0])
	rows := make([][]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		rows = append(rows, stringifyRow(raw))
	}
	return NewTable(headers, rows), nil
}

// UpdateCell writes a single cell addressed by 1-based row and column.
func (w *Worksheet) UpdateCell(ctx context.Context, row, col int, value string) error {
	rng := fmt.Sprintf("%s!%s%d", w.name, columnLabel(col), row)
	body := &sheetsapi.ValueRange{Values: [][]interface{}{{value}}}

	start := time.Now()
	_, err := w.svc.Spreadsheets.Values.
		Update(w.spreadsheetID, rng, body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	w.observed("update_cell", start)
	if err != nil {
		return fmt.Errorf("update cell %s: %w", rng, err)
	}
	return nil
}

func (w *Worksheet) observed(op string, start time.Time) {
	if w.observe != nil {
		w.observe(op, time.Since(start))
	}
}

func stringifyRow(raw []interface{}) []string {
	row := make([]string, len(raw))
	for i, cell := range raw {
		row[i] = fmt.Sprint(cell)
	}
	return row
}

// columnLabel converts a 1-based column index to its A1 letter form.
func columnLabel(col int) string {
	var label []byte
	for col > 0 {
		col--
		label = append([]byte{byte('A' + col%26)}, label...)
		col /= 26
	}
	return string(label)
}
