package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// SheetsSource reads expense rows out of a Google Sheets range. It is a row
// source rather than an Adapter: the data arrives over the Sheets API, not an
// io.Reader.
type SheetsSource struct {
	svc           *gsheet.Service
	spreadsheetID string
	readRange     string
}

// NewSheetsSourceFromEnv builds a Sheets source using Service Account
// credentials from the environment.
// Required: GOOGLE_SPREADSHEET_ID
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional: GOOGLE_SHEET_RANGE (default "Expenses!A2:D").
func NewSheetsSourceFromEnv(ctx context.Context) (*SheetsSource, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	readRange := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_RANGE"))
	if readRange == "" {
		readRange = "Expenses!A2:D"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &SheetsSource{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
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

// Fetch pulls the configured range and parses each row like a delimited
// record: date, description, category, amount. Unparsable rows are skipped
// and counted.
func (s *SheetsSource) Fetch(ctx context.Context) (*Result, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet values: %w", err)
	}

	result := &Result{}
	for _, raw := range resp.Values {
		fields := make([]string, 0, len(raw))
		for _, cell := range raw {
			fields = append(fields, fmt.Sprint(cell))
		}
		row, err := parseRecord(fields)
		if err != nil {
			result.Skipped++
			continue
		}
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}
