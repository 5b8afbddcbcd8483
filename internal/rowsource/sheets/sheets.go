// Package sheets reads rows from a Google Sheets spreadsheet with a service
// account.
package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/dcucoch/Gift-checking-App/internal/rowsource"
)

const sourceName = "google_sheets"

// Config selects the spreadsheet and the credentials used to read it. When
// neither inline credentials nor a credentials file are set, application
// default credentials apply.
type Config struct {
	SpreadsheetID   string
	ClientEmail     string
	PrivateKey      string
	CredentialsFile string
}

// Source reads ranges through the Sheets values API.
type Source struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

// New builds a read-only Sheets client. Extra client options are appended
// after the credentials, so tests can point the client at a fake endpoint.
func New(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Source, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("sheets: spreadsheet id is required")
	}

	clientOpts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope)}
	switch {
	case cfg.ClientEmail != "" && cfg.PrivateKey != "":
		creds, err := ServiceAccountJSON(cfg.ClientEmail, cfg.PrivateKey)
		if err != nil {
			return nil, err
		}
		clientOpts = append(clientOpts, option.WithCredentialsJSON(creds))
	case cfg.CredentialsFile != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := sheetsapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}
	return &Source{svc: svc, spreadsheetID: cfg.SpreadsheetID}, nil
}

// FetchRows reads readRange (A1 notation). An empty range yields no rows.
func (s *Source) FetchRows(ctx context.Context, readRange string) ([]rowsource.Row, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, classify(ctx, err)
	}

	rows := make([]rowsource.Row, 0, len(resp.Values))
	for _, values := range resp.Values {
		row := make(rowsource.Row, len(values))
		for i, v := range values {
			row[i] = cellString(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	default:
		return fmt.Sprint(c)
	}
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return rowsource.NewSourceError(rowsource.CategoryTimeout, sourceName, "request timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return rowsource.NewSourceError(rowsource.CategoryInternal, sourceName, "request canceled", err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return rowsource.NewSourceError(rowsource.CategoryRateLimited, sourceName, "quota exceeded", err)
		case apiErr.Code >= http.StatusInternalServerError:
			return rowsource.NewSourceError(rowsource.CategoryUnavailable, sourceName, "service unavailable", err)
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return rowsource.NewSourceError(rowsource.CategoryAuthentication, sourceName, "access denied", err)
		case apiErr.Code == http.StatusBadRequest || apiErr.Code == http.StatusNotFound:
			return rowsource.NewSourceError(rowsource.CategoryBadRequest, sourceName, "invalid spreadsheet or range", err)
		default:
			return rowsource.NewSourceError(rowsource.CategoryInternal, sourceName, "unexpected response", err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return rowsource.NewSourceError(rowsource.CategoryTimeout, sourceName, "network timeout", err)
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return rowsource.NewSourceError(rowsource.CategoryBadData, sourceName, "malformed response", err)
	}

	// Transport failures (refused, reset, DNS) are worth another attempt.
	return rowsource.NewSourceError(rowsource.CategoryUnavailable, sourceName, "request failed", err)
}
