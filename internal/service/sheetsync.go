package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"license-activation-service/internal/model"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetSyncService mirrors activation rows into a Google Sheet so license
// state can be eyeballed without database access. A nil service is valid
// and means sync is disabled.
type SheetSyncService struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

func NewSheetSyncService(enableSync bool, credentialPath, spreadsheetID, sheetName string) (*SheetSyncService, error) {
	if !enableSync {
		return nil, nil
	}

	ctx := context.Background()

	b, err := os.ReadFile(credentialPath)
	if err != nil {
		return nil, fmt.Errorf("read sheet credentials: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, b, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("load sheet credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}

	return &SheetSyncService{
		service:       srv,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// SyncActivation updates the sheet row for the activation, keyed by
// "licenseKey/instance" in column A, appending when no row exists yet.
func (s *SheetSyncService) SyncActivation(a *model.Activation) error {
	if s == nil {
		return nil
	}

	rowKey := a.LicenseKey + "/" + a.Instance

	keyResp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, fmt.Sprintf("%s!A2:A", s.sheetName)).Do()
	if err != nil {
		log.Printf("read sheet keys: %v", err)
		return fmt.Errorf("read sheet keys: %w", err)
	}

	rowIndex := 0
	found := false
	for i, row := range keyResp.Values {
		if len(row) > 0 && row[0] == rowKey {
			found = true
			rowIndex = i + 2 // data starts at A2
			break
		}
	}

	values := [][]interface{}{{
		rowKey,
		a.LicenseKey,
		a.ApiProductID,
		a.Instance,
		a.Active,
		a.ActivationDate.Format(time.RFC3339),
	}}

	if found {
		_, err = s.service.Spreadsheets.Values.Update(
			s.spreadsheetID,
			fmt.Sprintf("%s!A%d:F%d", s.sheetName, rowIndex, rowIndex),
			&sheets.ValueRange{Values: values},
		).ValueInputOption("USER_ENTERED").Do()
	} else {
		_, err = s.service.Spreadsheets.Values.Append(
			s.spreadsheetID,
			s.sheetName+"!A2:F",
			&sheets.ValueRange{Values: values},
		).ValueInputOption("USER_ENTERED").Do()
	}
	if err != nil {
		log.Printf("sync activation %s: %v", rowKey, err)
		return fmt.Errorf("sync activation to sheet: %w", err)
	}

	return nil
}
