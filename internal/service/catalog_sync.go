package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"stress-index/internal/model"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

// CatalogSync mirrors published summaries into a MOI catalog table so
// they can be queried with NL2SQL. Failures are logged and dropped.
type CatalogSync struct {
	raw        *sdk.RawClient
	sdk        *sdk.SDKClient
	databaseID sdk.DatabaseID
	tableID    sdk.TableID
}

func NewCatalogSync(raw *sdk.RawClient, databaseID, tableID int64) *CatalogSync {
	return &CatalogSync{
		raw:        raw,
		sdk:        sdk.NewSDKClient(raw),
		databaseID: sdk.DatabaseID(databaseID),
		tableID:    sdk.TableID(tableID),
	}
}

// column order matches the table created by cmd/catalog_init
var catalogSummaryMapping = []sdk.FileAndTableColumnMapping{
	{TableColumn: "user_id", Column: "user_id", ColNumInFile: 1},
	{TableColumn: "university_id", Column: "university_id", ColNumInFile: 2},
	{TableColumn: "financial_stress_index", Column: "financial_stress_index", ColNumInFile: 3},
	{TableColumn: "risk_level", Column: "risk_level", ColNumInFile: 4},
	{TableColumn: "money_personality", Column: "money_personality", ColNumInFile: 5},
	{TableColumn: "trigger_types", Column: "trigger_types", ColNumInFile: 6},
	{TableColumn: "predicted_risk_window", Column: "predicted_risk_window", ColNumInFile: 7},
	{TableColumn: "last_updated", Column: "last_updated", ColNumInFile: 8},
}

func (s *CatalogSync) ExportSummary(ctx context.Context, userID, universityID string, rec model.StressSummary) {
	s.importCSV(ctx, summaryCSVLine(userID, universityID, rec), fmt.Sprintf("stress_%s.csv", userID))
}

func summaryCSVLine(userID, universityID string, rec model.StressSummary) string {
	window := ""
	if rec.PredictedRiskWindow != nil {
		window = *rec.PredictedRiskWindow
	}
	return strings.Join([]string{
		esc(userID),
		esc(universityID),
		strconv.FormatFloat(rec.FinancialStressIndex, 'f', 2, 64),
		esc(rec.RiskLevel),
		esc(rec.MoneyPersonality),
		esc(strings.Join(rec.TriggerTypes, "; ")),
		esc(window),
		rec.LastUpdated.Format("2006-01-02 15:04:05"),
	}, ",") + "\n"
}

func (s *CatalogSync) importCSV(ctx context.Context, csv, fileName string) {
	resp, err := s.raw.UploadLocalFile(ctx, bytes.NewReader([]byte(csv)), fileName, []sdk.FileMeta{{Filename: fileName, Path: "/"}})
	if err != nil {
		slog.Warn("catalog sync: upload failed", "table", s.tableID, "err", err)
		return
	}
	if len(resp.ConnFileIds) == 0 {
		slog.Warn("catalog sync: no conn_file_ids", "table", s.tableID)
		return
	}

	_, err = s.sdk.ImportLocalFileToTable(ctx, &sdk.TableConfig{
		ConnFileIDs:      resp.ConnFileIds,
		NewTable:         false,
		DatabaseID:       s.databaseID,
		TableID:          s.tableID,
		IsColumnName:     false,
		RowStart:         1,
		Conflict:         1,
		ExistedTable:     catalogSummaryMapping,
		ExistedTableOpts: sdk.ExistedTableOptions{Method: sdk.ExistedTableOptionAppend},
	})
	if err != nil {
		slog.Warn("catalog sync: import failed", "table", s.tableID, "err", err)
		return
	}
	slog.Debug("catalog sync: ok", "table", s.tableID, "file", fileName)
}

func esc(s string) string {
	if strings.ContainsAny(s, ",\"\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
