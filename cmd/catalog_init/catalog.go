package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"stress-index/internal/logger"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

// summaryTable mirrors model.StressSummary plus its owner keys. Column
// order must match the CSV written by service.CatalogSync.
var summaryTable = []sdk.Column{
	{Name: "user_id", Type: "VARCHAR(64)", IsPk: true, Comment: "student user id"},
	{Name: "university_id", Type: "VARCHAR(64)", Comment: "institution id, empty when unaffiliated"},
	{Name: "financial_stress_index", Type: "DECIMAL(5,2)", Comment: "stress index from 0 to 100"},
	{Name: "risk_level", Type: "VARCHAR(16)", Comment: "Low, Medium or High"},
	{Name: "money_personality", Type: "VARCHAR(32)", Comment: "Balanced, Stress Spender, Anxious Saver, Impulsive or New User"},
	{Name: "trigger_types", Type: "TEXT", Comment: "profile stress triggers separated by '; '"},
	{Name: "predicted_risk_window", Type: "VARCHAR(32)", Comment: "Next 3 Days, or empty for low risk"},
	{Name: "last_updated", Type: "DATETIME", Comment: "time the summary was published"},
}

const summaryTableName = "stress_summaries"

// catalogAPI is the subset of *sdk.RawClient used to lay out the catalog.
type catalogAPI interface {
	CreateDatabase(ctx context.Context, req *sdk.DatabaseCreateRequest, opts ...sdk.CallOption) (*sdk.DatabaseCreateResponse, error)
	ListDatabases(ctx context.Context, req *sdk.DatabaseListRequest, opts ...sdk.CallOption) (*sdk.DatabaseListResponse, error)
	GetDatabaseChildren(ctx context.Context, req *sdk.DatabaseChildrenRequest, opts ...sdk.CallOption) (*sdk.DatabaseChildrenResponseData, error)
	CreateTable(ctx context.Context, req *sdk.TableCreateRequest, opts ...sdk.CallOption) (*sdk.TableCreateResponse, error)
}

// initCatalog is safe to rerun: an existing database or table is
// discovered instead of created, so a partial earlier run is completed.
func initCatalog(ctx context.Context, client catalogAPI, catalogID sdk.CatalogID, dbName string) (sdk.DatabaseID, sdk.TableID, error) {
	var dbID sdk.DatabaseID
	dbResp, err := client.CreateDatabase(ctx, &sdk.DatabaseCreateRequest{
		CatalogID:    catalogID,
		DatabaseName: dbName,
		Comment:      "financial stress index",
	})
	switch {
	case err == nil:
		dbID = dbResp.DatabaseID
		logger.Info("catalog: database created", "id", dbID)
	case isDuplicate(err):
		logger.Info("catalog: database already exists, discovering ID", "name", dbName)
		if dbID, err = discoverDatabaseID(ctx, client, catalogID, dbName); err != nil {
			return 0, 0, err
		}
	default:
		return 0, 0, fmt.Errorf("create database: %w", err)
	}

	resp, err := client.CreateTable(ctx, &sdk.TableCreateRequest{
		DatabaseID: dbID,
		Name:       summaryTableName,
		Columns:    summaryTable,
		Comment:    "latest stress summary per student",
	})
	if err != nil {
		if !isDuplicate(err) {
			return 0, 0, fmt.Errorf("create table %s: %w", summaryTableName, err)
		}
		logger.Info("catalog: table already exists, discovering ID", "name", summaryTableName)
		tableID, err := discoverTableID(ctx, client, dbID, summaryTableName)
		if err != nil {
			return 0, 0, err
		}
		return dbID, tableID, nil
	}
	logger.Info("catalog: table created", "name", summaryTableName, "id", resp.TableID)
	return dbID, resp.TableID, nil
}

func discoverDatabaseID(ctx context.Context, client catalogAPI, catalogID sdk.CatalogID, dbName string) (sdk.DatabaseID, error) {
	resp, err := client.ListDatabases(ctx, &sdk.DatabaseListRequest{CatalogID: catalogID})
	if err != nil {
		return 0, fmt.Errorf("list databases: %w", err)
	}
	for _, db := range resp.List {
		if db.DatabaseName == dbName {
			logger.Info("catalog: database discovered", "id", db.DatabaseID)
			return db.DatabaseID, nil
		}
	}
	return 0, fmt.Errorf("database %s not found in catalog %d", dbName, catalogID)
}

func discoverTableID(ctx context.Context, client catalogAPI, dbID sdk.DatabaseID, name string) (sdk.TableID, error) {
	resp, err := client.GetDatabaseChildren(ctx, &sdk.DatabaseChildrenRequest{DatabaseID: dbID})
	if err != nil {
		return 0, fmt.Errorf("list tables of database %d: %w", dbID, err)
	}
	for _, child := range resp.List {
		if child.Name != name {
			continue
		}
		id, err := strconv.ParseInt(child.ID, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("table %s: bad id %q: %w", name, child.ID, err)
		}
		logger.Info("catalog: table discovered", "name", name, "id", id)
		return sdk.TableID(id), nil
	}
	return 0, fmt.Errorf("table %s not found in database %d", name, dbID)
}

func isDuplicate(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate") || strings.Contains(s, "already exist") || strings.Contains(s, "exists") || strings.Contains(s, "conflict")
}
