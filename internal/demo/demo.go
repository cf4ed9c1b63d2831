// Package demo seeds a DuckDB database with a small personnel dataset so the
// report can be explored without a warehouse connection.
//
// The seeded view carries the production report's name; the demo project
// template reads it with a plain SELECT.
package demo

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/milgrid/pkg/adapter"
)

//go:embed dataset.yaml
var datasetYAML []byte

// Column describes one column of the demo table.
type Column struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Dataset is the embedded demo dataset.
type Dataset struct {
	Table   string   `yaml:"table"`
	View    string   `yaml:"view"`
	Columns []Column `yaml:"columns"`
	Rows    [][]any  `yaml:"rows"`
}

// Load parses the embedded dataset.
func Load() (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(datasetYAML, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse demo dataset: %w", err)
	}
	if ds.Table == "" || ds.View == "" || len(ds.Columns) == 0 {
		return nil, fmt.Errorf("demo dataset is incomplete")
	}
	for i, row := range ds.Rows {
		if len(row) != len(ds.Columns) {
			return nil, fmt.Errorf("demo dataset row %d has %d values, want %d", i, len(row), len(ds.Columns))
		}
	}
	return &ds, nil
}

// Query returns the statement that reads the seeded view.
func (d *Dataset) Query() string {
	return fmt.Sprintf("SELECT * FROM %s", d.View)
}

// Seed creates the demo table and view on an already-connected adapter,
// replacing any previous seed.
func Seed(ctx context.Context, adp adapter.Adapter) (*Dataset, error) {
	ds, err := Load()
	if err != nil {
		return nil, err
	}

	colDefs := make([]string, len(ds.Columns))
	colNames := make([]string, len(ds.Columns))
	placeholders := make([]string, len(ds.Columns))
	for i, col := range ds.Columns {
		colDefs[i] = fmt.Sprintf("%s %s", col.Name, col.Type)
		colNames[i] = col.Name
		placeholders[i] = "?"
	}

	createTable := fmt.Sprintf("CREATE OR REPLACE TABLE %s (%s)", ds.Table, strings.Join(colDefs, ", "))
	if err := adp.Exec(ctx, createTable); err != nil {
		return nil, fmt.Errorf("failed to create demo table: %w", err)
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		ds.Table, strings.Join(colNames, ", "), strings.Join(placeholders, ", "))
	for i, row := range ds.Rows {
		if err := adp.Exec(ctx, insert, row...); err != nil {
			return nil, fmt.Errorf("failed to insert demo row %d: %w", i, err)
		}
	}

	createView := fmt.Sprintf("CREATE OR REPLACE VIEW %s AS SELECT * FROM %s", ds.View, ds.Table)
	if err := adp.Exec(ctx, createView); err != nil {
		return nil, fmt.Errorf("failed to create demo view: %w", err)
	}

	return ds, nil
}
