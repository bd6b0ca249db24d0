package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// table.go provides functions for accessing and processing table definitions.

import (
	"fmt"
	"log/slog"

	"irqtune/internal/script"
)

// Field represents the values for a field in a table
type Field struct {
	Name   string
	Values []string
}

// TableValues combines the table definition with the resulting fields and their values
type TableValues struct {
	TableDefinition
	Fields   []Field
	Insights []Insight
}

// Insight represents an insight about the data in a table
type Insight struct {
	Recommendation string
	Justification  string
}

type FieldsRetriever func(map[string]script.ScriptOutput) []Field
type InsightsRetriever func(map[string]script.ScriptOutput, TableValues) []Insight

// TableDefinition defines the structure of a table in the report
type TableDefinition struct {
	Name        string
	ScriptNames []string
	// Fields function is called to retrieve field values from the script outputs
	FieldsFunc  FieldsRetriever
	MenuLabel   string // add to tables that will be displayed in the menu
	HasRows     bool   // table is meant to be displayed in row form, i.e., a field may have multiple values
	NoDataFound string // message to display when no data is found
	// insights function is used to retrieve insights about the data in the table
	InsightsFunc InsightsRetriever
}

// GetTableByName retrieves a table definition by its name. It will panic if the
// table is not found.
func GetTableByName(name string) TableDefinition {
	if table, ok := tableDefinitions[name]; ok {
		return table
	}
	panic(fmt.Sprintf("table not found: %s", name))
}

// ProcessTables processes the given tables and script outputs to generate table values.
func ProcessTables(tableNames []string, scriptOutputs map[string]script.ScriptOutput) (allTableValues []TableValues, err error) {
	for _, tableName := range tableNames {
		allTableValues = append(allTableValues, GetValuesForTable(tableName, scriptOutputs))
	}
	return
}

// GetValuesForTable returns the fields and their values for the table with the given name
func GetValuesForTable(tableName string, outputs map[string]script.ScriptOutput) TableValues {
	table := GetTableByName(tableName)
	if table.FieldsFunc == nil {
		panic(fmt.Sprintf("table %s, FieldsFunc cannot be nil", table.Name))
	}
	tableValues := TableValues{
		TableDefinition: table,
		Fields:          table.FieldsFunc(outputs),
	}
	if err := validateTableValues(tableValues); err != nil {
		slog.Error("table validation failed", slog.String("table", table.Name), slog.String("error", err.Error()))
		return TableValues{
			TableDefinition: table,
			Fields:          []Field{},
		}
	}
	if table.InsightsFunc != nil {
		tableValues.Insights = table.InsightsFunc(outputs, tableValues)
	}
	return tableValues
}

// GetFieldIndex returns the index of a field with the given name in the
// TableValues structure, or an error when the field is absent or empty.
func GetFieldIndex(fieldName string, tableValues TableValues) (int, error) {
	for i, field := range tableValues.Fields {
		if field.Name == fieldName {
			if len(field.Values) == 0 {
				return -1, fmt.Errorf("field [%s] does not have associated value(s)", field.Name)
			}
			return i, nil
		}
	}
	return -1, fmt.Errorf("field [%s] not found in table [%s]", fieldName, tableValues.Name)
}

func validateTableValues(tableValues TableValues) error {
	if tableValues.Name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	// no field values is a valid state
	if len(tableValues.Fields) == 0 {
		return nil
	}
	numValues := -1
	for _, field := range tableValues.Fields {
		if field.Name == "" {
			return fmt.Errorf("field name cannot be empty")
		}
		if numValues == -1 {
			numValues = len(field.Values)
			continue
		}
		if len(field.Values) != numValues {
			return fmt.Errorf("field [%s] has %d values, expected %d", field.Name, len(field.Values), numValues)
		}
	}
	return nil
}

// CreateInsightsTable collects the insights from all tables into a single
// table suitable for rendering at the end of a report.
func CreateInsightsTable(allTableValues []TableValues) TableValues {
	insightsTableValues := TableValues{
		TableDefinition: TableDefinition{
			Name:      InsightsTableName,
			MenuLabel: InsightsTableName,
			HasRows:   true,
		},
		Fields: []Field{
			{Name: "Recommendation"},
			{Name: "Justification"},
		},
	}
	for _, tableValues := range allTableValues {
		for _, insight := range tableValues.Insights {
			insightsTableValues.Fields[0].Values = append(insightsTableValues.Fields[0].Values, insight.Recommendation)
			insightsTableValues.Fields[1].Values = append(insightsTableValues.Fields[1].Values, insight.Justification)
		}
	}
	return insightsTableValues
}
