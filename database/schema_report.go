package database

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"

	"gorm.io/gorm"
)

// TableReport lists the drift between one live table and its row mapping.
type TableReport struct {
	Table  string
	Exists bool
	// Unmapped columns exist in the database but not in the row struct.
	Unmapped []string
	// Missing columns are mapped by the row struct but absent from the database.
	Missing []string
}

// SchemaReport compares each mapped table with its live columns.
type SchemaReport struct {
	Tables []TableReport
}

// Drift returns the number of mismatched columns across all tables.
func (r SchemaReport) Drift() int {
	total := 0
	for _, t := range r.Tables {
		total += len(t.Unmapped) + len(t.Missing)
	}
	return total
}

// Clean reports whether every table exists and matches its mapping.
func (r SchemaReport) Clean() bool {
	for _, t := range r.Tables {
		if !t.Exists {
			return false
		}
	}
	return r.Drift() == 0
}

// mappedTables pairs each table with the row struct that reads it.
var mappedTables = []struct {
	name  string
	model any
}{
	{"users", userRow{}},
	{"projects", projectRow{}},
	{"messages", messageRow{}},
}

// BuildSchemaReport inspects the live schema through gorm's Migrator.
func BuildSchemaReport(ctx context.Context, db *gorm.DB) (SchemaReport, error) {
	db = db.WithContext(ctx)
	var report SchemaReport
	for _, mapped := range mappedTables {
		table := TableReport{Table: mapped.name}
		if !db.Migrator().HasTable(mapped.name) {
			report.Tables = append(report.Tables, table)
			continue
		}
		table.Exists = true

		columnTypes, err := db.Migrator().ColumnTypes(mapped.name)
		if err != nil {
			return SchemaReport{}, fmt.Errorf("columns of %s: %w", mapped.name, err)
		}
		live := make([]string, 0, len(columnTypes))
		for _, ct := range columnTypes {
			live = append(live, ct.Name())
		}
		fields := modelColumns(mapped.model)

		table.Unmapped = difference(live, fields)
		table.Missing = difference(fields, live)
		report.Tables = append(report.Tables, table)
	}
	return report, nil
}

// Print writes the report in a human readable form.
func (r SchemaReport) Print(w io.Writer) {
	fmt.Fprintln(w, "=== COLUMN MISMATCH REPORT ===")
	for _, t := range r.Tables {
		fmt.Fprintf(w, "\n--- Table: %s ---\n", t.Table)
		switch {
		case !t.Exists:
			fmt.Fprintln(w, "Table does not exist (run migrations)")
		case len(t.Unmapped) == 0 && len(t.Missing) == 0:
			fmt.Fprintln(w, "All columns are accounted for.")
		default:
			for _, col := range t.Unmapped {
				fmt.Fprintf(w, "  - %s (not in model)\n", col)
			}
			for _, col := range t.Missing {
				fmt.Fprintf(w, "  - %s (not in database)\n", col)
			}
		}
	}
	fmt.Fprintf(w, "\n=== SUMMARY ===\nTotal mismatched columns across all tables: %d\n", r.Drift())
}

// modelColumns extracts the column names declared in gorm tags.
func modelColumns(model any) []string {
	var columns []string
	t := reflect.TypeOf(model)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			continue
		}
		if name := columnFromTag(field.Tag.Get("gorm")); name != "" {
			columns = append(columns, name)
		}
	}
	return columns
}

func columnFromTag(tag string) string {
	for _, part := range strings.Split(tag, ";") {
		part = strings.TrimSpace(part)
		if name, ok := strings.CutPrefix(part, "column:"); ok {
			return name
		}
	}
	return ""
}

// difference returns the elements of a not present in b.
func difference(a, b []string) []string {
	var out []string
	for _, s := range a {
		if !slices.Contains(b, s) {
			out = append(out, s)
		}
	}
	return out
}
