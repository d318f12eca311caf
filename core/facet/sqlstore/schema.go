package sqlstore

import (
	"fmt"
	"reflect"
	"strings"

	"profile-sync/core/database"
)

// SchemaReport is the result of comparing the live schema with the store models.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

// TableReport lists the differences of one table.
type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "error"
}

// Migrate creates or updates the tables of the store.
func (s *Store) Migrate() error {
	for _, m := range models {
		if err := s.db.AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
	}
	return nil
}

// CheckSchema verifies the database schema using the GORM models as the source of truth.
func (s *Store) CheckSchema() (*SchemaReport, error) {
	report := &SchemaReport{
		Matched: true,
		Tables:  make(map[string]TableReport),
	}

	for _, m := range models {
		val := reflect.TypeOf(m)
		tabler, ok := m.(interface{ TableName() string })
		if !ok {
			return nil, fmt.Errorf("model %s does not implement TableName", val.Name())
		}
		tableName := tabler.TableName()

		actualCols, err := database.GetTableColumns(s.db, tableName)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", tableName, err))
			report.Matched = false
			continue
		}

		actual := make(map[string]database.ColumnInfo, len(actualCols))
		for _, col := range actualCols {
			actual[col.Field] = col
		}

		tbl := TableReport{
			MissingColumns: []string{},
			TypeMismatches: []string{},
			Status:         "ok",
		}
		for i := 0; i < val.NumField(); i++ {
			gormTag := val.Field(i).Tag.Get("gorm")
			colName := tagValue(gormTag, "column")
			if colName == "" {
				continue
			}

			col, exists := actual[colName]
			if !exists {
				tbl.MissingColumns = append(tbl.MissingColumns, colName)
				tbl.Status = "error"
				continue
			}

			expType := strings.ToLower(tagValue(gormTag, "type"))
			if expType != "" && !strings.Contains(col.Type, expType) {
				tbl.TypeMismatches = append(tbl.TypeMismatches, fmt.Sprintf("%s: expected %s, got %s", colName, expType, col.Type))
				tbl.Status = "error"
			}
		}

		if tbl.Status != "ok" {
			report.Matched = false
		}
		report.Tables[tableName] = tbl
	}

	return report, nil
}

func tagValue(tag, name string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, name+":") {
			return strings.TrimPrefix(p, name+":")
		}
	}
	return ""
}
