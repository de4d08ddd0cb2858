package db

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// MissingColumnError is returned when a table lacks a column its primary key needs
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("table %s has no %q column", e.Table, e.Column)
}

// TableAs maps the rows of a table to structs of type T using their csv tags.
// The first row holds the headers. keyColumn must be present in the headers.
func TableAs[T any](table string, rows [][]string, keyColumn string) ([]T, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("table %s has no header row", table)
	}
	headers := rows[0]
	dataRows := rows[1:]

	columnIndexes := make(map[string]int, len(headers))
	for i, header := range headers {
		columnIndexes[strings.TrimSpace(header)] = i
	}
	if _, ok := columnIndexes[keyColumn]; !ok {
		return nil, &MissingColumnError{Table: table, Column: keyColumn}
	}

	var model T
	t := reflect.TypeOf(model)
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model must be a struct, got %s", t.Kind())
	}

	fieldMap := make(map[string]reflect.StructField)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if columnName := field.Tag.Get("csv"); columnName != "" {
			fieldMap[columnName] = field
		}
	}

	results := make([]T, 0, len(dataRows))
	for rowIdx, row := range dataRows {
		if isBlank(row) {
			continue
		}

		result := reflect.New(t).Elem()
		for columnName, colIdx := range columnIndexes {
			field, ok := fieldMap[columnName]
			if !ok || colIdx >= len(row) {
				continue
			}

			// Header is line 1
			if err := setFieldValue(result.FieldByName(field.Name), row[colIdx]); err != nil {
				return nil, fmt.Errorf("table %s line %d, column %s: %w", table, rowIdx+2, columnName, err)
			}
		}

		results = append(results, result.Interface().(T))
	}

	return results, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// setFieldValue converts a cell to the field's type and sets it
func setFieldValue(field reflect.Value, cell string) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}
	cell = strings.TrimSpace(cell)

	switch field.Kind() {
	case reflect.String:
		field.SetString(cell)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if cell == "" {
			field.SetInt(0)
			return nil
		}
		intVal, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse int: %w", err)
		}
		field.SetInt(intVal)

	case reflect.Float32, reflect.Float64:
		if cell == "" {
			field.SetFloat(0)
			return nil
		}
		floatVal, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return fmt.Errorf("failed to parse float: %w", err)
		}
		field.SetFloat(floatVal)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}
