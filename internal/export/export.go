// Package export serializes a filtered employee view into downloadable
// tabular formats. Both writers are pure transforms over their input;
// they never touch the network or the storage layer.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/patric-chuzhbe/staffbook/internal/employee"
)

// Columns is the header of both export formats.
var Columns = []string{"Name", "Email", "Department", "Salary"}

const sheetName = "Employees"

// Every CSV field is quoted, including the header and numeric values.
func csvQuote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func csvRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, field := range fields {
		quoted[i] = csvQuote(field)
	}

	return strings.Join(quoted, ",") + "\r\n"
}

// WriteCSV writes the records as CSV: a header row followed by one row per
// record. An empty input produces a header-only file.
func WriteCSV(w io.Writer, records []employee.Employee) error {
	if _, err := io.WriteString(w, csvRow(Columns)); err != nil {
		return err
	}

	for _, empl := range records {
		row := csvRow([]string{
			empl.FirstName + " " + empl.LastName,
			empl.Email,
			empl.Department,
			strconv.FormatInt(empl.Salary, 10),
		})
		if _, err := io.WriteString(w, row); err != nil {
			return err
		}
	}

	return nil
}

// WriteXLSX writes the records as a spreadsheet with the same columns as
// WriteCSV, a bold header row and a currency number format on the salary
// column.
func WriteXLSX(w io.Writer, records []employee.Employee) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	header := make([]interface{}, len(Columns))
	for i, column := range Columns {
		header[i] = column
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "D1", headerStyle); err != nil {
		return err
	}

	for i, empl := range records {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{
			empl.FirstName + " " + empl.LastName,
			empl.Email,
			empl.Department,
			empl.Salary,
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}

	if len(records) > 0 {
		currencyFormat := "$#,##0"
		salaryStyle, err := f.NewStyle(&excelize.Style{
			CustomNumFmt: &currencyFormat,
		})
		if err != nil {
			return err
		}
		err = f.SetCellStyle(
			sheetName,
			"D2",
			fmt.Sprintf("D%d", len(records)+1),
			salaryStyle,
		)
		if err != nil {
			return err
		}
	}

	return f.Write(w)
}
