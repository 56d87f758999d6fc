// controllers/xlsx.go
package controllers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"Gin_postgres_redis_machine_tracker/db"
	"Gin_postgres_redis_machine_tracker/models"

	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// parseItemSheet 读第一个 sheet，第一行是表头（列名同 JSON 字段名）
func parseItemSheet(r io.Reader) ([]models.Item, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, db.Validation("the sheet has no data rows")
	}

	col := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, need := range []string{"serial_no", "name", "branch", "cat_id"} {
		if _, ok := col[need]; !ok {
			return nil, db.Validation("missing column %q", need)
		}
	}
	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var items []models.Item
	for n, row := range rows[1:] {
		line := n + 2
		if strings.Join(row, "") == "" {
			continue
		}
		it := models.Item{
			ItemCode:    cell(row, "item_code"),
			SerialNo:    cell(row, "serial_no"),
			Name:        cell(row, "name"),
			Description: cell(row, "description"),
			Branch:      cell(row, "branch"),
			BoxNo:       cell(row, "box_no"),
			ModelNo:     cell(row, "model_no"),
			MotorNo:     cell(row, "motor_no"),
			Supplier:    cell(row, "supplier"),
			Brand:       cell(row, "brand"),
			Condition:   cell(row, "condition"),
		}
		if v := cell(row, "cat_id"); v != "" {
			id, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return nil, db.Validation("row %d: cat_id %q is not a number", line, v)
			}
			it.CatID = uint(id)
		}
		if v := cell(row, "import_date"); v != "" {
			d, err := models.ParseDate(v)
			if err != nil {
				return nil, db.Validation("row %d: import_date %q is not a date", line, v)
			}
			it.ImportDate = &d
		}
		items = append(items, it)
	}
	return items, nil
}

var expiredHeader = []any{
	"Rent Item ID", "Serial No", "Name", "Rented By", "Status",
	"PO", "CPO", "Branch", "GRN", "From", "To",
}

// expiredWorkbook renders the expired-machine view as one sheet.
func expiredWorkbook(rows []db.ExpiredMachine) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Expired"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &expiredHeader); err != nil {
		return nil, err
	}
	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(sheet, "A1", "K1", bold)

	for i, m := range rows {
		grn := ""
		if m.GRNID != nil {
			grn = strconv.FormatUint(uint64(*m.GRNID), 10)
		}
		vals := []any{
			m.RentItemID, m.SerialNo, m.Name, m.RentedBy, string(m.MachineStatus),
			m.POID, m.CPOID, m.Branch, grn, m.FromDate.String(), m.ToDate.String(),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(sheet, "A", "K", 16)
	return f, nil
}
