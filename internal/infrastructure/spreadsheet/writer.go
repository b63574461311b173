package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Sheet 待写入的工作表,第一行为表头
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
	// MoneyColumns 金额列(从0开始),使用0.00格式,不加千分位
	MoneyColumns []int
}

// Write 生成xlsx写入w,第一个Sheet为活动工作表
func Write(w io.Writer, sheets ...Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1A659E"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return err
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return err
		}

		if err := writeSheet(f, s, headerStyle, moneyStyle); err != nil {
			return fmt.Errorf("escrever planilha %s: %w", s.Name, err)
		}
	}

	f.SetActiveSheet(0)
	_, err = f.WriteTo(w)
	return err
}

func writeSheet(f *excelize.File, s Sheet, headerStyle, moneyStyle int) error {
	widths := make([]int, len(s.Headers))

	for col, h := range s.Headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(s.Name, cell, h); err != nil {
			return err
		}
		widths[col] = len([]rune(h))
	}
	if len(s.Headers) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(s.Headers), 1)
		if err := f.SetCellStyle(s.Name, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	for r, row := range s.Rows {
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
			if err := f.SetCellValue(s.Name, cell, v); err != nil {
				return err
			}
			if col < len(widths) {
				if w := len([]rune(fmt.Sprint(v))); w > widths[col] {
					widths[col] = w
				}
			}
		}
	}

	for _, col := range s.MoneyColumns {
		if len(s.Rows) == 0 {
			break
		}
		top, _ := excelize.CoordinatesToCellName(col+1, 2)
		bottom, _ := excelize.CoordinatesToCellName(col+1, len(s.Rows)+1)
		if err := f.SetCellStyle(s.Name, top, bottom, moneyStyle); err != nil {
			return err
		}
	}

	for col, w := range widths {
		name, _ := excelize.ColumnNumberToName(col + 1)
		width := float64(w)*1.2 + 2
		if width < 10 {
			width = 10
		}
		if width > 60 {
			width = 60
		}
		if err := f.SetColWidth(s.Name, name, name, width); err != nil {
			return err
		}
	}
	return nil
}
