// Package spreadsheet xlsx读写
package spreadsheet

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ErrNoSheet 工作簿中没有工作表
var ErrNoSheet = errors.New("arquivo sem planilhas")

// ReadFirstSheet 读取第一个工作表
// 数值单元格返回原始值,不经过数字格式("1234.5"而不是"1,234.50")
// excelize不返回行尾的空单元格
func ReadFirstSheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir planilha: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("ler linhas da planilha: %w", err)
	}
	return rows, nil
}
