package bookimport

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// 诊断信息面向使用葡语表格模板的店员,保持葡语
const (
	msgEmptySheet     = "Planilha vazia ou sem dados válidos"
	msgNoValidBooks   = "Nenhum livro válido encontrado na planilha"
	msgFileError      = "Erro ao processar arquivo: "
	msgTitleRequired  = "Título obrigatório não encontrado"
	msgAuthorRequired = "Autor obrigatório não encontrado"
	msgUnknownError   = "Erro desconhecido"
)

// 年份有效范围
const (
	MinYear = 1000
	MaxYear = 2100
)

// MaxTextLength 书名、作者的最大字符数,与books表列宽一致
const MaxTextLength = 255

// 列名别名,按顺序取第一个非空值
var (
	titleAliases       = []string{"Título", "TÍTULO", "titulo", "Title", "TITLE"}
	authorAliases      = []string{"Autor", "AUTOR", "autor", "Author", "AUTHOR"}
	isbnAliases        = []string{"ISBN", "isbn", "Isbn"}
	publisherAliases   = []string{"Editora", "EDITORA", "editora", "Publisher", "PUBLISHER"}
	categoryAliases    = []string{"Categoria", "CATEGORIA", "categoria", "Category", "CATEGORY"}
	descriptionAliases = []string{"Descrição", "DESCRIÇÃO", "descrição", "Descricao", "Description", "DESCRIPTION"}
	yearAliases        = []string{"Ano", "ANO", "ano", "Ano de Publicação", "Year", "YEAR"}
	priceAliases       = []string{"Preço", "PREÇO", "preço", "Preco", "Price", "PRICE"}
	stockAliases       = []string{"Estoque", "ESTOQUE", "estoque", "Quantidade", "Stock", "STOCK"}
)

// TemplateHeaders 导入模板的列顺序
var TemplateHeaders = []string{"Título", "Autor", "ISBN", "Editora", "Ano", "Preço", "Estoque", "Categoria", "Descrição"}

// RawRow 一行数据:列名 → 单元格文本
type RawRow map[string]string

// get 按别名顺序取第一个非空值
func (r RawRow) get(aliases []string) string {
	for _, a := range aliases {
		if v := r[a]; v != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// rowError 行级错误,消息会带上行号
type rowError string

func (e rowError) Error() string { return string(e) }

// ParseRows 解析表格
// rows[0]为表头,其余为数据行
// 行号 = 数据行下标 + 2,即表格中的行号(表头为第1行)
func ParseRows(rows [][]string) *Result {
	result := NewResult()

	data := toRawRows(rows)
	if len(data) == 0 {
		result.Errors = append(result.Errors, msgEmptySheet)
		return result
	}

	for i, row := range data {
		rowNumber := i + 2
		if row == nil {
			continue
		}

		rec, skip, err := parseRow(row)
		if skip {
			continue
		}
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Linha %d: %s", rowNumber, err.Error()))
			continue
		}

		result.Books = append(result.Books, *rec)
		result.Success++
	}

	if len(result.Books) == 0 {
		result.Errors = append(result.Errors, msgNoValidBooks)
	}

	return result
}

// toRawRows 按表头把每行转成map,缺失单元格为空串
// 整行空白的位置为nil,保留下标以便行号与表格一致;没有非空数据行时返回nil
// 表头重复时取第一列
func toRawRows(rows [][]string) []RawRow {
	if len(rows) < 2 {
		return nil
	}

	headers := rows[0]
	out := make([]RawRow, len(rows)-1)
	nonBlank := 0
	for i, cells := range rows[1:] {
		if isBlank(cells) {
			continue
		}
		nonBlank++

		row := make(RawRow, len(headers))
		for col, h := range headers {
			h = strings.TrimSpace(h)
			if h == "" {
				continue
			}
			if _, dup := row[h]; dup {
				continue
			}
			if col < len(cells) {
				row[h] = cells[col]
			} else {
				row[h] = ""
			}
		}
		out[i] = row
	}
	if nonBlank == 0 {
		return nil
	}
	return out
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseRow 解析单行
// skip=true:书名和作者都为空,该行不计入任何统计
// 解析过程中的panic转为行级错误,不影响后续行
func parseRow(row RawRow) (rec *ImportedBookRecord, skip bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec, skip = nil, false
			if e, ok := r.(error); ok {
				err = rowError(e.Error())
			} else {
				err = rowError(msgUnknownError)
			}
		}
	}()

	titulo := row.get(titleAliases)
	autor := row.get(authorAliases)

	if titulo == "" && autor == "" {
		return nil, true, nil
	}
	if titulo == "" {
		return nil, false, rowError(msgTitleRequired)
	}
	if autor == "" {
		return nil, false, rowError(msgAuthorRequired)
	}
	if utf8.RuneCountInString(titulo) > MaxTextLength {
		return nil, false, rowError(fmt.Sprintf("Título excede %d caracteres", MaxTextLength))
	}
	if utf8.RuneCountInString(autor) > MaxTextLength {
		return nil, false, rowError(fmt.Sprintf("Autor excede %d caracteres", MaxTextLength))
	}

	return &ImportedBookRecord{
		Titulo:    titulo,
		Autor:     autor,
		ISBN:      optional(row.get(isbnAliases)),
		Editora:   optional(row.get(publisherAliases)),
		Categoria: optional(row.get(categoryAliases)),
		Descricao: optional(row.get(descriptionAliases)),
		Ano:       ParseYear(row.get(yearAliases)),
		Preco:     ParseNumber(row.get(priceAliases)),
		Estoque:   ParseStock(row.get(stockAliases)),
	}, false, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ParseNumber 解析数字,兼容逗号小数点("49,90")
// 只替换第一个逗号;无法解析返回nil
func ParseNumber(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return nil
	}
	return &d
}

// ParseYear 解析年份:先按数字解析,再校验[1000, 2100],向下取整
func ParseYear(s string) *int {
	d := ParseNumber(s)
	if d == nil {
		return nil
	}
	if d.LessThan(decimal.NewFromInt(MinYear)) || d.GreaterThan(decimal.NewFromInt(MaxYear)) {
		return nil
	}
	y := int(d.Floor().IntPart())
	return &y
}

// ParseStock 解析库存,向下取整;超出int范围视为无法解析
func ParseStock(s string) *int {
	d := ParseNumber(s)
	if d == nil {
		return nil
	}
	f := d.Floor()
	if f.GreaterThan(decimal.NewFromInt(math.MaxInt32)) || f.LessThan(decimal.NewFromInt(math.MinInt32)) {
		return nil
	}
	n := int(f.IntPart())
	return &n
}
