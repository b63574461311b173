package spreadsheet

import (
	"io"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookstore-admin/internal/domain/bookimport"
	"github.com/xiebiao/bookstore-admin/internal/domain/report"
)

// 导入模板
const (
	TemplateFileName  = "template_cadastro_livros.xlsx"
	TemplateSheetName = "Livros"
)

// WriteImportTemplate 生成导入模板:表头 + 一行示例
func WriteImportTemplate(w io.Writer) error {
	return Write(w, Sheet{
		Name:    TemplateSheetName,
		Headers: bookimport.TemplateHeaders,
		Rows: [][]interface{}{
			{"Exemplo de Livro", "Nome do Autor", "9788535902773", "Nome da Editora", 2023, 49.90, 10, "Ficção", "Descrição do livro"},
		},
		MoneyColumns: []int{5},
	})
}

// WriteSalesReport 导出销售报表:汇总、每日营收、畅销书三个工作表
func WriteSalesReport(w io.Writer, r *report.SalesReport) error {
	summary := Sheet{
		Name:    "Resumo",
		Headers: []string{"Período", "De", "Até", "Total de vendas", "Receita total", "Ticket médio"},
		Rows: [][]interface{}{{
			string(r.Period),
			r.From.Format("2006-01-02"),
			r.To.Format("2006-01-02"),
			r.TotalSales,
			money(r.TotalRevenue),
			money(r.AverageTicket),
		}},
		MoneyColumns: []int{4, 5},
	}

	byDay := Sheet{
		Name:         "Vendas por dia",
		Headers:      []string{"Data", "Vendas", "Receita"},
		MoneyColumns: []int{2},
	}
	for _, d := range r.ByDay {
		byDay.Rows = append(byDay.Rows, []interface{}{d.Date, d.Count, money(d.Total)})
	}

	top := Sheet{
		Name:         "Mais vendidos",
		Headers:      []string{"#", "Livro", "Quantidade", "Receita"},
		MoneyColumns: []int{3},
	}
	for i, b := range r.TopBooks {
		top.Rows = append(top.Rows, []interface{}{i + 1, b.Title, b.Quantity, money(b.Revenue)})
	}

	return Write(w, summary, byDay, top)
}

// SalesReportFileName 报表文件名
func SalesReportFileName(r *report.SalesReport) string {
	return "relatorio_vendas_" + string(r.Period) + "_" + r.To.Format("20060102") + ".xlsx"
}

// money 分转为元,写入数值单元格
func money(cents int64) float64 {
	return decimal.New(cents, -2).InexactFloat64()
}
