package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"pembukuan-web/internal/models"
	"pembukuan-web/internal/utils"
)

// ExcelService writes reports as xlsx workbooks under the export
// directory. Amounts are rendered with the Rp formatting contract.
type ExcelService struct {
	exportPath string
}

func NewExcelService(exportPath string) *ExcelService {
	return &ExcelService{exportPath: exportPath}
}

func (s *ExcelService) prepare(filename string) (string, error) {
	if err := os.MkdirAll(s.exportPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	return filepath.Join(s.exportPath, filename), nil
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for col, v := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

// ExportJournal writes journal entries to a workbook, one row per entry.
func (s *ExcelService) ExportJournal(entries []models.JournalEntry, filename string) (string, error) {
	path, err := s.prepare(filename)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Jurnal"
	f.SetSheetName("Sheet1", sheet)

	setRow(f, sheet, 1, "Tanggal", "Kode Akun", "Nama Akun", "Keterangan", "Debit", "Kredit", "Jurnal", "Ref")
	for i, e := range entries {
		setRow(f, sheet, i+2,
			e.Date.Format("2006-01-02"),
			e.AccountCode,
			e.AccountName,
			e.Description,
			utils.FormatRupiah(e.Debit),
			utils.FormatRupiah(e.Credit),
			e.JournalType,
			e.RefCode,
		)
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return path, nil
}

// ExportTrialBalance writes a two-column trial balance workbook.
func (s *ExcelService) ExportTrialBalance(tb *TrialBalance, title, filename string) (string, error) {
	path, err := s.prepare(filename)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Neraca Saldo"
	f.SetSheetName("Sheet1", sheet)

	setRow(f, sheet, 1, title)
	setRow(f, sheet, 2, "Kode Akun", "Nama Akun", "Debit", "Kredit")
	row := 3
	for _, line := range tb.Lines {
		setRow(f, sheet, row, line.AccountCode, line.AccountName,
			utils.FormatRupiah(line.Debit), utils.FormatRupiah(line.Credit))
		row++
	}
	setRow(f, sheet, row, "", "Total",
		utils.FormatRupiah(tb.TotalDebit), utils.FormatRupiah(tb.TotalCredit))

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return path, nil
}

// ExportIncomeStatement writes the income statement workbook.
func (s *ExcelService) ExportIncomeStatement(report *IncomeStatement, filename string) (string, error) {
	path, err := s.prepare(filename)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Laba Rugi"
	f.SetSheetName("Sheet1", sheet)

	setRow(f, sheet, 1, "Laporan Laba Rugi")
	row := 2
	setRow(f, sheet, row, "Pendapatan")
	row++
	for _, r := range report.Revenues {
		setRow(f, sheet, row, r.AccountCode, r.AccountName, utils.FormatRupiah(r.Amount))
		row++
	}
	setRow(f, sheet, row, "", "Total Pendapatan", utils.FormatRupiah(report.TotalRevenue))
	row += 2
	setRow(f, sheet, row, "Beban")
	row++
	for _, e := range report.Expenses {
		setRow(f, sheet, row, e.AccountCode, e.AccountName, utils.FormatRupiah(e.Amount))
		row++
	}
	setRow(f, sheet, row, "", "Total Beban", utils.FormatRupiah(report.TotalExpense))
	row += 2
	setRow(f, sheet, row, "", "Laba (Rugi) Bersih", utils.FormatRupiah(report.NetIncome))

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return path, nil
}

// ExportBalanceSheet writes the balance sheet workbook.
func (s *ExcelService) ExportBalanceSheet(report *BalanceSheet, filename string) (string, error) {
	path, err := s.prepare(filename)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Neraca"
	f.SetSheetName("Sheet1", sheet)

	setRow(f, sheet, 1, "Laporan Posisi Keuangan")
	row := 2
	writeSection := func(title string, lines []StatementAmount, totalLabel, total string) {
		setRow(f, sheet, row, title)
		row++
		for _, l := range lines {
			setRow(f, sheet, row, l.AccountCode, l.AccountName, utils.FormatRupiah(l.Amount))
			row++
		}
		setRow(f, sheet, row, "", totalLabel, total)
		row += 2
	}
	writeSection("Aset", report.Assets, "Total Aset", utils.FormatRupiah(report.TotalAssets))
	writeSection("Kewajiban", report.Liabilities, "Total Kewajiban", utils.FormatRupiah(report.TotalLiabilities))
	writeSection("Ekuitas", report.Equity, "Total Ekuitas", utils.FormatRupiah(report.TotalEquity))

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return path, nil
}
