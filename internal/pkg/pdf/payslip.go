// Package pdf renders released payslips as printable documents.
package pdf

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/jung-kurt/gofpdf"
)

// RenderPayslip writes p as an A4 PDF to w.
func RenderPayslip(w io.Writer, p payroll.Payslip) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip "+p.ID, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	name := p.EmployeeID
	if p.EmployeeName != nil {
		name = *p.EmployeeName
	}
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s", name))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s to %s", p.PeriodStart.Format("2006-01-02"), p.PeriodEnd.Format("2006-01-02")))
	pdf.Ln(6)
	if p.ReleasedDate != nil {
		pdf.Cell(0, 7, fmt.Sprintf("Released: %s", p.ReleasedDate.Format("2006-01-02 15:04 MST")))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	row := func(label string, amount int64) {
		pdf.CellFormat(120, 7, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, formatAmount(amount), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Earnings")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	row(fmt.Sprintf("Base salary (%d days x %s)", p.PresentDays, formatAmount(p.DailyRate)), p.BaseSalary)
	row("Commissions", p.TotalCommissions)
	row("Bonuses", p.TotalBonuses)
	row("Deductions", -p.TotalDeductions)

	pdf.SetFont("Helvetica", "B", 11)
	row("Net pay", p.NetPay)

	if len(p.CommissionLines) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Commission lines")
		pdf.Ln(8)

		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, "Completed", "B", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, "Service", "B", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, "Customer", "B", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, "Amount", "B", 1, "R", false, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		for _, l := range p.CommissionLines {
			pdf.CellFormat(40, 6, l.CompletedAt.Format("2006-01-02 15:04"), "", 0, "L", false, 0, "")
			pdf.CellFormat(60, 6, l.ServiceTitle, "", 0, "L", false, 0, "")
			pdf.CellFormat(45, 6, l.CustomerName, "", 0, "L", false, 0, "")
			pdf.CellFormat(25, 6, formatAmount(l.CommissionEarned), "", 1, "R", false, 0, "")
		}
	}

	if p.Notes != nil && *p.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, *p.Notes, "", "L", false)
	}

	return pdf.Output(w)
}

// formatAmount groups thousands: 1250000 -> "1,250,000".
func formatAmount(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	digits := strconv.FormatInt(v, 10)
	out := make([]byte, 0, len(digits)+len(digits)/3+1)
	if neg {
		out = append(out, '-')
	}
	for i := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i])
	}
	return string(out)
}
