package export

import (
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"asistedocente/internal/model"
	"asistedocente/internal/report"
)

const dateLayout = "2006-01-02"

func statusRGB(s model.Status) (int, int, int) {
	switch s {
	case model.StatusPresent:
		return 76, 175, 80
	case model.StatusAbsent:
		return 244, 67, 54
	case model.StatusLate:
		return 255, 152, 0
	case model.StatusExcused:
		return 33, 150, 243
	}
	return 0, 0, 0
}

func newPDF(title string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Generated %s", time.Now().Format("2006-01-02 15:04")),
			"", 0, "C", false, 0, "")
	})
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 12, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)
	return pdf
}

func pdfInfoRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(40, 7, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
}

func pdfRecordTable(pdf *gofpdf.Fpdf, records []model.AttendanceRecord, nameOf func(int64) string) {
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(12, 8, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(70, 8, "Student", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 8, "Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 8, "Status", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for i, r := range records {
		cr, cg, cb := statusRGB(r.Status)
		pdf.CellFormat(12, 7, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(70, 7, nameOf(r.StudentID), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, r.Date.Format(dateLayout), "1", 0, "C", false, 0, "")
		pdf.SetTextColor(cr, cg, cb)
		pdf.CellFormat(35, 7, r.Status.Info().Label, "1", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
}

// writeGroupPDF renders a group report with its backing records.
func writeGroupPDF(path string, g model.Group, rep *report.GroupReport, records []model.AttendanceRecord, nameOf func(int64) string) error {
	pdf := newPDF("ATTENDANCE REPORT")
	pdfInfoRow(pdf, "Group:", g.Name)
	pdfInfoRow(pdf, "Subject:", g.Subject)
	pdfInfoRow(pdf, "Period:", rep.Start.Format(dateLayout)+" - "+rep.End.Format(dateLayout))
	pdfInfoRow(pdf, "Students:", fmt.Sprintf("%d", rep.TotalStudents))
	pdfInfoRow(pdf, "Days recorded:", fmt.Sprintf("%d", rep.DaysRecorded))
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Statistics", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	stat := func(label string, count int, pct float64) {
		pdf.CellFormat(60, 7, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, fmt.Sprintf("%d (%.1f%%)", count, pct), "", 1, "L", false, 0, "")
	}
	stat("Present", rep.Present, rep.PresentPct)
	stat("Absent", rep.Absent, rep.AbsentPct)
	stat("Late", rep.Late, rep.LatePct)
	stat("Excused", rep.Excused, rep.ExcusedPct)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(60, 7, "Overall attendance", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("%.1f%%", rep.OverallPct), "", 1, "L", false, 0, "")

	pdfRecordTable(pdf, records, nameOf)
	return pdf.OutputFileAndClose(path)
}

// writeStudentPDF renders one student's record list with their percentage.
func writeStudentPDF(path string, st model.Student, g model.Group, records []model.AttendanceRecord, start, end time.Time, pct float64) error {
	pdf := newPDF("ATTENDANCE REPORT")
	pdfInfoRow(pdf, "Student:", st.Name+" "+st.Surname)
	pdfInfoRow(pdf, "Code:", st.Code)
	pdfInfoRow(pdf, "Group:", g.Name)
	pdfInfoRow(pdf, "Subject:", g.Subject)
	pdfInfoRow(pdf, "Period:", start.Format(dateLayout)+" - "+end.Format(dateLayout))
	pdfInfoRow(pdf, "Attendance:", fmt.Sprintf("%.1f%%", pct))

	name := st.Name + " " + st.Surname
	pdfRecordTable(pdf, records, func(int64) string { return name })
	return pdf.OutputFileAndClose(path)
}
