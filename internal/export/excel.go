package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"asistedocente/internal/model"
	"asistedocente/internal/report"
)

const sheet = "Attendance"

func newWorkbook(title string) (*excelize.File, int, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheet)

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, 0, err
	}
	f.SetCellValue(sheet, "A1", title)
	f.SetCellStyle(sheet, "A1", "A1", style)
	f.MergeCell(sheet, "A1", "D1")
	return f, 3, nil
}

func xlInfoRow(f *excelize.File, row int, label, value string) int {
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), label)
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), value)
	return row + 1
}

func xlRecordTable(f *excelize.File, row int, records []model.AttendanceRecord, nameOf func(int64) string) error {
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E0E0E0"}},
	})
	if err != nil {
		return err
	}
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "#")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Student")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), "Date")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), "Status")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), header)
	row++

	for i, r := range records {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), nameOf(r.StudentID))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Date.Format(dateLayout))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.Status.Info().Label)
		row++
	}
	f.SetColWidth(sheet, "B", "B", 32)
	f.SetColWidth(sheet, "C", "D", 14)
	return nil
}

// writeGroupExcel renders a group report workbook.
func writeGroupExcel(path string, g model.Group, rep *report.GroupReport, records []model.AttendanceRecord, nameOf func(int64) string) error {
	f, row, err := newWorkbook("ATTENDANCE REPORT")
	if err != nil {
		return err
	}
	defer f.Close()

	row = xlInfoRow(f, row, "Group:", g.Name)
	row = xlInfoRow(f, row, "Subject:", g.Subject)
	row = xlInfoRow(f, row, "Period:", rep.Start.Format(dateLayout)+" - "+rep.End.Format(dateLayout))
	row = xlInfoRow(f, row, "Students:", fmt.Sprintf("%d", rep.TotalStudents))
	row = xlInfoRow(f, row, "Days recorded:", fmt.Sprintf("%d", rep.DaysRecorded))
	row++
	row = xlInfoRow(f, row, "Present:", fmt.Sprintf("%d (%.1f%%)", rep.Present, rep.PresentPct))
	row = xlInfoRow(f, row, "Absent:", fmt.Sprintf("%d (%.1f%%)", rep.Absent, rep.AbsentPct))
	row = xlInfoRow(f, row, "Late:", fmt.Sprintf("%d (%.1f%%)", rep.Late, rep.LatePct))
	row = xlInfoRow(f, row, "Excused:", fmt.Sprintf("%d (%.1f%%)", rep.Excused, rep.ExcusedPct))
	row = xlInfoRow(f, row, "Overall attendance:", fmt.Sprintf("%.1f%%", rep.OverallPct))
	row++

	if err := xlRecordTable(f, row, records, nameOf); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// writeStudentExcel renders one student's record workbook.
func writeStudentExcel(path string, st model.Student, g model.Group, records []model.AttendanceRecord, start, end time.Time, pct float64) error {
	f, row, err := newWorkbook("ATTENDANCE REPORT")
	if err != nil {
		return err
	}
	defer f.Close()

	row = xlInfoRow(f, row, "Student:", st.Name+" "+st.Surname)
	row = xlInfoRow(f, row, "Code:", st.Code)
	row = xlInfoRow(f, row, "Group:", g.Name)
	row = xlInfoRow(f, row, "Subject:", g.Subject)
	row = xlInfoRow(f, row, "Period:", start.Format(dateLayout)+" - "+end.Format(dateLayout))
	row = xlInfoRow(f, row, "Attendance:", fmt.Sprintf("%.1f%%", pct))
	row++

	name := st.Name + " " + st.Surname
	if err := xlRecordTable(f, row, records, func(int64) string { return name }); err != nil {
		return err
	}
	return f.SaveAs(path)
}
