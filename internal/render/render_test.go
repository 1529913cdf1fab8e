package render

import (
	"strings"
	"testing"

	"report-desk/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *report.Report {
	r := report.New("user-1", "2026-03-02", report.Employee{Name: "Alice", EmployeeID: "E-101", TeamName: "Platform"})
	r.Tasks = report.TaskList{
		{
			ID: "t1", Date: "2026-03-02", Day: "Monday",
			ProjectName: "API Gateway", ProjectType: "Feature", AssignedBy: "PM",
			EmployeeName: "Alice", EmployeeID: "E-101", TeamName: "Platform",
			StartTime: "09:00", EndTime: "12:30", WorkingHours: "3.50",
			Remarks: "rate limiting",
		},
		{
			ID: "t2", Date: "2026-03-02", Day: "Monday",
			ProjectName: "Support", ProjectType: "General", AssignedBy: "Self",
			EmployeeName: "Alice", EmployeeID: "E-101", TeamName: "Platform",
			StartTime: "13:00", EndTime: "", WorkingHours: "0.00",
			IsRunning: true,
		},
	}
	r.PlanningTasks = report.PlanningList{
		{ID: "p1", Label: report.DefaultPlanningLabel, Description: "deploy v2\nwrite changelog"},
	}
	return r
}

func TestDocumentDeterministic(t *testing.T) {
	r := sampleReport()
	assert.Equal(t, Document(r), Document(r))
}

func TestDocumentStructure(t *testing.T) {
	out := Document(sampleReport())

	for _, h := range []string{
		"Date", "Day", "Project Name", "Project Type", "Assigned by",
		"Employee Name", "Employee ID", "Team Name", "Start Time",
		"End Time", "Hours", "Remarks",
	} {
		assert.Contains(t, out, ">"+h+"</th>")
	}

	// pre/post text with newlines turned into breaks
	assert.Contains(t, out, "Hi Team,<br/><br/>Please find my work report for 2026-03-02:")
	assert.Contains(t, out, "Best Regards,<br/>Alice<br/>Emp ID: E-101")

	// task rows in aggregate order
	first := strings.Index(out, "API Gateway")
	second := strings.Index(out, "Support")
	require.Greater(t, first, 0)
	require.Greater(t, second, first)

	// planning row after all task rows, merged cells
	planning := strings.Index(out, report.DefaultPlanningLabel)
	require.Greater(t, planning, second)
	assert.Contains(t, out, `colspan="2"`)
	assert.Contains(t, out, `colspan="10"`)
	assert.Contains(t, out, "deploy v2<br/>write changelog")

	// hours column emphasized and centered
	assert.Contains(t, out, `text-align: center; font-weight: 900; color: #4f46e5;">3.50`)

	// empty remarks render as a dash
	assert.Contains(t, out, ">-</td>")
}

func TestDocumentEscapesUserText(t *testing.T) {
	r := sampleReport()
	r.Tasks[0].ProjectName = `<script>alert("x")</script>`
	r.PreText = "a < b & c"
	out := Document(r)

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "a &lt; b &amp; c")
}

func TestThemeResolution(t *testing.T) {
	r := sampleReport()
	r.ThemeColor = "#4472c4"

	th := ResolveTheme(r)
	assert.Equal(t, "#4472c4", th.HeadBg)
	assert.Equal(t, "white", th.HeadText)
	assert.Equal(t, "#e2e8f0", th.Border)

	r.IsPlainTheme = true
	plain := ResolveTheme(r)
	assert.Equal(t, "white", plain.HeadBg)
	assert.Equal(t, "black", plain.HeadText)
	assert.Equal(t, "#000000", plain.Border)

	// a plain document never uses the theme color
	assert.NotContains(t, Document(r), "#4472c4")
}

func TestThemeColorFallback(t *testing.T) {
	r := sampleReport()
	r.ThemeColor = ""
	th := ResolveTheme(r)
	assert.Equal(t, report.DefaultThemeColor, th.HeadBg)
}
