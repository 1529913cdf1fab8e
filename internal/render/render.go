// Package render serializes a report into the themed HTML document used
// for both the live preview and the clipboard payload. The output is
// deliberately inline-styled so it pastes cleanly into a mail body.
package render

import (
	"fmt"
	"html"
	"strings"

	"report-desk/internal/report"
)

// Theme holds the resolved colors for one rendering pass.
type Theme struct {
	HeadBg   string
	HeadText string
	RowBg    string
	LabelBg  string
	Border   string
}

// ResolveTheme maps the report's theme settings onto concrete colors.
// A plain theme ignores themeColor entirely and renders black on white.
func ResolveTheme(r *report.Report) Theme {
	if r.IsPlainTheme {
		return Theme{
			HeadBg:   "white",
			HeadText: "black",
			RowBg:    "white",
			LabelBg:  "white",
			Border:   "#000000",
		}
	}
	color := r.ThemeColor
	if color == "" {
		color = report.DefaultThemeColor
	}
	return Theme{
		HeadBg:   color,
		HeadText: "white",
		RowBg:    "#f8fafc",
		LabelBg:  "#f1f5f9",
		Border:   "#e2e8f0",
	}
}

// ColorSuggestion is one named entry of the built-in theme palette.
type ColorSuggestion struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// DefaultColorSuggestions is the built-in palette offered by the theme
// picker, ahead of the user's saved colors.
var DefaultColorSuggestions = []ColorSuggestion{
	{"Plain", "white"},
	{"Green", "#70ad47"},
	{"Blue", "#4472c4"},
	{"Orange", "#ed7d31"},
	{"Red", "#c00000"},
}

var columns = []struct {
	title  string
	center bool
}{
	{"Date", false},
	{"Day", false},
	{"Project Name", false},
	{"Project Type", false},
	{"Assigned by", false},
	{"Employee Name", false},
	{"Employee ID", false},
	{"Team Name", false},
	{"Start Time", true},
	{"End Time", true},
	{"Hours", true},
	{"Remarks", false},
}

// Document renders the full report. The same aggregate always yields
// byte-identical output.
func Document(r *report.Report) string {
	th := ResolveTheme(r)
	var b strings.Builder

	b.WriteString("<html><body>\n")
	b.WriteString(`<div style="font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; color: #1e293b; line-height: 1.6; font-size: 16px;">` + "\n")
	fmt.Fprintf(&b, `<p style="margin: 0 0 20px 0;">%s</p>`+"\n", multiline(r.PreText))

	fmt.Fprintf(&b, `<table style="border-collapse: collapse; margin: 24px 0; font-size: 16px; border: 1px solid %s; width: 100%%;">`+"\n", th.Border)
	b.WriteString("<thead>\n")
	fmt.Fprintf(&b, `<tr style="background-color: %s; color: %s;">`+"\n", th.HeadBg, th.HeadText)
	for _, col := range columns {
		align := "left"
		if col.center {
			align = "center"
		}
		fmt.Fprintf(&b, `<th style="border: 1px solid %s; padding: 12px; text-align: %s; white-space: nowrap; font-weight: bold;">%s</th>`+"\n", th.Border, align, col.title)
	}
	b.WriteString("</tr>\n</thead>\n<tbody>\n")

	for _, t := range r.Tasks {
		writeTaskRow(&b, th, t)
	}
	for _, p := range r.PlanningTasks {
		writePlanningRow(&b, th, p)
	}

	b.WriteString("</tbody>\n</table>\n")
	fmt.Fprintf(&b, `<p style="margin: 20px 0 0 0;">%s</p>`+"\n", multiline(r.PostText))
	b.WriteString("</div>\n</body></html>\n")
	return b.String()
}

func writeTaskRow(b *strings.Builder, th Theme, t report.Task) {
	cell := func(content, extra string) {
		fmt.Fprintf(b, `<td style="border: 1px solid %s; padding: 12px; white-space: nowrap; font-size: 16px;%s">%s</td>`+"\n", th.Border, extra, content)
	}
	remarks := t.Remarks
	if remarks == "" {
		remarks = "-"
	}

	fmt.Fprintf(b, `<tr style="background-color: %s;">`+"\n", th.RowBg)
	cell(html.EscapeString(t.Date), "")
	cell(html.EscapeString(t.Day), "")
	cell(html.EscapeString(t.ProjectName), " font-weight: bold;")
	cell(html.EscapeString(t.ProjectType), "")
	cell(html.EscapeString(t.AssignedBy), "")
	cell(html.EscapeString(t.EmployeeName), "")
	cell(html.EscapeString(t.EmployeeID), "")
	cell(html.EscapeString(t.TeamName), "")
	cell(html.EscapeString(t.StartTime), " text-align: center;")
	cell(html.EscapeString(t.EndTime), " text-align: center;")
	cell(html.EscapeString(t.WorkingHours), " text-align: center; font-weight: 900; color: #4f46e5;")
	cell(html.EscapeString(remarks), "")
	b.WriteString("</tr>\n")
}

// Planning rows span the full table: a narrow merged label cell plus a
// description cell covering the remaining columns.
func writePlanningRow(b *strings.Builder, th Theme, p report.PlanningEntry) {
	b.WriteString("<tr>\n")
	fmt.Fprintf(b, `<td colspan="2" style="border: 1px solid %s; padding: 12px; font-weight: bold; background-color: %s; width: 1px; white-space: nowrap; font-size: 16px;">%s</td>`+"\n",
		th.Border, th.LabelBg, html.EscapeString(p.Label))
	fmt.Fprintf(b, `<td colspan="10" style="border: 1px solid %s; padding: 12px; line-height: 1.5; background-color: %s; font-size: 16px;">%s</td>`+"\n",
		th.Border, th.RowBg, multiline(p.Description))
	b.WriteString("</tr>\n")
}

// multiline escapes user text and turns newlines into line breaks.
func multiline(s string) string {
	escaped := html.EscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return strings.ReplaceAll(escaped, "\n", "<br/>")
}
