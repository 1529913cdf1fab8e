package report

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	DateLayout        = "2006-01-02"
	DefaultThemeColor = "#70ad47"
)

// Employee is the identity snapshot denormalized onto each task at
// creation time.
type Employee struct {
	Name       string
	EmployeeID string
	TeamName   string
}

// Task is one logged work interval. startTime/endTime are wall-clock
// "HH:mm" strings; workingHours is always derived from them.
type Task struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	Day          string `json:"day"`
	ProjectName  string `json:"projectName"`
	ProjectType  string `json:"projectType"`
	AssignedBy   string `json:"assignedBy"`
	EmployeeName string `json:"employeeName"`
	EmployeeID   string `json:"employeeId"`
	TeamName     string `json:"teamName"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	WorkingHours string `json:"workingHours"`
	Remarks      string `json:"remarks"`
	IsRunning    bool   `json:"isRunning"`
}

// PlanningEntry is a free-text next-day row, independent of timed tasks.
type PlanningEntry struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

const DefaultPlanningLabel = "Next Working Day Task"

type TaskList []Task
type PlanningList []PlanningEntry

// Report is the per-date, per-user document: the unit of persistence.
// Task and planning sequences are exclusively owned by the report.
type Report struct {
	ID            string       `gorm:"primaryKey;size:36" json:"id"`
	UserID        string       `gorm:"index;size:36" json:"userId"`
	Date          string       `gorm:"size:10" json:"date"`
	Day           string       `gorm:"size:16" json:"day"`
	Tasks         TaskList     `gorm:"type:text" json:"tasks"`
	PlanningTasks PlanningList `gorm:"type:text" json:"planningTasks"`
	PreText       string       `gorm:"type:text" json:"preText"`
	PostText      string       `gorm:"type:text" json:"postText"`
	ThemeColor    string       `gorm:"size:32" json:"themeColor"`
	IsPlainTheme  bool         `json:"isPlainTheme"`
	CreatedAt     int64        `gorm:"autoCreateTime:false" json:"createdAt"` // epoch milliseconds, immutable after creation
}

func (Report) TableName() string { return "reports" }

// New builds an empty report for the given calendar date with the
// default presentation text and theme.
func New(userID, date string, who Employee) *Report {
	return &Report{
		UserID:        userID,
		Date:          date,
		Day:           DayName(date),
		Tasks:         TaskList{},
		PlanningTasks: PlanningList{},
		PreText:       fmt.Sprintf("Hi Team,\n\nPlease find my work report for %s:", date),
		PostText:      fmt.Sprintf("Best Regards,\n%s\nEmp ID: %s", who.Name, who.EmployeeID),
		ThemeColor:    DefaultThemeColor,
		CreatedAt:     time.Now().UnixMilli(),
	}
}

// DayName derives the weekday display name from a "YYYY-MM-DD" date.
func DayName(date string) string {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return ""
	}
	return d.Weekday().String()
}

func NewID() string { return uuid.NewString() }

// JSON-column storage for the owned sequences, matching the persisted
// aggregate shape field for field.

func (l TaskList) Value() (driver.Value, error) {
	if l == nil {
		l = TaskList{}
	}
	return json.Marshal(l)
}

func (l *TaskList) Scan(src any) error {
	return scanJSON(src, l)
}

func (l PlanningList) Value() (driver.Value, error) {
	if l == nil {
		l = PlanningList{}
	}
	return json.Marshal(l)
}

func (l *PlanningList) Scan(src any) error {
	return scanJSON(src, l)
}

func scanJSON(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
}
