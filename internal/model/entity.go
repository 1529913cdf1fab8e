package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// User owns the profile plus the two preference sets the editor reads:
// default recipients and the saved theme colors.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Name         string    `json:"name"`
	EmployeeID   string    `json:"employeeId"`
	TeamName     string    `json:"teamName"`
	Email        string    `gorm:"uniqueIndex;size:191" json:"email"`
	PasswordHash string    `json:"-"`
	DefaultTo    string    `json:"defaultTo"`
	DefaultCc    string    `json:"defaultCc"`
	SavedColors  ColorList `gorm:"type:text" json:"savedColors"`
	Theme        string    `gorm:"size:8;default:light" json:"theme"`
}

func (User) TableName() string { return "users" }

// ColorList is an ordered set of color tokens stored as a JSON column.
// Insertion order is meaningful; duplicates are not kept.
type ColorList []string

func (l ColorList) Value() (driver.Value, error) {
	if l == nil {
		l = ColorList{}
	}
	return json.Marshal(l)
}

func (l *ColorList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, l)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
}

// Add appends a color unless it is already present.
func (l ColorList) Add(color string) ColorList {
	for _, c := range l {
		if c == color {
			return l
		}
	}
	return append(l, color)
}

// Remove drops a color, keeping the order of the rest.
func (l ColorList) Remove(color string) ColorList {
	out := make(ColorList, 0, len(l))
	for _, c := range l {
		if c != color {
			out = append(out, c)
		}
	}
	return out
}
