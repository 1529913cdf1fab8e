package report

import "time"

// Seed carries optional field values for a new task; zero values fall
// back to the defaults.
type Seed struct {
	ProjectName string `json:"projectName"`
	ProjectType string `json:"projectType"`
	AssignedBy  string `json:"assignedBy"`
	Remarks     string `json:"remarks"`
}

// StartTask stops every running task in place (its end time becomes the
// new task's start time) and appends a fresh running task. At most one
// task is running afterwards.
func (r *Report) StartTask(seed Seed, who Employee, now time.Time) *Task {
	clock := now.Format(clockLayout)
	for i := range r.Tasks {
		if r.Tasks[i].IsRunning {
			r.Tasks[i].IsRunning = false
			r.Tasks[i].EndTime = clock
			r.Tasks[i].WorkingHours = WorkingHours(r.Tasks[i].StartTime, clock)
		}
	}

	t := Task{
		ID:           NewID(),
		Date:         r.Date,
		Day:          r.Day,
		ProjectName:  orDefault(seed.ProjectName, "New Project"),
		ProjectType:  orDefault(seed.ProjectType, "General"),
		AssignedBy:   orDefault(seed.AssignedBy, "Self"),
		EmployeeName: who.Name,
		EmployeeID:   who.EmployeeID,
		TeamName:     who.TeamName,
		StartTime:    clock,
		EndTime:      "",
		WorkingHours: "0.00",
		Remarks:      seed.Remarks,
		IsRunning:    true,
	}
	r.Tasks = append(r.Tasks, t)
	return &r.Tasks[len(r.Tasks)-1]
}

// StopTask closes the task with the given id. Stopping a task that is
// not running (or missing) is a no-op.
func (r *Report) StopTask(id string, now time.Time) bool {
	clock := now.Format(clockLayout)
	for i := range r.Tasks {
		if r.Tasks[i].ID == id && r.Tasks[i].IsRunning {
			r.Tasks[i].IsRunning = false
			r.Tasks[i].EndTime = clock
			r.Tasks[i].WorkingHours = WorkingHours(r.Tasks[i].StartTime, clock)
			return true
		}
	}
	return false
}

// EditTaskField sets one named field on the matching task. Changing a
// start or end time recomputes workingHours; workingHours itself is
// derived and cannot be edited. Unknown ids and fields are no-ops.
func (r *Report) EditTaskField(id, field, value string) bool {
	for i := range r.Tasks {
		if r.Tasks[i].ID != id {
			continue
		}
		t := &r.Tasks[i]
		switch field {
		case "date":
			t.Date = value
		case "day":
			t.Day = value
		case "projectName":
			t.ProjectName = value
		case "projectType":
			t.ProjectType = value
		case "assignedBy":
			t.AssignedBy = value
		case "employeeName":
			t.EmployeeName = value
		case "employeeId":
			t.EmployeeID = value
		case "teamName":
			t.TeamName = value
		case "remarks":
			t.Remarks = value
		case "startTime":
			t.StartTime = value
		case "endTime":
			t.EndTime = value
		default:
			return false
		}
		if field == "startTime" || field == "endTime" {
			t.WorkingHours = WorkingHours(t.StartTime, t.EndTime)
		}
		return true
	}
	return false
}

// RemoveTask deletes the record. It never auto-starts a replacement.
func (r *Report) RemoveTask(id string) {
	for i := range r.Tasks {
		if r.Tasks[i].ID == id {
			r.Tasks = append(r.Tasks[:i], r.Tasks[i+1:]...)
			return
		}
	}
}

// ImportTask copies the display fields of a historical task into this
// report under a fresh id. Imported tasks get the target report's date,
// placeholder 09:00 times, and never arrive running.
func (r *Report) ImportTask(src Task) *Task {
	t := src
	t.ID = NewID()
	t.Date = r.Date
	t.Day = r.Day
	t.IsRunning = false
	t.StartTime = "09:00"
	t.EndTime = "09:00"
	t.WorkingHours = "0.00"
	r.Tasks = append(r.Tasks, t)
	return &r.Tasks[len(r.Tasks)-1]
}

// RunningTask returns the currently running task, if any.
func (r *Report) RunningTask() *Task {
	for i := range r.Tasks {
		if r.Tasks[i].IsRunning {
			return &r.Tasks[i]
		}
	}
	return nil
}

// FindTask returns the task with the given id, or nil.
func (r *Report) FindTask(id string) *Task {
	for i := range r.Tasks {
		if r.Tasks[i].ID == id {
			return &r.Tasks[i]
		}
	}
	return nil
}

// AddPlanning appends a planning row with the default label.
func (r *Report) AddPlanning() *PlanningEntry {
	r.PlanningTasks = append(r.PlanningTasks, PlanningEntry{
		ID:    NewID(),
		Label: DefaultPlanningLabel,
	})
	return &r.PlanningTasks[len(r.PlanningTasks)-1]
}

// EditPlanning updates one field of a planning row in place.
func (r *Report) EditPlanning(id, field, value string) bool {
	for i := range r.PlanningTasks {
		if r.PlanningTasks[i].ID != id {
			continue
		}
		switch field {
		case "label":
			r.PlanningTasks[i].Label = value
		case "description":
			r.PlanningTasks[i].Description = value
		default:
			return false
		}
		return true
	}
	return false
}

// RemovePlanning deletes a planning row.
func (r *Report) RemovePlanning(id string) {
	for i := range r.PlanningTasks {
		if r.PlanningTasks[i].ID == id {
			r.PlanningTasks = append(r.PlanningTasks[:i], r.PlanningTasks[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy safe to hand to another goroutine.
func (r *Report) Clone() *Report {
	cp := *r
	cp.Tasks = append(TaskList{}, r.Tasks...)
	cp.PlanningTasks = append(PlanningList{}, r.PlanningTasks...)
	return &cp
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
