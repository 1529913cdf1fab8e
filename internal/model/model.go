package model

type SignupRequest struct {
	Name       string `json:"name" binding:"required"`
	EmployeeID string `json:"employeeId" binding:"required"`
	TeamName   string `json:"teamName" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UpdateUserRequest carries only the mutable preference fields; nil
// pointers mean "leave unchanged".
type UpdateUserRequest struct {
	Name        *string   `json:"name"`
	EmployeeID  *string   `json:"employeeId"`
	TeamName    *string   `json:"teamName"`
	DefaultTo   *string   `json:"defaultTo"`
	DefaultCc   *string   `json:"defaultCc"`
	SavedColors *[]string `json:"savedColors"`
	Theme       *string   `json:"theme"`
}

type CreateReportRequest struct {
	Date string `json:"date" binding:"required"`
}

type ParseTaskRequest struct {
	Text string `json:"text" binding:"required"`
}

type EditFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type ImportTaskRequest struct {
	FromReportID string `json:"fromReportId" binding:"required"`
	TaskID       string `json:"taskId" binding:"required"`
}

// EditorMetaRequest updates the free-text sections and theme settings
// of the open report; nil pointers mean "leave unchanged".
type EditorMetaRequest struct {
	PreText      *string `json:"preText"`
	PostText     *string `json:"postText"`
	ThemeColor   *string `json:"themeColor"`
	IsPlainTheme *bool   `json:"isPlainTheme"`
}

type DispatchResponse struct {
	State     string `json:"state"`
	Subject   string `json:"subject"`
	MailtoURL string `json:"mailtoUrl"`
	HTML      string `json:"html"`
	Copied    bool   `json:"copied"`
	// Notice reminds the user to paste the copied table into the
	// compose body by hand; the mail client cannot be filled directly.
	Notice string `json:"notice"`
}
