package ledger

type ListQuery struct {
	Date     string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=10" binding:"omitempty,min=1,max=100"`
}

type AttendanceResponse struct {
	ID             string  `json:"id"`
	Phone          string  `json:"phone"`
	Name           string  `json:"name"`
	Department     string  `json:"department,omitempty"`
	AttendanceDate string  `json:"attendance_date"`
	TimeIn         string  `json:"time_in"`
	TimeOut        *string `json:"time_out,omitempty"`
	Location       string  `json:"location"`
}
