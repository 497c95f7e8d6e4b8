package ledger

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttendanceRecord is one row per (phone, UTC calendar day). TimeOut stays
// nil until a successful clock-out closes the day.
type AttendanceRecord struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Phone          string         `gorm:"column:phone;type:varchar(20);not null;index:idx_attendance_phone_date,unique"`
	AttendanceDate time.Time      `gorm:"column:attendance_date;type:date;not null;index:idx_attendance_phone_date,unique"`
	FullName       string         `gorm:"column:full_name;type:varchar(120);not null"`
	Department     string         `gorm:"column:department;type:varchar(80)"`
	TimeIn         time.Time      `gorm:"column:time_in;type:timestamptz;not null"`
	TimeOut        *time.Time     `gorm:"column:time_out;type:timestamptz"`
	Location       string         `gorm:"column:location;type:varchar(80);not null"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}
