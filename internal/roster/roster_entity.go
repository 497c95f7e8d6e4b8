package roster

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StaffMember is the phone-number allowlist. Rows are managed externally
// (HR imports); this service only reads them.
type StaffMember struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Phone          string         `gorm:"column:phone;type:varchar(20);not null;uniqueIndex" json:"phone"`
	FullName       string         `gorm:"column:full_name;type:varchar(120);not null" json:"full_name"`
	Department     string         `gorm:"column:department;type:varchar(80)" json:"department"`
	AllowedOffices string         `gorm:"column:allowed_offices;type:text" json:"allowed_offices"`
	CreatedAt      time.Time      `gorm:"column:created_at" json:"-"`
	UpdatedAt      time.Time      `gorm:"column:updated_at" json:"-"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (StaffMember) TableName() string {
	return "staff_members"
}

// AllowedOfficeIDs splits the comma-separated allow-list column. An empty
// column yields an empty slice, which permits no office.
func (s StaffMember) AllowedOfficeIDs() []string {
	if strings.TrimSpace(s.AllowedOffices) == "" {
		return nil
	}

	parts := strings.Split(s.AllowedOffices, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if id := strings.TrimSpace(p); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
