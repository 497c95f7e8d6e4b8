package roster

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=roster_repo.go -destination=mock/roster_repo_mock.go -package=mock
type Repository interface {
	FindByPhone(ctx context.Context, phone string) (*StaffMember, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByPhone(ctx context.Context, phone string) (*StaffMember, error) {
	var s StaffMember
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&s).Error
	return &s, err
}
