package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MichaelAmon/was-project/internal/events"
	"github.com/MichaelAmon/was-project/internal/messaging/kafka"
)

//go:generate mockgen -source=ledger_service.go -destination=mock/ledger_service_mock.go -package=mock
type Service interface {
	// FindOpenRecord returns (nil, nil) when no row exists for the day.
	FindOpenRecord(ctx context.Context, phone string, day time.Time) (*AttendanceRecord, error)
	Insert(ctx context.Context, rec *AttendanceRecord) error
	Update(ctx context.Context, rec *AttendanceRecord) error
	ListByDate(ctx context.Context, day time.Time) ([]AttendanceResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
}

// NewService wires the ledger over postgres. outbox may be nil in tests;
// then mutations skip event emission.
func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository) Service {
	return &service{db: db, repo: repo, outbox: outbox}
}

func (s *service) FindOpenRecord(ctx context.Context, phone string, day time.Time) (*AttendanceRecord, error) {
	rec, err := s.repo.FindByPhoneAndDate(ctx, phone, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (s *service) Insert(ctx context.Context, rec *AttendanceRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if err := qtx.Create(ctx, rec); err != nil {
		return err
	}

	if err := s.enqueueEvent(ctx, tx, events.EventTypeClockedIn, rec, rec.TimeIn); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *service) Update(ctx context.Context, rec *AttendanceRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Update(ctx, rec); err != nil {
		return err
	}

	occurredAt := time.Now().UTC()
	if rec.TimeOut != nil {
		occurredAt = *rec.TimeOut
	}
	if err := s.enqueueEvent(ctx, tx, events.EventTypeClockedOut, rec, occurredAt); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *service) ListByDate(ctx context.Context, day time.Time) ([]AttendanceResponse, error) {
	rows, err := s.repo.FindAllByDate(ctx, day)
	if err != nil {
		return nil, err
	}

	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) enqueueEvent(ctx context.Context, tx *sql.Tx, eventType string, rec *AttendanceRecord, occurredAt time.Time) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.AttendanceEvent{
		EventType:  eventType,
		Phone:      rec.Phone,
		Name:       rec.FullName,
		Department: rec.Department,
		Office:     rec.Location,
		OccurredAt: occurredAt,
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "attendance_record",
		AggregateID:   rec.ID.String(),
		EventType:     eventType,
		Topic:         events.AttendanceTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func mapToResponse(r AttendanceRecord) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             r.ID.String(),
		Phone:          r.Phone,
		Name:           r.FullName,
		Department:     r.Department,
		AttendanceDate: r.AttendanceDate.Format("2006-01-02"),
		TimeIn:         r.TimeIn.Format(time.RFC3339),
		Location:       r.Location,
	}
	if r.TimeOut != nil {
		v := r.TimeOut.Format(time.RFC3339)
		resp.TimeOut = &v
	}
	return resp
}
