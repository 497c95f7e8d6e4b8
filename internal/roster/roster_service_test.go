package roster

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeRepo struct {
	calls         int
	findByPhoneFn func(ctx context.Context, phone string) (*StaffMember, error)
}

func (f *fakeRepo) FindByPhone(ctx context.Context, phone string) (*StaffMember, error) {
	f.calls++
	return f.findByPhoneFn(ctx, phone)
}

func TestService_FindByPhone_NotOnRoster(t *testing.T) {
	repo := &fakeRepo{
		findByPhoneFn: func(ctx context.Context, phone string) (*StaffMember, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewService(repo, nil, zap.NewNop())

	member, err := svc.FindByPhone(context.Background(), "+233000000000")
	assert.NoError(t, err)
	assert.Nil(t, member)
}

func TestService_FindByPhone_CacheHitSkipsRepo(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	member := &StaffMember{Phone: "+233247877745", FullName: "Ama Mensah", AllowedOffices: "Main"}
	raw, _ := json.Marshal(member)
	mock.ExpectGet("roster:+233247877745").SetVal(string(raw))

	repo := &fakeRepo{
		findByPhoneFn: func(ctx context.Context, phone string) (*StaffMember, error) {
			t.Fatal("repo must not be hit on cache hit")
			return nil, nil
		},
	}
	svc := NewService(repo, rdb, zap.NewNop())

	got, err := svc.FindByPhone(context.Background(), "+233247877745")
	assert.NoError(t, err)
	assert.Equal(t, "Ama Mensah", got.FullName)
	assert.Equal(t, 0, repo.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_FindByPhone_CacheMissFillsCache(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	member := &StaffMember{Phone: "+233247877745", FullName: "Ama Mensah"}
	raw, _ := json.Marshal(member)

	mock.ExpectGet("roster:+233247877745").RedisNil()
	mock.ExpectSet("roster:+233247877745", raw, 5*time.Minute).SetVal("OK")

	repo := &fakeRepo{
		findByPhoneFn: func(ctx context.Context, phone string) (*StaffMember, error) {
			return member, nil
		},
	}
	svc := NewService(repo, rdb, zap.NewNop())

	got, err := svc.FindByPhone(context.Background(), "+233247877745")
	assert.NoError(t, err)
	assert.Equal(t, member.FullName, got.FullName)
	assert.Equal(t, 1, repo.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffMember_AllowedOfficeIDs(t *testing.T) {
	s := StaffMember{AllowedOffices: "Main, Nyankpala ,"}
	assert.Equal(t, []string{"Main", "Nyankpala"}, s.AllowedOfficeIDs())

	empty := StaffMember{AllowedOffices: "  "}
	assert.Empty(t, empty.AllowedOfficeIDs())
}
