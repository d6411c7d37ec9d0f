package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/recipedex/internal/db"
)

func isDBError(err error) bool {
	var de *db.Error
	return errors.As(err, &de)
}

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	err := s.Ping(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %T", err)
	}
}

func TestNewStore_RequiresAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error for empty addrs")
	}
}

// --- hash.go tests ---

func TestHSetWithTTL_Pipelined(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(),
			mock.Match("HSET", "sess", "recipe.state.page.key", "3"),
			mock.Match("EXPIRE", "sess", "60"),
		).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(1)),
			mock.Result(mock.RedisInt64(1)),
		})

	s := NewStoreForTest(c)
	err := s.HSetWithTTL(context.Background(), "sess", map[string]string{"recipe.state.page.key": "3"}, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHSetWithTTL_SubSecondRoundsUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(),
			mock.Match("HSET", "sess", "f", "v"),
			mock.Match("EXPIRE", "sess", "1"),
		).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(1)),
			mock.Result(mock.RedisInt64(1)),
		})

	s := NewStoreForTest(c)
	err := s.HSetWithTTL(context.Background(), "sess", map[string]string{"f": "v"}, 300*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExpireSeconds(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want int64
	}{
		{time.Millisecond, 1},
		{time.Second, 1},
		{1500 * time.Millisecond, 2},
		{time.Hour, 3600},
	}
	for _, tt := range tests {
		if got := expireSeconds(tt.ttl); got != tt.want {
			t.Errorf("expireSeconds(%v) = %d, want %d", tt.ttl, got, tt.want)
		}
	}
}

func TestHSetWithTTL_NoTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HSET", "sess", "f", "v")).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreForTest(c)
	if err := s.HSetWithTTL(context.Background(), "sess", map[string]string{"f": "v"}, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHSetWithTTL_ExpireError(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(1)),
			mock.ErrorResult(context.DeadlineExceeded),
		})

	s := NewStoreForTest(c)
	err := s.HSetWithTTL(context.Background(), "sess", map[string]string{"f": "v"}, time.Minute)
	var de *db.Error
	if !errors.As(err, &de) || de.Op != db.OpExpire {
		t.Fatalf("expected EXPIRE db.Error, got %v", err)
	}
}

func TestHSetWithTTL_Empty(t *testing.T) {
	s := NewStoreForTest(nil)
	if err := s.HSetWithTTL(context.Background(), "sess", nil, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHGetAll_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "sess")).
		Return(mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
			"recipe.state.query.key": mock.RedisString("chicken"),
			"recipe.state.page.key":  mock.RedisString("2"),
		})))

	s := NewStoreForTest(c)
	m, err := s.HGetAll(context.Background(), "sess")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["recipe.state.query.key"] != "chicken" || m["recipe.state.page.key"] != "2" {
		t.Errorf("unexpected map: %v", m)
	}
}

func TestHGetAll_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "sess")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if _, err := s.HGetAll(context.Background(), "sess"); !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestHDel(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HDEL", "sess", "recipe.state.query.selected_category")).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreForTest(c)
	if err := s.HDel(context.Background(), "sess", "recipe.state.query.selected_category"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHDel_NoFields(t *testing.T) {
	s := NewStoreForTest(nil)
	if err := s.HDel(context.Background(), "sess"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDel(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("DEL", "sess")).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreForTest(c)
	if err := s.Del(context.Background(), "sess"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExists(t *testing.T) {
	tests := []struct {
		name  string
		count int64
		want  bool
	}{
		{"present", 1, true},
		{"absent", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)

			c.EXPECT().
				Do(gomock.Any(), mock.Match("EXISTS", "sess")).
				Return(mock.Result(mock.RedisInt64(tc.count)))

			s := NewStoreForTest(c)
			got, err := s.Exists(context.Background(), "sess")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Exists = %v, want %v", got, tc.want)
			}
		})
	}
}
