package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  NewRedisStore(client, time.Hour),
	}
}

func TestStore_NewSessionIsIdle(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			err := store.With(context.Background(), 1, func(s *Session) error {
				if s.State != Idle {
					t.Errorf("expected idle, got %s", s.State)
				}
				return nil
			})
			if err != nil {
				t.Fatalf("With returned error: %v", err)
			}
		})
	}
}

func TestStore_PersistsMutations(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_ = store.With(ctx, 7, func(s *Session) error {
				s.State = EmployeeWallet
				s.Draft.Name = "Alice"
				s.CompanyID = 3
				return nil
			})

			_ = store.With(ctx, 7, func(s *Session) error {
				if s.State != EmployeeWallet || s.Draft.Name != "Alice" || s.CompanyID != 3 {
					t.Errorf("mutations not persisted: %+v", s)
				}
				return nil
			})

			_ = store.With(ctx, 8, func(s *Session) error {
				if s.State != Idle || s.Draft.Name != "" {
					t.Errorf("sessions leaked across users: %+v", s)
				}
				return nil
			})
		})
	}
}

func TestStore_ErrorDiscardsMutations(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			boom := errors.New("boom")
			err := store.With(ctx, 1, func(s *Session) error {
				s.State = AwaitPIN
				return boom
			})
			if !errors.Is(err, boom) {
				t.Fatalf("expected fn error, got %v", err)
			}
			_ = store.With(ctx, 1, func(s *Session) error {
				if s.State != Idle {
					t.Errorf("expected idle after failed update, got %s", s.State)
				}
				return nil
			})
		})
	}
}

func TestStore_SerializesSameUser(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_ = store.With(ctx, 99, func(s *Session) error {
						s.PinAttempts++
						return nil
					})
				}()
			}
			wg.Wait()

			_ = store.With(ctx, 99, func(s *Session) error {
				if s.PinAttempts != 20 {
					t.Errorf("expected 20 increments, got %d", s.PinAttempts)
				}
				return nil
			})
		})
	}
}

func TestSession_Reset(t *testing.T) {
	s := &Session{
		State:       EmployeeSalary,
		Draft:       Draft{Name: "Bob", Wallet: "0x1", Salary: "10"},
		CompanyID:   5,
		PinHash:     "hash",
		PinAttempts: 2,
	}
	s.Reset()

	if s.State != Idle || s.Draft != (Draft{}) || s.PinAttempts != 0 {
		t.Fatalf("reset left flow state: %+v", s)
	}
	if s.CompanyID != 5 || s.PinHash != "hash" {
		t.Fatalf("reset dropped durable fields: %+v", s)
	}
	if s.InFlow() {
		t.Fatal("idle session should not be in a flow")
	}
}

func TestRedisStore_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore(client, 30*time.Minute)
	_ = store.With(context.Background(), 4, func(s *Session) error {
		s.State = EmployeeName
		return nil
	})

	if ttl := mr.TTL(sessionKey(4)); ttl != 30*time.Minute {
		t.Fatalf("expected ttl 30m, got %v", ttl)
	}

	mr.FastForward(31 * time.Minute)
	_ = store.With(context.Background(), 4, func(s *Session) error {
		if s.State != Idle {
			t.Errorf("expected expired session to restart idle, got %s", s.State)
		}
		return nil
	})
}

func TestRedisStore_CorruptEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	if err := mr.Set(sessionKey(5), "{not json"); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	store := NewRedisStore(client, time.Hour)
	err := store.With(context.Background(), 5, func(s *Session) error {
		if s.State != Idle {
			t.Errorf("expected idle, got %s", s.State)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("With returned error: %v", err)
	}
}
