// Package session keeps per-user conversation state between chat updates.
package session

import (
	"context"
	"sync"
)

type State string

const (
	Idle                State = "idle"
	AwaitingCompanyName State = "awaiting_company_name"
	EmployeeName        State = "employee_name"
	EmployeeWallet      State = "employee_wallet"
	EmployeeSalary      State = "employee_salary"
	EmployeeCurrency    State = "employee_currency"
	AwaitPIN            State = "await_pin"
	AwaitNewPIN         State = "await_new_pin"
	AwaitPayPIN         State = "await_pay_pin"
)

// Draft collects an employee across several chat turns.
type Draft struct {
	Name   string `json:"name,omitempty"`
	Wallet string `json:"wallet,omitempty"`
	Salary string `json:"salary,omitempty"`
}

// Complete reports whether every field needed to persist the employee is set.
func (d Draft) Complete() bool {
	return d.Name != "" && d.Wallet != "" && d.Salary != ""
}

type Session struct {
	State       State  `json:"state"`
	Draft       Draft  `json:"draft"`
	CompanyID   int64  `json:"company_id,omitempty"`
	PinHash     string `json:"pin_hash,omitempty"`
	PinVerified bool   `json:"pin_verified,omitempty"`
	PinAttempts int    `json:"pin_attempts,omitempty"`
}

func New() *Session {
	return &Session{State: Idle}
}

// Reset returns the session to idle and drops any draft. The company id
// and PIN hash survive.
func (s *Session) Reset() {
	s.State = Idle
	s.Draft = Draft{}
	s.PinAttempts = 0
}

// InFlow reports whether a multi-turn flow is in progress.
func (s *Session) InFlow() bool {
	return s.State != "" && s.State != Idle
}

// Store loads, mutates and saves sessions. With holds a per-user lock for
// the whole call, so updates from one user never interleave. The session is
// saved only when fn returns nil.
type Store interface {
	With(ctx context.Context, userID int64, fn func(*Session) error) error
}

// keyedMutex hands out one mutex per key and forgets it once unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[int64]*keyedEntry)}
}

func (k *keyedMutex) lock(key int64) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &keyedEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
