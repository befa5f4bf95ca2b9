// Package memory is an in-process storage backend implementing the repository
// interfaces. Data lives for the lifetime of the process.
package memory

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/yakoovad/taskboard/internal/db"
	"github.com/yakoovad/taskboard/internal/repository"
)

type txKey struct{}

type data struct {
	users  map[string]repository.User
	teams  map[string]repository.Team
	boards map[string]repository.Board
	lists  map[string]repository.List
	tasks  map[string]repository.Task

	// insertion order per table
	boardOrder []string
	listOrder  []string
	taskOrder  []string
}

func (d *data) clone() *data {
	c := &data{
		users:      make(map[string]repository.User, len(d.users)),
		teams:      make(map[string]repository.Team, len(d.teams)),
		boards:     make(map[string]repository.Board, len(d.boards)),
		lists:      make(map[string]repository.List, len(d.lists)),
		tasks:      make(map[string]repository.Task, len(d.tasks)),
		boardOrder: append([]string(nil), d.boardOrder...),
		listOrder:  append([]string(nil), d.listOrder...),
		taskOrder:  append([]string(nil), d.taskOrder...),
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.teams {
		c.teams[k] = v
	}
	for k, v := range d.boards {
		c.boards[k] = v
	}
	for k, v := range d.lists {
		c.lists[k] = v
	}
	for k, v := range d.tasks {
		c.tasks[k] = v
	}
	return c
}

// Store guards all tables with one RWMutex. A transaction holds the write lock for
// its whole duration, so readers never observe a half-applied transaction.
type Store struct {
	mu sync.RWMutex
	d  *data
}

func NewStore() *Store {
	return &Store{d: &data{
		users:  map[string]repository.User{},
		teams:  map[string]repository.Team{},
		boards: map[string]repository.Board{},
		lists:  map[string]repository.List{},
		tasks:  map[string]repository.Task{},
	}}
}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(struct{})
	return ok
}

func (s *Store) read(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) write(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.d.clone()
	if err := fn(context.WithValue(ctx, txKey{}, struct{}{})); err != nil {
		s.d = snapshot
		return errors.Wrap(err, "transaction failed")
	}
	return nil
}

// Ping satisfies health checks; the store is always reachable.
func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) Transactor() db.Transactor {
	return s
}

func (s *Store) Users() repository.UserRepository {
	return &userRepository{s: s}
}

func (s *Store) Teams() repository.TeamRepository {
	return &teamRepository{s: s}
}

func (s *Store) Boards() repository.BoardRepository {
	return &boardRepository{s: s}
}

func (s *Store) Lists() repository.ListRepository {
	return &listRepository{s: s}
}

func (s *Store) Tasks() repository.TaskRepository {
	return &taskRepository{s: s}
}

func clonePtr(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
