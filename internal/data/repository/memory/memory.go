// Package memory holds map-backed implementations of the repository
// interfaces. They keep the same contracts as the Postgres ones, including
// the unique constraints and the atomic bid accept, and are used by the
// service and HTTP tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/entity"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/repository"

	"github.com/google/uuid"
)

// Store is the shared state behind every memory repository. One mutex guards
// all tables so joins and the accept transaction see a consistent snapshot.
type Store struct {
	mu         sync.Mutex
	users      map[uuid.UUID]entity.User
	otps       map[uuid.UUID]entity.OTP
	tasks      map[uuid.UUID]entity.Task
	bids       map[uuid.UUID]entity.Bid
	milestones map[uuid.UUID]entity.Milestone
}

func NewStore() *Store {
	return &Store{
		users:      make(map[uuid.UUID]entity.User),
		otps:       make(map[uuid.UUID]entity.OTP),
		tasks:      make(map[uuid.UUID]entity.Task),
		bids:       make(map[uuid.UUID]entity.Bid),
		milestones: make(map[uuid.UUID]entity.Milestone),
	}
}

// NewRepository returns a repository set backed by a fresh Store.
func NewRepository() *repository.Repository {
	return NewStore().Repository()
}

func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		User:      &userRepo{s},
		OTP:       &otpRepo{s},
		Task:      &taskRepo{s},
		Bid:       &bidRepo{s},
		Milestone: &milestoneRepo{s},
	}
}

// ==================== users ====================

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if u, ok := r.s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.findBy(func(u entity.User) bool { return u.Email == email })
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.findBy(func(u entity.User) bool { return u.Username == username })
}

func (r *userRepo) findBy(match func(entity.User) bool) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.UserStatus) error {
	return r.update(id, func(u *entity.User) { u.Status = status })
}

func (r *userRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	return r.update(id, func(u *entity.User) { u.PasswordHash = passwordHash })
}

func (r *userRepo) UpdateProfile(_ context.Context, id uuid.UUID, fullName, bio string) error {
	return r.update(id, func(u *entity.User) {
		u.FullName = fullName
		u.Bio = bio
	})
}

func (r *userRepo) update(id uuid.UUID, apply func(*entity.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return fmt.Errorf("update user %s: %w", id, repository.ErrNotFound)
	}
	apply(&u)
	u.UpdatedAt = time.Now()
	r.s.users[id] = u
	return nil
}

// ==================== otp ====================

type otpRepo struct{ s *Store }

func (r *otpRepo) Replace(_ context.Context, otp *entity.OTP) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.otps[otp.UserID] = *otp
	return nil
}

func (r *otpRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.OTP, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if o, ok := r.s.otps[userID]; ok {
		return &o, nil
	}
	return nil, nil
}

func (r *otpRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.otps, userID)
	return nil
}

func (r *otpRepo) DeleteExpired(_ context.Context, userID uuid.UUID, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if o, ok := r.s.otps[userID]; ok && o.Expired(now) {
		delete(r.s.otps, userID)
	}
	return nil
}

func (r *otpRepo) Consume(_ context.Context, userID uuid.UUID, code string, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.otps[userID]
	if !ok || o.Code != code || o.Expired(now) {
		return false, nil
	}
	delete(r.s.otps, userID)
	return true, nil
}

// ==================== tasks ====================

type taskRepo struct{ s *Store }

func (r *taskRepo) Create(_ context.Context, task *entity.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[task.CreatedBy]; !ok {
		return fmt.Errorf("create task %q: owner %s does not exist", task.Title, task.CreatedBy)
	}
	r.s.tasks[task.ID] = *task
	return nil
}

func (r *taskRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if t, ok := r.s.tasks[id]; ok {
		return &t, nil
	}
	return nil, nil
}

func (r *taskRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Task, error) {
	return r.page(func(entity.Task) bool { return true }, limit, offset), nil
}

func (r *taskRepo) CountAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return int64(len(r.s.tasks)), nil
}

func (r *taskRepo) FindByOwner(_ context.Context, ownerID uuid.UUID, limit, offset int) ([]*entity.Task, error) {
	return r.page(func(t entity.Task) bool { return t.CreatedBy == ownerID }, limit, offset), nil
}

func (r *taskRepo) CountByOwner(_ context.Context, ownerID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, t := range r.s.tasks {
		if t.CreatedBy == ownerID {
			n++
		}
	}
	return n, nil
}

// page returns matching tasks newest first, like the SQL ORDER BY created_at DESC.
func (r *taskRepo) page(match func(entity.Task) bool, limit, offset int) []*entity.Task {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tasks := make([]*entity.Task, 0)
	for _, t := range r.s.tasks {
		if match(t) {
			t := t
			tasks = append(tasks, &t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})

	if offset >= len(tasks) {
		return make([]*entity.Task, 0)
	}
	end := len(tasks)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return tasks[offset:end]
}

func (r *taskRepo) Update(_ context.Context, id uuid.UUID, patch entity.TaskPatch, updatedAt time.Time) (*entity.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	task, ok := r.s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("update task %s: %w", id, repository.ErrNotFound)
	}
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Budget != nil {
		task.Budget = *patch.Budget
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	task.UpdatedAt = updatedAt
	r.s.tasks[id] = task
	return &task, nil
}

func (r *taskRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[id]; !ok {
		return fmt.Errorf("delete task %s: %w", id, repository.ErrNotFound)
	}
	delete(r.s.tasks, id)
	for bidID, b := range r.s.bids {
		if b.TaskID == id {
			delete(r.s.bids, bidID)
		}
	}
	for mID, m := range r.s.milestones {
		if m.TaskID == id {
			delete(r.s.milestones, mID)
		}
	}
	return nil
}

// ==================== bids ====================

type bidRepo struct{ s *Store }

func (r *bidRepo) Create(_ context.Context, bid *entity.Bid) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[bid.TaskID]; !ok {
		return fmt.Errorf("create bid: task %s does not exist", bid.TaskID)
	}
	for _, b := range r.s.bids {
		if b.TaskID == bid.TaskID && b.FreelancerID == bid.FreelancerID {
			return fmt.Errorf("create bid on task %s: %w", bid.TaskID, repository.ErrDuplicate)
		}
	}
	r.s.bids[bid.ID] = *bid
	return nil
}

func (r *bidRepo) FindByTaskAndFreelancer(_ context.Context, taskID, freelancerID uuid.UUID) (*entity.Bid, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, b := range r.s.bids {
		if b.TaskID == taskID && b.FreelancerID == freelancerID {
			return &b, nil
		}
	}
	return nil, nil
}

// detail must be called with the lock held.
func (r *bidRepo) detail(b entity.Bid) *entity.BidDetail {
	task := r.s.tasks[b.TaskID]
	return &entity.BidDetail{
		Bid:                b,
		Task:               task,
		OwnerUsername:      r.s.users[task.CreatedBy].Username,
		FreelancerUsername: r.s.users[b.FreelancerID].Username,
		FreelancerEmail:    r.s.users[b.FreelancerID].Email,
	}
}

func (r *bidRepo) FindDetail(_ context.Context, id uuid.UUID) (*entity.BidDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bids[id]
	if !ok {
		return nil, nil
	}
	return r.detail(b), nil
}

func (r *bidRepo) FindByTask(_ context.Context, taskID uuid.UUID) ([]*entity.BidDetail, error) {
	bids := r.list(func(b entity.Bid) bool { return b.TaskID == taskID })
	sort.Slice(bids, func(i, j int) bool { return bids[i].CreatedAt.Before(bids[j].CreatedAt) })
	return bids, nil
}

func (r *bidRepo) FindByFreelancer(_ context.Context, freelancerID uuid.UUID) ([]*entity.BidDetail, error) {
	bids := r.list(func(b entity.Bid) bool { return b.FreelancerID == freelancerID })
	sort.Slice(bids, func(i, j int) bool { return bids[i].CreatedAt.After(bids[j].CreatedAt) })
	return bids, nil
}

func (r *bidRepo) list(match func(entity.Bid) bool) []*entity.BidDetail {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	bids := make([]*entity.BidDetail, 0)
	for _, b := range r.s.bids {
		if match(b) {
			bids = append(bids, r.detail(b))
		}
	}
	return bids
}

func (r *bidRepo) Accept(_ context.Context, taskID, bidID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[taskID]; !ok {
		return fmt.Errorf("accept bid %s: task %s: %w", bidID, taskID, repository.ErrNotFound)
	}
	target, ok := r.s.bids[bidID]
	if !ok || target.TaskID != taskID {
		return fmt.Errorf("accept bid %s: %w", bidID, repository.ErrNotFound)
	}

	switch target.Status {
	case entity.BidStatusAccepted:
		return nil
	case entity.BidStatusRejected:
		return fmt.Errorf("accept bid %s: %w", bidID, repository.ErrBidResolved)
	}
	for _, b := range r.s.bids {
		if b.TaskID == taskID && b.Status == entity.BidStatusAccepted {
			return fmt.Errorf("accept bid %s: %w", bidID, repository.ErrBidResolved)
		}
	}

	for id, b := range r.s.bids {
		if b.TaskID != taskID {
			continue
		}
		switch {
		case id == bidID:
			b.Status = entity.BidStatusAccepted
		case b.Status == entity.BidStatusPending:
			b.Status = entity.BidStatusRejected
		}
		r.s.bids[id] = b
	}
	return nil
}

// ==================== milestones ====================

type milestoneRepo struct{ s *Store }

func (r *milestoneRepo) Create(_ context.Context, milestone *entity.Milestone) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[milestone.TaskID]; !ok {
		return fmt.Errorf("create milestone: task %s does not exist", milestone.TaskID)
	}
	r.s.milestones[milestone.ID] = *milestone
	return nil
}

func (r *milestoneRepo) FindWithOwner(_ context.Context, id uuid.UUID) (*entity.MilestoneDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.milestones[id]
	if !ok {
		return nil, nil
	}
	return &entity.MilestoneDetail{
		Milestone:   m,
		TaskOwnerID: r.s.tasks[m.TaskID].CreatedBy,
	}, nil
}

func (r *milestoneRepo) FindByTask(_ context.Context, taskID uuid.UUID) ([]*entity.Milestone, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	milestones := make([]*entity.Milestone, 0)
	for _, m := range r.s.milestones {
		if m.TaskID == taskID {
			m := m
			milestones = append(milestones, &m)
		}
	}
	sort.Slice(milestones, func(i, j int) bool {
		return milestones[i].CreatedAt.Before(milestones[j].CreatedAt)
	})
	return milestones, nil
}

func (r *milestoneRepo) Update(_ context.Context, milestone *entity.Milestone) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.milestones[milestone.ID]
	if !ok {
		return fmt.Errorf("update milestone %s: %w", milestone.ID, repository.ErrNotFound)
	}
	current.Title = milestone.Title
	current.Status = milestone.Status
	r.s.milestones[milestone.ID] = current
	return nil
}
