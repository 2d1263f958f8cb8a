// Package memrepo keeps every collection in process memory. It enforces the
// same uniqueness rules and counter updates as the Postgres store and is used
// for tests and local runs without a database.
package memrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"clubhub/internal/model"
	"clubhub/internal/repo"
)

type pairKey struct {
	eventID int64
	userID  int64
}

type Store struct {
	mu  sync.RWMutex
	seq int64

	events        map[int64]*model.Event
	registrations map[int64]*model.Registration
	regByPair     map[pairKey]int64
	submissions   map[int64]*model.Submission
	subByPair     map[pairKey]int64
	users         map[int64]*model.User
	userByEmail   map[string]int64
	documents     map[int64]*model.Document
	settings      *model.SiteSettings
	contacts      []model.ContactMessage

	now func() time.Time
}

var _ repo.Repository = (*Store)(nil) // interface compliance check

func New() *Store {
	return &Store{
		events:        make(map[int64]*model.Event),
		registrations: make(map[int64]*model.Registration),
		regByPair:     make(map[pairKey]int64),
		submissions:   make(map[int64]*model.Submission),
		subByPair:     make(map[pairKey]int64),
		users:         make(map[int64]*model.User),
		userByEmail:   make(map[string]int64),
		documents:     make(map[int64]*model.Document),
		now:           time.Now,
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Store) CreateEvent(_ context.Context, e *model.Event) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.nextID()
	e.CreatedAt = s.now()
	e.UpdatedAt = e.CreatedAt
	cp := *e
	s.events[e.ID] = &cp
	return e.ID, nil
}

func (s *Store) UpdateEvent(_ context.Context, e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.events[e.ID]
	if !ok {
		return repo.ErrEventNotFound
	}
	e.RegistrationCount = cur.RegistrationCount
	e.SubmissionCount = cur.SubmissionCount
	e.CreatedAt = cur.CreatedAt
	e.UpdatedAt = s.now()
	cp := *e
	s.events[e.ID] = &cp
	return nil
}

func (s *Store) DeleteEvent(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return repo.ErrEventNotFound
	}
	delete(s.events, id)
	for rid, reg := range s.registrations {
		if reg.EventID == id {
			delete(s.registrations, rid)
			delete(s.regByPair, pairKey{reg.EventID, reg.UserID})
		}
	}
	for sid, sub := range s.submissions {
		if sub.EventID == id {
			delete(s.submissions, sid)
			delete(s.subByPair, pairKey{sub.EventID, sub.UserID})
		}
	}
	return nil
}

func (s *Store) GetEventByID(_ context.Context, id int64) (*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok {
		return nil, repo.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *Store) GetAllEvents(_ context.Context, f model.EventFilter) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]model.Event, 0, len(s.events))
	for _, e := range s.events {
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.From != nil && e.Date.Before(*f.From) {
			continue
		}
		events = append(events, *e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Date.After(events[j].Date) })
	return events, nil
}

func (s *Store) bump(eventID int64, registrations, submissions int) {
	if e, ok := s.events[eventID]; ok {
		e.RegistrationCount = max(e.RegistrationCount+registrations, 0)
		e.SubmissionCount = max(e.SubmissionCount+submissions, 0)
		e.UpdatedAt = s.now()
	}
}

// insertRegistration expects s.mu to be held.
func (s *Store) insertRegistration(reg *model.Registration) error {
	if _, ok := s.events[reg.EventID]; !ok {
		return repo.ErrEventNotFound
	}
	key := pairKey{reg.EventID, reg.UserID}
	if _, ok := s.regByPair[key]; ok {
		return repo.ErrDuplicateRegistration
	}
	reg.ID = s.nextID()
	reg.CreatedAt = s.now()
	reg.UpdatedAt = reg.CreatedAt
	cp := *reg
	s.registrations[reg.ID] = &cp
	s.regByPair[key] = reg.ID
	s.bump(reg.EventID, 1, 0)
	return nil
}

func (s *Store) CreateRegistrationTx(_ context.Context, reg *model.Registration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.insertRegistration(reg); err != nil {
		return 0, err
	}
	return reg.ID, nil
}

func (s *Store) GetRegistrationByID(_ context.Context, id int64) (*model.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reg, ok := s.registrations[id]
	if !ok {
		return nil, repo.ErrRegistrationNotFound
	}
	cp := *reg
	return &cp, nil
}

func (s *Store) GetRegistration(ctx context.Context, eventID, userID int64) (*model.Registration, error) {
	s.mu.RLock()
	id, ok := s.regByPair[pairKey{eventID, userID}]
	s.mu.RUnlock()
	if !ok {
		return nil, repo.ErrRegistrationNotFound
	}
	return s.GetRegistrationByID(ctx, id)
}

func (s *Store) filterRegistrations(keep func(*model.Registration) bool) []model.Registration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	regs := make([]model.Registration, 0)
	for _, reg := range s.registrations {
		if keep(reg) {
			regs = append(regs, *reg)
		}
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].ID < regs[j].ID })
	return regs
}

func (s *Store) GetRegistrationsByEventID(_ context.Context, eventID int64) ([]model.Registration, error) {
	return s.filterRegistrations(func(r *model.Registration) bool { return r.EventID == eventID }), nil
}

func (s *Store) GetRegistrationsByUserID(_ context.Context, userID int64) ([]model.Registration, error) {
	return s.filterRegistrations(func(r *model.Registration) bool { return r.UserID == userID }), nil
}

func (s *Store) UpdateRegistrationTx(_ context.Context, id int64, patch model.RegistrationPatch) (*model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.registrations[id]
	if !ok {
		return nil, repo.ErrRegistrationNotFound
	}
	delta := patch.Apply(cur)
	cur.UpdatedAt = s.now()
	s.bump(cur.EventID, delta, 0)
	cp := *cur
	return &cp, nil
}

func (s *Store) CreateSubmissionTx(_ context.Context, sub *model.Submission, opts repo.SubmissionOptions) (*model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[sub.EventID]; !ok {
		return nil, repo.ErrEventNotFound
	}
	key := pairKey{sub.EventID, sub.UserID}
	regID, registered := s.regByPair[key]
	if opts.RequireRegistration && (!registered || !s.registrations[regID].Active()) {
		return nil, repo.ErrNotRegistered
	}
	if _, ok := s.subByPair[key]; ok {
		return nil, repo.ErrDuplicateSubmission
	}

	var created *model.Registration
	if opts.AutoRegister != nil && !registered {
		if err := s.insertRegistration(opts.AutoRegister); err != nil {
			return nil, err
		}
		created = opts.AutoRegister
	}

	sub.ID = s.nextID()
	sub.CreatedAt = s.now()
	sub.UpdatedAt = sub.CreatedAt
	cp := *sub
	s.submissions[sub.ID] = &cp
	s.subByPair[key] = sub.ID
	s.bump(sub.EventID, 0, 1)
	return created, nil
}

func (s *Store) GetSubmissionByID(_ context.Context, id int64) (*model.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.submissions[id]
	if !ok {
		return nil, repo.ErrSubmissionNotFound
	}
	return copySubmission(sub), nil
}

func (s *Store) GetSubmission(ctx context.Context, eventID, userID int64) (*model.Submission, error) {
	s.mu.RLock()
	id, ok := s.subByPair[pairKey{eventID, userID}]
	s.mu.RUnlock()
	if !ok {
		return nil, repo.ErrSubmissionNotFound
	}
	return s.GetSubmissionByID(ctx, id)
}

func (s *Store) filterSubmissions(keep func(*model.Submission) bool) []model.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subs := make([]model.Submission, 0)
	for _, sub := range s.submissions {
		if keep(sub) {
			subs = append(subs, *copySubmission(sub))
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	return subs
}

func (s *Store) GetSubmissionsByEventID(_ context.Context, eventID int64) ([]model.Submission, error) {
	return s.filterSubmissions(func(sub *model.Submission) bool { return sub.EventID == eventID }), nil
}

func (s *Store) GetSubmissionsByUserID(_ context.Context, userID int64) ([]model.Submission, error) {
	return s.filterSubmissions(func(sub *model.Submission) bool { return sub.UserID == userID }), nil
}

func (s *Store) updateSubmission(id int64, fn func(*model.Submission)) (*model.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.submissions[id]
	if !ok {
		return nil, repo.ErrSubmissionNotFound
	}
	fn(sub)
	sub.UpdatedAt = s.now()
	return copySubmission(sub), nil
}

func (s *Store) UpdateSubmissionReview(_ context.Context, id int64, status, notes string) (*model.Submission, error) {
	return s.updateSubmission(id, func(sub *model.Submission) {
		sub.Status = status
		sub.ReviewNotes = notes
	})
}

func (s *Store) SetSubmissionAward(_ context.Context, id int64, award *model.Award) (*model.Submission, error) {
	return s.updateSubmission(id, func(sub *model.Submission) {
		if award == nil {
			sub.Award = nil
			return
		}
		a := *award
		sub.Award = &a
	})
}

func copySubmission(sub *model.Submission) *model.Submission {
	cp := *sub
	if sub.Award != nil {
		a := *sub.Award
		cp.Award = &a
	}
	return &cp
}

func (s *Store) CreateUser(_ context.Context, u *model.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(u.Email)
	if _, ok := s.userByEmail[email]; ok {
		return 0, repo.ErrEmailTaken
	}
	u.ID = s.nextID()
	u.CreatedAt = s.now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	s.users[u.ID] = &cp
	s.userByEmail[email] = u.ID
	return u.ID, nil
}

func (s *Store) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repo.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	id, ok := s.userByEmail[strings.ToLower(email)]
	s.mu.RUnlock()
	if !ok {
		return nil, repo.ErrUserNotFound
	}
	return s.GetUserByID(ctx, id)
}

func (s *Store) UpdateUser(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.users[u.ID]
	if !ok {
		return repo.ErrUserNotFound
	}
	cur.Name = u.Name
	cur.Profile = u.Profile
	cur.UpdatedAt = s.now()
	u.UpdatedAt = cur.UpdatedAt
	return nil
}

func (s *Store) CreateDocument(_ context.Context, d *model.Document) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d.ID = s.nextID()
	d.CreatedAt = s.now()
	d.UpdatedAt = d.CreatedAt
	cp := *d
	s.documents[d.ID] = &cp
	return d.ID, nil
}

func (s *Store) GetDocument(_ context.Context, kind string, id int64) (*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.documents[id]
	if !ok || d.Kind != kind {
		return nil, repo.ErrDocumentNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *Store) GetDocuments(_ context.Context, kind string, publishedOnly bool) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]model.Document, 0)
	for _, d := range s.documents {
		if d.Kind != kind || (publishedOnly && !d.Published) {
			continue
		}
		docs = append(docs, *d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID > docs[j].ID })
	return docs, nil
}

func (s *Store) UpdateDocument(_ context.Context, d *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.documents[d.ID]
	if !ok || cur.Kind != d.Kind {
		return repo.ErrDocumentNotFound
	}
	cur.Data = d.Data
	cur.Published = d.Published
	cur.UpdatedAt = s.now()
	d.UpdatedAt = cur.UpdatedAt
	return nil
}

func (s *Store) DeleteDocument(_ context.Context, kind string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.documents[id]
	if !ok || d.Kind != kind {
		return repo.ErrDocumentNotFound
	}
	delete(s.documents, id)
	return nil
}

func (s *Store) GetSettings(_ context.Context) (*model.SiteSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return nil, repo.ErrSettingsNotFound
	}
	cp := *s.settings
	return &cp, nil
}

func (s *Store) SaveSettings(_ context.Context, settings *model.SiteSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *settings
	s.settings = &cp
	return nil
}

func (s *Store) CreateContactMessage(_ context.Context, m *model.ContactMessage) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = s.nextID()
	m.CreatedAt = s.now()
	s.contacts = append(s.contacts, *m)
	return m.ID, nil
}

func (s *Store) GetContactMessages(_ context.Context) ([]model.ContactMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := make([]model.ContactMessage, len(s.contacts))
	for i, m := range s.contacts {
		msgs[len(s.contacts)-1-i] = m
	}
	return msgs, nil
}
