package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Nirmalamangrati/BackendOfPostflow/internal/domain"
)

type fakeMessageRepo struct {
	mu    sync.Mutex
	seq   int
	order []string
	msgs  map[string]domain.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{msgs: map[string]domain.Message{}}
}

func (f *fakeMessageRepo) Insert(_ context.Context, m *domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m.ID == "" {
		f.seq++
		m.ID = fmt.Sprintf("m%03d", f.seq)
	}
	f.order = append(f.order, m.ID)
	f.msgs[m.ID] = *m
	return nil
}

func (f *fakeMessageRepo) FindByID(_ context.Context, id string) (*domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.msgs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (f *fakeMessageRepo) UpdateText(_ context.Context, id, sender, text string, at time.Time) (*domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.msgs[id]
	if !ok || m.From != sender {
		return nil, domain.ErrNotFound
	}
	m.Text = text
	m.IsEdited = true
	m.EditedAt = &at
	f.msgs[id] = m
	return &m, nil
}

func (f *fakeMessageRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.msgs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.msgs, id)
	return nil
}

func (f *fakeMessageRepo) Conversation(_ context.Context, a, b string) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Message{}
	for _, id := range f.order {
		m, ok := f.msgs[id]
		if !ok {
			continue
		}
		if (m.From == a && m.To == b) || (m.From == b && m.To == a) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recordingDispatcher) Dispatch(_ context.Context, ev domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingDispatcher) named(name string) []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Event{}
	for _, ev := range r.events {
		if ev.Name() == name {
			out = append(out, ev)
		}
	}
	return out
}

type fakeDirectory struct {
	known map[string]bool
}

func (f *fakeDirectory) Exists(_ context.Context, id string) (bool, error) {
	return f.known[id], nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) add(u domain.User) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == "" {
		f.seq++
		u.ID = fmt.Sprintf("u%03d", f.seq)
	}
	cp := u
	f.users[cp.ID] = &cp
	return &cp
}

func (f *fakeUserRepo) Insert(_ context.Context, u *domain.User) error {
	stored := f.add(*u)
	u.ID = stored.ID
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return f.findBy(func(u *domain.User) bool { return u.Email == email })
}

func (f *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*domain.User, error) {
	return f.findBy(func(u *domain.User) bool { return u.Phone == phone })
}

func (f *fakeUserRepo) findBy(match func(*domain.User) bool) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) Exists(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUserRepo) ListAll(_ context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.User{}
	for _, u := range f.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserRepo) FindMany(_ context.Context, ids []string) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.User{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUserRepo) AddFriendRequest(_ context.Context, from, to string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[from].FriendRequestsSent = append(f.users[from].FriendRequestsSent, to)
	f.users[to].FriendRequestsReceived = append(f.users[to].FriendRequestsReceived, from)
	return nil
}

func (f *fakeUserRepo) AcceptFriendRequest(_ context.Context, userID, requesterID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, r := f.users[userID], f.users[requesterID]
	u.FriendRequestsReceived = remove(u.FriendRequestsReceived, requesterID)
	r.FriendRequestsSent = remove(r.FriendRequestsSent, userID)
	u.Friends = append(u.Friends, requesterID)
	r.Friends = append(r.Friends, userID)
	return nil
}

func (f *fakeUserRepo) RejectFriendRequest(_ context.Context, userID, requesterID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, r := f.users[userID], f.users[requesterID]
	u.FriendRequestsReceived = remove(u.FriendRequestsReceived, requesterID)
	r.FriendRequestsSent = remove(r.FriendRequestsSent, userID)
	return nil
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

type fakeNotifier struct {
	mu    sync.Mutex
	notes map[string][]string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{notes: map[string][]string{}}
}

func (f *fakeNotifier) Notify(_ context.Context, userID, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes[userID] = append(f.notes[userID], message)
	return nil
}

type fakePostRepo struct {
	mu    sync.Mutex
	seq   int
	posts map[string]domain.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]domain.Post{}}
}

func (f *fakePostRepo) Insert(_ context.Context, p *domain.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == "" {
		f.seq++
		p.ID = fmt.Sprintf("p%03d", f.seq)
	}
	f.posts[p.ID] = *p
	return nil
}

func (f *fakePostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (f *fakePostRepo) List(_ context.Context, _ string) ([]domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Post{}
	for _, p := range f.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakePostRepo) Replace(_ context.Context, p *domain.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[p.ID]; !ok {
		return domain.ErrNotFound
	}
	f.posts[p.ID] = *p
	return nil
}

func (f *fakePostRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.posts, id)
	return nil
}
