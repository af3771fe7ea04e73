package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"stress-index/internal/model"
	"stress-index/internal/store"
)

type instKey struct{ uni, user string }

// memStore is an in-memory Store. Merge-writes replace the summary
// columns and keep CreatedAt from the first write.
type memStore struct {
	mu       sync.Mutex
	users    map[string]model.User
	profiles map[string]model.Profile
	moods    map[string][]model.MoodEntry
	spending map[string][]model.SpendingEntry

	userSummaries map[string]model.UserSummary
	instSummaries map[instKey]model.InstitutionSummary
	instStudents  map[instKey]model.InstitutionStudent

	failGet      map[string]error
	failUserSum  error
	failInstSum  error
	failInstStub error
	panicOn      string
	listErr      error
	writes       []string
	inFlight     int
	maxInFlight  int
	lastSince    time.Time
	created      time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:         map[string]model.User{},
		profiles:      map[string]model.Profile{},
		moods:         map[string][]model.MoodEntry{},
		spending:      map[string][]model.SpendingEntry{},
		userSummaries: map[string]model.UserSummary{},
		instSummaries: map[instKey]model.InstitutionSummary{},
		instStudents:  map[instKey]model.InstitutionStudent{},
		failGet:       map[string]error{},
		created:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) addStudent(id, uni string) {
	u := model.User{ID: id, Role: model.RoleStudent, Email: id + "@uni.edu"}
	if uni != "" {
		u.UniversityID = &uni
	}
	m.users[id] = u
}

func (m *memStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	m.inFlight++
	if m.inFlight > m.maxInFlight {
		m.maxInFlight = m.inFlight
	}
	panicOn := m.panicOn
	m.mu.Unlock()

	// give concurrent sweeps a chance to overlap
	time.Sleep(time.Millisecond)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight--
	if id == panicOn {
		panic("corrupt user record")
	}
	if err := m.failGet[id]; err != nil {
		return nil, err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, store.ErrNotFound)
	}
	return &u, nil
}

func (m *memStore) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memStore) ListMoodEntries(ctx context.Context, userID string, since time.Time) ([]model.MoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSince = since
	var out []model.MoodEntry
	for _, e := range m.moods[userID] {
		if e.Time.After(since) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) ListSpendingEntries(ctx context.Context, userID string, since time.Time) ([]model.SpendingEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.SpendingEntry
	for _, e := range m.spending[userID] {
		if e.Time.After(since) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) ListUserIDs(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	ids := make([]string, 0, len(m.users)+len(m.failGet))
	for id := range m.users {
		ids = append(ids, id)
	}
	for id := range m.failGet {
		if _, ok := m.users[id]; !ok {
			ids = append(ids, id)
		}
	}
	if m.panicOn != "" {
		if _, ok := m.users[m.panicOn]; !ok {
			ids = append(ids, m.panicOn)
		}
	}
	return ids, nil
}

func (m *memStore) MergeUserSummary(ctx context.Context, userID string, s model.StressSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = append(m.writes, "user:"+userID)
	if m.failUserSum != nil {
		return m.failUserSum
	}
	row, ok := m.userSummaries[userID]
	if !ok {
		row = model.UserSummary{UserID: userID, CreatedAt: m.created}
	}
	row.StressSummary = s
	m.userSummaries[userID] = row
	return nil
}

func (m *memStore) MergeInstitutionSummary(ctx context.Context, uni, userID string, s model.StressSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = append(m.writes, "inst-summary:"+uni+"/"+userID)
	if m.failInstSum != nil {
		return m.failInstSum
	}
	k := instKey{uni, userID}
	row, ok := m.instSummaries[k]
	if !ok {
		row = model.InstitutionSummary{UniversityID: uni, UserID: userID, CreatedAt: m.created}
	}
	row.StressSummary = s
	m.instSummaries[k] = row
	return nil
}

func (m *memStore) UpsertInstitutionStudent(ctx context.Context, uni, userID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = append(m.writes, "inst-student:"+uni+"/"+userID)
	if m.failInstStub != nil {
		return m.failInstStub
	}
	k := instKey{uni, userID}
	row, ok := m.instStudents[k]
	if !ok {
		row = model.InstitutionStudent{UniversityID: uni, UserID: userID, CreatedAt: m.created}
	}
	row.LastUpdated = at
	m.instStudents[k] = row
	return nil
}

func (m *memStore) SaveMood(ctx context.Context, e *model.MoodEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.moods[e.UserID] = append(m.moods[e.UserID], *e)
	return nil
}

func (m *memStore) SaveSpending(ctx context.Context, e *model.SpendingEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spending[e.UserID] = append(m.spending[e.UserID], *e)
	return nil
}

func (m *memStore) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, store.ErrNotFound)
}

type recordingExporter struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingExporter) ExportSummary(ctx context.Context, userID, uni string, rec model.StressSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, userID+"@"+uni)
}
