// Package memory is an in-memory implementation of the repository
// interfaces. It is safe for concurrent use and is intended for tests and
// local development (DB_DRIVER=memory).
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/lifecycle"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/models"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/repository"
	"github.com/google/uuid"
)

type Store struct {
	mu          sync.RWMutex
	users       map[uuid.UUID]models.User
	admins      map[uuid.UUID]models.Admin
	projects    map[uuid.UUID]models.ProjectRegistration
	internships map[uuid.UUID]models.InternshipRegistration
	now         func() time.Time
}

func New() *Store {
	return &Store{
		users:       make(map[uuid.UUID]models.User),
		admins:      make(map[uuid.UUID]models.Admin),
		projects:    make(map[uuid.UUID]models.ProjectRegistration),
		internships: make(map[uuid.UUID]models.InternshipRegistration),
		now:         time.Now,
	}
}

// Users ----------------------------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if err := u.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrDuplicate
		}
		if u.GoogleID != nil && existing.GoogleID != nil && *existing.GoogleID == *u.GoogleID {
			return repository.ErrDuplicate
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := s.now()
	u.CreatedAt, u.UpdatedAt = now, now
	s.users[u.ID] = cloneUser(*u)
	return nil
}

func (s *Store) FindUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneUser(u)
	return &out, nil
}

func (s *Store) FindUserWithProjects(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.projects {
		if p.OwnerID != nil && *p.OwnerID == id {
			proj := cloneProject(p)
			proj.StatusHistory = nil
			u.Projects = append(u.Projects, proj)
		}
	}
	sort.Slice(u.Projects, func(i, j int) bool {
		return u.Projects[i].CreatedAt.Before(u.Projects[j].CreatedAt)
	})
	return u, nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	return s.findUser(func(u models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (s *Store) FindUserByGoogleID(_ context.Context, googleID string) (*models.User, error) {
	return s.findUser(func(u models.User) bool { return u.GoogleID != nil && *u.GoogleID == googleID })
}

func (s *Store) findUser(match func(models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if match(u) {
			out := cloneUser(u)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateProfile(_ context.Context, id uuid.UUID, changes repository.ProfileChanges) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if changes.Email != nil {
		for otherID, other := range s.users {
			if otherID != id && strings.EqualFold(other.Email, *changes.Email) {
				return nil, repository.ErrDuplicate
			}
		}
		u.Email = *changes.Email
	}
	if changes.Name != nil {
		u.Name = *changes.Name
	}
	if changes.PasswordHash != nil {
		u.Password = *changes.PasswordHash
	}
	u.UpdatedAt = s.now()
	s.users[id] = u
	out := cloneUser(u)
	return &out, nil
}

func (s *Store) SetRole(_ context.Context, id uuid.UUID, role string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = s.now()
	s.users[id] = u
	out := cloneUser(u)
	return &out, nil
}

func (s *Store) LinkGoogleID(_ context.Context, id uuid.UUID, googleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	for otherID, other := range s.users {
		if otherID != id && other.GoogleID != nil && *other.GoogleID == googleID {
			return repository.ErrDuplicate
		}
	}
	u.GoogleID = &googleID
	s.users[id] = u
	return nil
}

func (s *Store) SetRefreshToken(_ context.Context, id uuid.UUID, digest *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshToken = cloneString(digest)
	s.users[id] = u
	return nil
}

func (s *Store) SwapRefreshToken(_ context.Context, id uuid.UUID, old, next string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.RefreshToken == nil || *u.RefreshToken != old {
		return repository.ErrStale
	}
	u.RefreshToken = &next
	s.users[id] = u
	return nil
}

// Admins ---------------------------------------------------------------------

func (s *Store) CreateAdmin(_ context.Context, a *models.Admin) error {
	if err := a.BeforeCreate(nil); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.admins {
		if strings.EqualFold(existing.Email, a.Email) {
			return repository.ErrDuplicate
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := s.now()
	a.CreatedAt, a.UpdatedAt = now, now
	s.admins[a.ID] = *a
	return nil
}

func (s *Store) FindAdminByEmail(_ context.Context, email string) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.admins {
		if strings.EqualFold(a.Email, email) {
			out := a
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) ListAdmins(_ context.Context) ([]models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Admin, 0, len(s.admins))
	for _, a := range s.admins {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) DeleteAdmin(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.admins[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.admins, id)
	return nil
}

// Projects -------------------------------------------------------------------

func (s *Store) CreateProject(_ context.Context, p *models.ProjectRegistration) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if _, exists := s.projects[p.ID]; exists {
		return repository.ErrDuplicate
	}
	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now
	for i := range p.StatusHistory {
		p.StatusHistory[i].ProjectID = p.ID
		if p.StatusHistory[i].ID == uuid.Nil {
			p.StatusHistory[i].ID = uuid.New()
		}
	}
	s.projects[p.ID] = cloneProject(*p)
	return nil
}

func (s *Store) FindProject(_ context.Context, id uuid.UUID) (*models.ProjectRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneProject(p)
	return &out, nil
}

func (s *Store) ListProjects(_ context.Context) ([]models.ProjectRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ProjectRegistration, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, cloneProject(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) AdvanceStatus(_ context.Context, id uuid.UUID, from lifecycle.Status, entry models.StatusHistoryEntry) (*models.ProjectRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.Status != from {
		return nil, repository.ErrStale
	}
	for _, h := range p.StatusHistory {
		if h.Step == entry.Step {
			return nil, repository.ErrStale
		}
	}

	entry.ProjectID = id
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	p = cloneProject(p)
	p.Status = entry.Status
	p.CompletionPercentage = entry.Percentage
	p.UpdatedAt = entry.Timestamp
	p.StatusHistory = append(p.StatusHistory, entry)
	s.projects[id] = p

	out := cloneProject(p)
	return &out, nil
}

// Internships ----------------------------------------------------------------

func (s *Store) CreateInternship(_ context.Context, i *models.InternshipRegistration) error {
	if err := i.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.internships {
		if strings.EqualFold(existing.Email, i.Email) {
			return repository.ErrDuplicate
		}
	}
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	now := s.now()
	i.CreatedAt, i.UpdatedAt = now, now
	s.internships[i.ID] = *i
	return nil
}

func (s *Store) ListInternships(_ context.Context) ([]models.InternshipRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.InternshipRegistration, 0, len(s.internships))
	for _, i := range s.internships {
		out = append(out, i)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.Before(out[b].CreatedAt) })
	return out, nil
}

// helpers --------------------------------------------------------------------

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneUser(u models.User) models.User {
	u.GoogleID = cloneString(u.GoogleID)
	u.RefreshToken = cloneString(u.RefreshToken)
	if u.Projects != nil {
		u.Projects = append([]models.ProjectRegistration(nil), u.Projects...)
	}
	return u
}

func cloneProject(p models.ProjectRegistration) models.ProjectRegistration {
	if p.OwnerID != nil {
		owner := *p.OwnerID
		p.OwnerID = &owner
	}
	p.StatusHistory = append([]models.StatusHistoryEntry(nil), p.StatusHistory...)
	return p
}
