package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BenjaminMehrez/ChallengeWithYari/internal/domain/entity"
	repo "github.com/BenjaminMehrez/ChallengeWithYari/internal/domain/repository"
)

// fakeRepo is an in-memory UserRepository. Reads hand out deep copies so
// callers see row snapshots the way the store does. When stale is set,
// GetByID serves copies of that snapshot instead of current state, which
// makes racing save sequences deterministic in tests.
type fakeRepo struct {
	users  map[string]*entity.User
	stale  *entity.User
	nextID int

	createErr error
	updateErr error
	getErr    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]*entity.User{}}
}

func cloneUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Pokemons = make([]entity.PokemonRef, len(u.Pokemons))
	copy(cp.Pokemons, u.Pokemons)
	return &cp
}

func (f *fakeRepo) Create(u *entity.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, ex := range f.users {
		if ex.Email == u.Email || ex.Username == u.Username {
			return repo.ErrDuplicate
		}
	}
	f.nextID++
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.users[u.ID] = cloneUser(u)
	return nil
}

func (f *fakeRepo) GetByID(id string) (*entity.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.stale != nil && f.stale.ID == id {
		return cloneUser(f.stale), nil
	}
	u, ok := f.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneUser(u), nil
}

func (f *fakeRepo) GetByEmail(email string) (*entity.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeRepo) GetByUsername(username string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeRepo) List(skip, limit int) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, cloneUser(u))
	}
	return window(out, skip, limit), nil
}

func (f *fakeRepo) ListActive(skip, limit int) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(f.users))
	for _, u := range f.users {
		if u.IsActive {
			out = append(out, cloneUser(u))
		}
	}
	return window(out, skip, limit), nil
}

func (f *fakeRepo) SearchByUsername(term string, skip, limit int) ([]*entity.User, error) {
	out := make([]*entity.User, 0)
	for _, u := range f.users {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(term)) {
			out = append(out, cloneUser(u))
		}
	}
	return window(out, skip, limit), nil
}

func window(users []*entity.User, skip, limit int) []*entity.User {
	if skip >= len(users) {
		return []*entity.User{}
	}
	users = users[skip:]
	if limit < len(users) {
		users = users[:limit]
	}
	return users
}

func (f *fakeRepo) Update(u *entity.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	u.UpdatedAt = time.Now()
	f.users[u.ID] = cloneUser(u)
	return nil
}

func (f *fakeRepo) Delete(id string) error {
	if _, ok := f.users[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeRepo) ExistsByEmail(email string) (bool, error) {
	_, err := f.GetByEmail(email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (f *fakeRepo) ExistsByUsername(username string) (bool, error) {
	_, err := f.GetByUsername(username)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (f *fakeRepo) CountAll() (int, error) { return len(f.users), nil }

func (f *fakeRepo) CountActive() (int, error) {
	n := 0
	for _, u := range f.users {
		if u.IsActive {
			n++
		}
	}
	return n, nil
}

var _ repo.UserRepository = (*fakeRepo)(nil)

// fakeCatalog serves a fixed set of catalog entries.
type fakeCatalog struct {
	byID map[int]entity.PokemonRef
	err  error

	calls int
}

func newFakeCatalog(refs ...entity.PokemonRef) *fakeCatalog {
	c := &fakeCatalog{byID: map[int]entity.PokemonRef{}}
	for _, r := range refs {
		c.byID[r.ID] = r
	}
	return c
}

func (c *fakeCatalog) GetByID(ctx context.Context, id int) (entity.PokemonRef, error) {
	c.calls++
	if c.err != nil {
		return entity.PokemonRef{}, c.err
	}
	ref, ok := c.byID[id]
	if !ok {
		return entity.PokemonRef{}, fmt.Errorf("no such pokemon: %d", id)
	}
	return ref, nil
}

func (c *fakeCatalog) GetByName(ctx context.Context, name string) (entity.PokemonRef, error) {
	c.calls++
	if c.err != nil {
		return entity.PokemonRef{}, c.err
	}
	for _, ref := range c.byID {
		if ref.Name == name {
			return ref, nil
		}
	}
	return entity.PokemonRef{}, fmt.Errorf("no such pokemon: %s", name)
}

var _ CatalogClient = (*fakeCatalog)(nil)
