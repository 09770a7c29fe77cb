package memory

import (
	"context"

	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/internal/domain/user"
)

// UserRepository implements user.Repository with a unique email index.
type UserRepository struct {
	store   *store[shared.UserID, *user.User]
	byEmail map[shared.Email]shared.UserID // guarded by store.mu
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{
		store:   newStore[shared.UserID, *user.User](),
		byEmail: make(map[shared.Email]shared.UserID),
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id shared.UserID) (*user.User, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	u, ok := r.store.get(id)
	if !ok {
		return nil, shared.NotFound("user", "FindByID", id.String())
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email shared.Email) (*user.User, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	id, ok := r.byEmail[email]
	u := r.store.items[id]
	r.store.mu.RUnlock()
	if !ok {
		return nil, shared.NotFound("user", "FindByEmail", email.String())
	}
	return u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email shared.Email) (bool, error) {
	if err := alive(ctx); err != nil {
		return false, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	if err := alive(ctx); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if owner, taken := r.byEmail[u.Email()]; taken && owner != u.ID() {
		return shared.NewDomainError("user", "Save", shared.ErrAlreadyExists, "email "+u.Email().String()+" is already registered")
	}
	if prev, ok := r.store.items[u.ID()]; ok && prev.Email() != u.Email() {
		delete(r.byEmail, prev.Email())
	}
	r.byEmail[u.Email()] = u.ID()
	r.store.putLocked(u.ID(), u)
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id shared.UserID) error {
	if err := alive(ctx); err != nil {
		return err
	}
	u, ok := r.store.get(id)
	if !ok || !r.store.remove(id) {
		return shared.NotFound("user", "Delete", id.String())
	}
	r.store.mu.Lock()
	delete(r.byEmail, u.Email())
	r.store.mu.Unlock()
	return nil
}
