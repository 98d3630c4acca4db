package inmem

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories"
)

// UserInmem implements repositories.UserRepository in memory.
type UserInmem struct {
	store *Store
}

func (u *UserInmem) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	u.store.users[user.ID] = cloneUser(user)
	return nil
}

func (u *UserInmem) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	u.store.mu.RLock()
	defer u.store.mu.RUnlock()

	user, ok := u.store.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneUser(user), nil
}

func (u *UserInmem) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	u.store.mu.RLock()
	defer u.store.mu.RUnlock()

	for _, user := range u.store.users {
		if strings.EqualFold(user.Email, email) {
			return cloneUser(user), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (u *UserInmem) GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.User, error) {
	u.store.mu.RLock()
	defer u.store.mu.RUnlock()

	result := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := u.store.users[id]; ok {
			result = append(result, cloneUser(user))
		}
	}
	return result, nil
}

func (u *UserInmem) List(ctx context.Context, tx *gorm.DB, filters repositories.UserFilters) ([]*models.User, int64, error) {
	u.store.mu.RLock()
	defer u.store.mu.RUnlock()

	var matched []*models.User
	for _, user := range u.store.users {
		if filters.Role != nil && user.Role != *filters.Role {
			continue
		}
		if filters.Query != "" {
			q := strings.ToLower(filters.Query)
			if !strings.Contains(strings.ToLower(user.Name), q) &&
				!strings.Contains(strings.ToLower(user.Email), q) {
				continue
			}
		}
		matched = append(matched, cloneUser(user))
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if filters.Offset > 0 {
		if filters.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filters.Offset:]
		}
	}
	if filters.Limit > 0 && filters.Limit < len(matched) {
		matched = matched[:filters.Limit]
	}

	return matched, total, nil
}

func (u *UserInmem) ExistsByID(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	u.store.mu.RLock()
	defer u.store.mu.RUnlock()

	_, ok := u.store.users[id]
	return ok, nil
}

func (u *UserInmem) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	u.store.mu.RLock()
	defer u.store.mu.RUnlock()

	for _, user := range u.store.users {
		if strings.EqualFold(user.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (u *UserInmem) HasRole(ctx context.Context, tx *gorm.DB, id string, role models.UserRole) (bool, error) {
	u.store.mu.RLock()
	defer u.store.mu.RUnlock()

	user, ok := u.store.users[id]
	if !ok {
		return false, nil
	}
	return user.Role == role, nil
}
