package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/staff"
)

type staffRepository struct {
	db *DB
}

func NewStaffRepository(db *DB) staff.StaffRepository {
	return &staffRepository{db: db}
}

func copyBalances(b leave.Balances) leave.Balances {
	if b == nil {
		return nil
	}
	out := make(leave.Balances, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

func cloneProfile(p staff.StaffProfile) staff.StaffProfile {
	p.LeaveBalances = copyBalances(p.LeaveBalances)
	return p
}

func (r *staffRepository) Put(ctx context.Context, profile staff.StaffProfile) (staff.StaffProfile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.db.staff[profile.ID]; ok {
		profile.CreatedAt = existing.CreatedAt
	} else {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	r.db.staff[profile.ID] = cloneProfile(profile)
	return cloneProfile(profile), nil
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (staff.StaffProfile, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p, ok := r.db.staff[id]
	if !ok {
		return staff.StaffProfile{}, staff.ErrStaffNotFound
	}
	return cloneProfile(p), nil
}

// GetByIDForUpdate relies on the transactor serializing units of work.
func (r *staffRepository) GetByIDForUpdate(ctx context.Context, id string) (staff.StaffProfile, error) {
	return r.GetByID(ctx, id)
}

func (r *staffRepository) List(ctx context.Context, filter staff.StaffFilter) ([]staff.StaffProfile, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]staff.StaffProfile, 0, len(r.db.staff))
	for _, p := range r.db.staff {
		if filter.Role != nil && p.Role != *filter.Role {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Email), search) {
			continue
		}
		out = append(out, cloneProfile(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *staffRepository) UpdateBalances(ctx context.Context, id string, balances leave.Balances) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.staff[id]
	if !ok {
		return staff.ErrStaffNotFound
	}
	p.LeaveBalances = copyBalances(balances)
	p.UpdatedAt = time.Now().UTC()
	r.db.staff[id] = p
	return nil
}

func (r *staffRepository) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.staff[id]; !ok {
		return staff.ErrStaffNotFound
	}
	delete(r.db.staff, id)
	return nil
}
