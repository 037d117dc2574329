package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type staffRepositoryImpl struct {
	db *database.DB
}

func NewStaffRepository(db *database.DB) staff.StaffRepository {
	return &staffRepositoryImpl{db: db}
}

const staffColumns = `id, name, email, designation, employment_type, role, leave_balances, created_at, updated_at`

func scanStaff(row pgx.Row) (staff.StaffProfile, error) {
	var p staff.StaffProfile
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.Designation,
		&p.EmploymentType,
		&p.Role,
		&p.LeaveBalances,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return staff.StaffProfile{}, staff.ErrStaffNotFound
		}
		return staff.StaffProfile{}, err
	}
	return p, nil
}

// Put implements staff.StaffRepository.
func (r *staffRepositoryImpl) Put(ctx context.Context, profile staff.StaffProfile) (staff.StaffProfile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO staff_profiles (id, name, email, designation, employment_type, role, leave_balances)
		VALUES ($1, $2, LOWER($3), $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			designation = EXCLUDED.designation,
			employment_type = EXCLUDED.employment_type,
			role = EXCLUDED.role,
			leave_balances = EXCLUDED.leave_balances,
			updated_at = NOW()
		RETURNING ` + staffColumns

	return scanStaff(q.QueryRow(ctx, query,
		profile.ID,
		profile.Name,
		profile.Email,
		profile.Designation,
		profile.EmploymentType,
		profile.Role,
		profile.LeaveBalances,
	))
}

// GetByID implements staff.StaffRepository.
func (r *staffRepositoryImpl) GetByID(ctx context.Context, id string) (staff.StaffProfile, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + staffColumns + ` FROM staff_profiles WHERE id = $1`
	return scanStaff(q.QueryRow(ctx, query, id))
}

// GetByIDForUpdate implements staff.StaffRepository.
func (r *staffRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (staff.StaffProfile, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + staffColumns + ` FROM staff_profiles WHERE id = $1 FOR UPDATE`
	return scanStaff(q.QueryRow(ctx, query, id))
}

// List implements staff.StaffRepository.
func (r *staffRepositoryImpl) List(ctx context.Context, filter staff.StaffFilter) ([]staff.StaffProfile, error) {
	q := GetQuerier(ctx, r.db)

	var (
		where []string
		args  []interface{}
	)
	if filter.Role != nil {
		args = append(args, *filter.Role)
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}

	query := `SELECT ` + staffColumns + ` FROM staff_profiles`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name ASC, id ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]staff.StaffProfile, 0)
	for rows.Next() {
		p, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// UpdateBalances implements staff.StaffRepository.
func (r *staffRepositoryImpl) UpdateBalances(ctx context.Context, id string, balances leave.Balances) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE staff_profiles SET leave_balances = $1, updated_at = NOW() WHERE id = $2`, balances, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return staff.ErrStaffNotFound
	}
	return nil
}

// Delete implements staff.StaffRepository.
func (r *staffRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM staff_profiles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return staff.ErrStaffNotFound
	}
	return nil
}
