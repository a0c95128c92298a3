package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yatraworks/yatra/internal/domain"
)

// ContactFilter narrows the admin listing of contact messages.
type ContactFilter struct {
	Status   domain.ContactStatus
	Subject  domain.ContactSubject
	Priority domain.ContactPriority
	Search   string
}

type ContactRepository interface {
	Insert(ctx context.Context, m *domain.ContactMessage) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactMessage, error)
	List(ctx context.Context, filter ContactFilter, page Page) ([]domain.ContactMessage, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ContactStatus) (*domain.ContactMessage, error)
	StatusCounts(ctx context.Context) (map[domain.ContactStatus]int, error)
}

type PGContactRepository struct {
	db *pgxpool.Pool
}

func NewContactRepository(db *pgxpool.Pool) ContactRepository {
	return &PGContactRepository{db: db}
}

const contactColumns = `id, name, email, phone, subject, message, status, priority,
	ip_address, user_agent, created_at, updated_at`

func (r *PGContactRepository) Insert(ctx context.Context, m *domain.ContactMessage) error {
	return r.db.QueryRow(ctx, `INSERT INTO contact_messages
			(id, name, email, phone, subject, message, status, priority, ip_address, user_agent)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at`,
		m.ID, m.Name, m.Email, m.Phone, m.Subject, m.Message, m.Status, m.Priority, m.IPAddress, m.UserAgent).
		Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *PGContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactMessage, error) {
	row := r.db.QueryRow(ctx, `SELECT `+contactColumns+` FROM contact_messages WHERE id=$1`, id)
	m, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *PGContactRepository) List(ctx context.Context, filter ContactFilter, page Page) ([]domain.ContactMessage, int, error) {
	conds := make([]string, 0, 4)
	args := make([]any, 0, 4)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Status != "" {
		add("status=$%d", filter.Status)
	}
	if filter.Subject != "" {
		add("subject=$%d", filter.Subject)
	}
	if filter.Priority != "" {
		add("priority=$%d", filter.Priority)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR message ILIKE $%d)", n, n, n))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM contact_messages`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, page.Limit, page.offset())
	query := fmt.Sprintf(`SELECT %s FROM contact_messages%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		contactColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	messages := make([]domain.ContactMessage, 0)
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		messages = append(messages, *m)
	}
	return messages, total, rows.Err()
}

func (r *PGContactRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ContactStatus) (*domain.ContactMessage, error) {
	row := r.db.QueryRow(ctx, `UPDATE contact_messages SET status=$2, updated_at=now()
		WHERE id=$1 RETURNING `+contactColumns, id, status)
	m, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *PGContactRepository) StatusCounts(ctx context.Context) (map[domain.ContactStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, count(*) FROM contact_messages GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.ContactStatus]int)
	for rows.Next() {
		var status domain.ContactStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func scanContact(row pgx.Row) (*domain.ContactMessage, error) {
	var m domain.ContactMessage
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message,
		&m.Status, &m.Priority, &m.IPAddress, &m.UserAgent, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

var _ ContactRepository = (*PGContactRepository)(nil)
