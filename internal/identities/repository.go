package identities

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/formworks/intake/pkg/pagination"
	"github.com/formworks/intake/pkg/repository"
)

const identityColumns = `id, session_id, name, date_of_birth, id_number,
	issue_date, valid_until, role, id_type, created_at, updated_at`

// sortColumns whitelists sortable fields for list queries.
var sortColumns = map[string]string{
	"session_id": "session_id",
	"name":       "name",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an identity record repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "identities"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Find(ctx context.Context, sessionID string) ([]Identity, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	q := fmt.Sprintf(
		"SELECT %s FROM identity_documents WHERE session_id = $1 ORDER BY id",
		identityColumns,
	)

	records, err := repository.QueryMany(ctx, r.db, q, []any{sessionID}, scanIdentity)
	if err != nil {
		return nil, fmt.Errorf("query identity records: %w", err)
	}

	return records, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
) (*pagination.PageResult[Identity], error) {
	page.Normalize(r.pagination)

	var total int
	if err := r.db.
		QueryRowContext(ctx, "SELECT COUNT(*) FROM identity_documents").
		Scan(&total); err != nil {
		return nil, fmt.Errorf("count identity records: %w", err)
	}

	q := fmt.Sprintf(
		"SELECT %s FROM identity_documents %s LIMIT $1 OFFSET $2",
		identityColumns,
		orderBy(page.Sort),
	)

	records, err := repository.QueryMany(
		ctx, r.db, q,
		[]any{page.PageSize, page.Offset()},
		scanIdentity,
	)
	if err != nil {
		return nil, fmt.Errorf("query identity records: %w", err)
	}

	result := pagination.NewPageResult(records, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Upsert(ctx context.Context, cmd UpsertCommand) (*Identity, error) {
	if cmd.SessionID == "" {
		return nil, ErrSessionRequired
	}

	record, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Identity, error) {
		if updated, err := r.update(ctx, tx, cmd); err == nil {
			return updated, nil
		} else if err != sql.ErrNoRows {
			return Identity{}, err
		}
		return r.insert(ctx, tx, cmd)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("identity record upserted", "session_id", record.SessionID, "id", record.ID)
	return &record, nil
}

// update targets the row by numeric id when provided, otherwise by session
// id. Returns sql.ErrNoRows when no matching row exists.
func (r *repo) update(ctx context.Context, tx *sql.Tx, cmd UpsertCommand) (Identity, error) {
	filter := "session_id = $8"
	key := any(cmd.SessionID)
	if cmd.ID != nil {
		filter = "id = $8"
		key = *cmd.ID
	}

	q := fmt.Sprintf(`
		UPDATE identity_documents
		SET name = $1, date_of_birth = $2, id_number = $3, issue_date = $4,
			valid_until = $5, role = $6, id_type = $7, updated_at = now()
		WHERE %s
		RETURNING %s`, filter, identityColumns)

	args := []any{
		cmd.Name,
		cmd.DateOfBirth,
		cmd.IDNumber,
		cmd.IssueDate,
		cmd.ValidUntil,
		cmd.Role,
		cmd.IDType,
		key,
	}

	return repository.QueryOne(ctx, tx, q, args, scanIdentity)
}

func (r *repo) insert(ctx context.Context, tx *sql.Tx, cmd UpsertCommand) (Identity, error) {
	q := fmt.Sprintf(`
		INSERT INTO identity_documents(session_id, name, date_of_birth, id_number,
			issue_date, valid_until, role, id_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`, identityColumns)

	args := []any{
		cmd.SessionID,
		cmd.Name,
		cmd.DateOfBirth,
		cmd.IDNumber,
		cmd.IssueDate,
		cmd.ValidUntil,
		cmd.Role,
		cmd.IDType,
	}

	return repository.QueryOne(ctx, tx, q, args, scanIdentity)
}

func scanIdentity(s repository.Scanner) (Identity, error) {
	var record Identity
	err := s.Scan(
		&record.ID,
		&record.SessionID,
		&record.Name,
		&record.DateOfBirth,
		&record.IDNumber,
		&record.IssueDate,
		&record.ValidUntil,
		&record.Role,
		&record.IDType,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	return record, err
}

func orderBy(sort []pagination.SortField) string {
	clauses := make([]string, 0, len(sort))
	for _, field := range sort {
		column, ok := sortColumns[field.Field]
		if !ok {
			continue
		}
		if field.Descending {
			column += " DESC"
		}
		clauses = append(clauses, column)
	}

	if len(clauses) == 0 {
		return "ORDER BY created_at DESC"
	}
	return "ORDER BY " + strings.Join(clauses, ", ")
}
