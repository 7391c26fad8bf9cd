package certificates

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/formworks/intake/pkg/pagination"
	"github.com/formworks/intake/pkg/repository"
)

const certificateColumns = `id, session_id, company_name, business_id,
	issue_date, certificate_type, created_at, updated_at`

// sortColumns whitelists sortable fields for list queries.
var sortColumns = map[string]string{
	"session_id":   "session_id",
	"company_name": "company_name",
	"created_at":   "created_at",
	"updated_at":   "updated_at",
}

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a certificate record repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "certificates"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Find(ctx context.Context, sessionID string) (*Certificate, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	q := fmt.Sprintf(
		"SELECT %s FROM certificate_documents WHERE session_id = $1",
		certificateColumns,
	)

	record, err := repository.QueryOne(ctx, r.db, q, []any{sessionID}, scanCertificate)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &record, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
) (*pagination.PageResult[Certificate], error) {
	page.Normalize(r.pagination)

	var total int
	if err := r.db.
		QueryRowContext(ctx, "SELECT COUNT(*) FROM certificate_documents").
		Scan(&total); err != nil {
		return nil, fmt.Errorf("count certificate records: %w", err)
	}

	q := fmt.Sprintf(
		"SELECT %s FROM certificate_documents %s LIMIT $1 OFFSET $2",
		certificateColumns,
		orderBy(page.Sort),
	)

	records, err := repository.QueryMany(
		ctx, r.db, q,
		[]any{page.PageSize, page.Offset()},
		scanCertificate,
	)
	if err != nil {
		return nil, fmt.Errorf("query certificate records: %w", err)
	}

	result := pagination.NewPageResult(records, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Upsert(ctx context.Context, cmd UpsertCommand) (*Certificate, error) {
	if cmd.SessionID == "" {
		return nil, ErrSessionRequired
	}

	record, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Certificate, error) {
		if updated, err := r.update(ctx, tx, cmd); err == nil {
			return updated, nil
		} else if err != sql.ErrNoRows {
			return Certificate{}, err
		}
		return r.insert(ctx, tx, cmd)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("certificate record upserted", "session_id", record.SessionID, "id", record.ID)
	return &record, nil
}

// update targets the row by numeric id when provided, otherwise by session
// id. Returns sql.ErrNoRows when no matching row exists.
func (r *repo) update(ctx context.Context, tx *sql.Tx, cmd UpsertCommand) (Certificate, error) {
	filter := "session_id = $5"
	key := any(cmd.SessionID)
	if cmd.ID != nil {
		filter = "id = $5"
		key = *cmd.ID
	}

	q := fmt.Sprintf(`
		UPDATE certificate_documents
		SET company_name = $1, business_id = $2, issue_date = $3,
			certificate_type = $4, updated_at = now()
		WHERE %s
		RETURNING %s`, filter, certificateColumns)

	args := []any{
		cmd.CompanyName,
		cmd.BusinessID,
		cmd.IssueDate,
		cmd.CertificateType,
		key,
	}

	return repository.QueryOne(ctx, tx, q, args, scanCertificate)
}

func (r *repo) insert(ctx context.Context, tx *sql.Tx, cmd UpsertCommand) (Certificate, error) {
	q := fmt.Sprintf(`
		INSERT INTO certificate_documents(session_id, company_name, business_id,
			issue_date, certificate_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`, certificateColumns)

	args := []any{
		cmd.SessionID,
		cmd.CompanyName,
		cmd.BusinessID,
		cmd.IssueDate,
		cmd.CertificateType,
	}

	return repository.QueryOne(ctx, tx, q, args, scanCertificate)
}

func scanCertificate(s repository.Scanner) (Certificate, error) {
	var record Certificate
	err := s.Scan(
		&record.ID,
		&record.SessionID,
		&record.CompanyName,
		&record.BusinessID,
		&record.IssueDate,
		&record.CertificateType,
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
