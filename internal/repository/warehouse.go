package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"StockETL/internal/domain/models"
	domrepo "StockETL/internal/domain/repository"
	applogger "StockETL/pkg/logger"
)

var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// Opener opens a database handle for one load.
type Opener func(ctx context.Context) (*sql.DB, error)

// SQLWarehouse implements Warehouse on top of database/sql.
type SQLWarehouse struct {
	open        Opener
	dialect     Dialect
	table       string
	computeUnit string
	l           *applogger.Logger
}

// NewSQLWarehouse validates identifiers that are rendered into statements.
func NewSQLWarehouse(open Opener, dialect Dialect, table, computeUnit string) (*SQLWarehouse, error) {
	if !identRegex.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if computeUnit != "" && !identRegex.MatchString(computeUnit) {
		return nil, fmt.Errorf("invalid compute unit name %q", computeUnit)
	}
	return &SQLWarehouse{
		open:        open,
		dialect:     dialect,
		table:       table,
		computeUnit: computeUnit,
		l:           applogger.NewNop(),
	}, nil
}

// SetLogger injects a structured logger.
func (w *SQLWarehouse) SetLogger(l *applogger.Logger) { w.l = l }

func (w *SQLWarehouse) Driver() string { return w.dialect.Name() }

// Connect opens the database and pins a single connection for the session.
func (w *SQLWarehouse) Connect(ctx context.Context) (domrepo.WarehouseSession, error) {
	db, err := w.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s open: %w", w.dialect.Name(), err)
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close() // best-effort close
		return nil, fmt.Errorf("%s conn: %w", w.dialect.Name(), err)
	}
	w.l.Debug("warehouse connected", applogger.String("driver", w.dialect.Name()))
	return &sqlSession{w: w, db: db, conn: conn}, nil
}

type sqlSession struct {
	w    *SQLWarehouse
	db   *sql.DB
	conn *sql.Conn
	tx   *sql.Tx
}

func (s *sqlSession) ResumeCompute(ctx context.Context) error {
	stmt := s.w.dialect.ResumeStatement(s.w.computeUnit)
	if stmt == "" {
		return domrepo.ErrResumeUnsupported
	}
	if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
		if s.w.dialect.IsAlreadyActive(err) {
			return fmt.Errorf("%w: %v", domrepo.ErrComputeAlreadyActive, err)
		}
		return fmt.Errorf("resume %s: %w", s.w.computeUnit, err)
	}
	return nil
}

func (s *sqlSession) EnsureTable(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, s.w.dialect.CreateTableStatement(s.w.table)); err != nil {
		return fmt.Errorf("create table %s: %w", s.w.table, err)
	}
	return nil
}

func (s *sqlSession) Begin(ctx context.Context) (domrepo.WarehouseTx, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, s.w.dialect.InsertStatement(s.w.table))
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	s.tx = tx
	return &sqlTx{tx: tx, stmt: stmt, dialect: s.w.dialect}, nil
}

// Close rolls back an unfinished transaction, then releases the connection and the handle.
func (s *sqlSession) Close() error {
	var errs []error
	if s.tx != nil {
		if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			errs = append(errs, fmt.Errorf("rollback: %w", err))
		}
	}
	if err := s.conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		errs = append(errs, fmt.Errorf("close conn: %w", err))
	}
	if err := s.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close db: %w", err))
	}
	return errors.Join(errs...)
}

type sqlTx struct {
	tx      *sql.Tx
	stmt    *sql.Stmt
	dialect Dialect
}

func (t *sqlTx) Insert(ctx context.Context, rec models.PriceRecord) error {
	if _, err := t.stmt.ExecContext(ctx, t.dialect.InsertArgs(rec)...); err != nil {
		return fmt.Errorf("insert %s %s: %w", rec.Ticker, rec.Date.Format("2006-01-02"), err)
	}
	return nil
}

// Commit publishes every inserted row; the prepared statement is closed with the transaction.
func (t *sqlTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqlTx) Rollback() error {
	return t.tx.Rollback()
}
