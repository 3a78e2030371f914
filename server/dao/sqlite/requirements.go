package sqlite

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/dekarrin/stlspec/server/dao"
	"github.com/google/uuid"
)

func NewRequirementsDBConn(file string) (*RequirementsDB, error) {
	repo := &RequirementsDB{}

	var err error
	repo.db, err = sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	return repo, repo.init(false)
}

type RequirementsDB struct {
	db *sql.DB
}

func (repo *RequirementsDB) init(fk bool) error {
	stmt := `CREATE TABLE IF NOT EXISTS requirements (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		formula TEXT NOT NULL,
		target TEXT NOT NULL,
		compiled TEXT NOT NULL,
		owner TEXT NOT NULL`

	if fk {
		stmt += ` REFERENCES users(id) ON DELETE CASCADE ON UPDATE CASCADE`
	}

	stmt += `,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *RequirementsDB) Create(ctx context.Context, req dao.Requirement) (dao.Requirement, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Requirement{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO requirements (id, name, formula, target, compiled, owner, created, modified) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Requirement{}, wrapDBError(err)
	}

	now := time.Now()
	encCompiled := base64.StdEncoding.EncodeToString(req.Compiled)
	_, err = stmt.ExecContext(
		ctx,
		convertToDB_UUID(newUUID),
		req.Name,
		req.Formula,
		convertToDB_Target(req.Target),
		encCompiled,
		convertToDB_UUID(req.Owner),
		convertToDB_Time(now),
		convertToDB_Time(now),
	)
	if err != nil {
		return dao.Requirement{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *RequirementsDB) GetAll(ctx context.Context) ([]dao.Requirement, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, name, formula, target, compiled, owner, created, modified FROM requirements;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Requirement

	for rows.Next() {
		req, err := scanRequirement(rows)
		if err != nil {
			return all, err
		}
		all = append(all, req)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *RequirementsDB) Update(ctx context.Context, id uuid.UUID, req dao.Requirement) (dao.Requirement, error) {
	// deliberately not updating created
	encCompiled := base64.StdEncoding.EncodeToString(req.Compiled)
	res, err := repo.db.ExecContext(ctx, `UPDATE requirements SET id=?, name=?, formula=?, target=?, compiled=?, owner=?, modified=? WHERE id=?;`,
		convertToDB_UUID(req.ID),
		req.Name,
		req.Formula,
		convertToDB_Target(req.Target),
		encCompiled,
		convertToDB_UUID(req.Owner),
		convertToDB_Time(time.Now()),
		convertToDB_UUID(id),
	)
	if err != nil {
		return dao.Requirement{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.Requirement{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.Requirement{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, req.ID)
}

func (repo *RequirementsDB) GetByName(ctx context.Context, name string) (dao.Requirement, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, name, formula, target, compiled, owner, created, modified FROM requirements WHERE name = ?;`,
		name,
	)
	return scanRequirement(row)
}

func (repo *RequirementsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Requirement, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, name, formula, target, compiled, owner, created, modified FROM requirements WHERE id = ?;`,
		convertToDB_UUID(id),
	)
	return scanRequirement(row)
}

func (repo *RequirementsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Requirement, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM requirements WHERE id = ?`, convertToDB_UUID(id))
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *RequirementsDB) Close() error {
	return repo.db.Close()
}

func scanRequirement(row scannable) (dao.Requirement, error) {
	var req dao.Requirement
	var id string
	var target string
	var compiled string
	var owner string
	var created int64
	var modified int64

	err := row.Scan(
		&id,
		&req.Name,
		&req.Formula,
		&target,
		&compiled,
		&owner,
		&created,
		&modified,
	)
	if err != nil {
		return req, wrapDBError(err)
	}

	err = convertFromDB_UUID(id, &req.ID)
	if err != nil {
		return req, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
	}
	err = convertFromDB_UUID(owner, &req.Owner)
	if err != nil {
		return req, fmt.Errorf("stored owner ID %q is invalid: %w", owner, err)
	}
	err = convertFromDB_Target(target, &req.Target)
	if err != nil {
		return req, fmt.Errorf("stored target %q is invalid: %w", target, err)
	}
	if compiled != "" {
		req.Compiled, err = base64.StdEncoding.DecodeString(compiled)
		if err != nil {
			return req, fmt.Errorf("stored compiled artifact is invalid: %w", err)
		}
	}
	err = convertFromDB_Time(created, &req.Created)
	if err != nil {
		return req, fmt.Errorf("stored created time %d is invalid: %w", created, err)
	}
	err = convertFromDB_Time(modified, &req.Modified)
	if err != nil {
		return req, fmt.Errorf("stored modified time %d is invalid: %w", modified, err)
	}

	return req, nil
}
