package inmem

import (
	"context"
	"fmt"
	"time"

	"github.com/dekarrin/stlspec/internal/util"
	"github.com/dekarrin/stlspec/server/dao"
	"github.com/google/uuid"
)

func NewRequirementsRepository() *RequirementsRepository {
	return &RequirementsRepository{
		reqs:        make(map[uuid.UUID]dao.Requirement),
		byNameIndex: make(map[string]uuid.UUID),
	}
}

type RequirementsRepository struct {
	reqs        map[uuid.UUID]dao.Requirement
	byNameIndex map[string]uuid.UUID
}

func (rr *RequirementsRepository) Close() error {
	return nil
}

func (rr *RequirementsRepository) Create(ctx context.Context, req dao.Requirement) (dao.Requirement, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Requirement{}, fmt.Errorf("could not generate ID: %w", err)
	}

	req.ID = newUUID

	// make sure it's not already in the DB
	if _, ok := rr.byNameIndex[req.Name]; ok {
		return dao.Requirement{}, dao.ErrConstraintViolation
	}

	now := time.Now()
	req.Created = now
	req.Modified = now

	rr.reqs[req.ID] = req
	rr.byNameIndex[req.Name] = req.ID

	return req, nil
}

func (rr *RequirementsRepository) GetAll(ctx context.Context) ([]dao.Requirement, error) {
	all := make([]dao.Requirement, len(rr.reqs))

	i := 0
	for k := range rr.reqs {
		all[i] = rr.reqs[k]
		i++
	}

	all = util.SortBy(all, func(l, r dao.Requirement) bool {
		return l.ID.String() < r.ID.String()
	})

	return all, nil
}

func (rr *RequirementsRepository) Update(ctx context.Context, id uuid.UUID, req dao.Requirement) (dao.Requirement, error) {
	existing, ok := rr.reqs[id]
	if !ok {
		return dao.Requirement{}, dao.ErrNotFound
	}

	// check for conflicts on this table only
	// (inmem does not support enforcement of foreign keys)
	if req.Name != existing.Name {
		// that's okay but we need to check it
		if _, ok := rr.byNameIndex[req.Name]; ok {
			return dao.Requirement{}, dao.ErrConstraintViolation
		}
	} else if req.ID != id {
		// that's okay but we need to check it
		if _, ok := rr.reqs[req.ID]; ok {
			return dao.Requirement{}, dao.ErrConstraintViolation
		}
	}

	req.Modified = time.Now()

	rr.reqs[req.ID] = req
	rr.byNameIndex[req.Name] = req.ID
	if req.ID != id {
		delete(rr.reqs, id)
	}
	if req.Name != existing.Name {
		delete(rr.byNameIndex, existing.Name)
	}

	return req, nil
}

func (rr *RequirementsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Requirement, error) {
	req, ok := rr.reqs[id]
	if !ok {
		return dao.Requirement{}, dao.ErrNotFound
	}

	return req, nil
}

func (rr *RequirementsRepository) GetByName(ctx context.Context, name string) (dao.Requirement, error) {
	reqID, ok := rr.byNameIndex[name]
	if !ok {
		return dao.Requirement{}, dao.ErrNotFound
	}

	return rr.reqs[reqID], nil
}

func (rr *RequirementsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Requirement, error) {
	req, ok := rr.reqs[id]
	if !ok {
		return dao.Requirement{}, dao.ErrNotFound
	}

	delete(rr.byNameIndex, req.Name)
	delete(rr.reqs, req.ID)

	return req, nil
}
