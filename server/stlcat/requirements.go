package stlcat

import (
	"context"
	"errors"

	"github.com/dekarrin/stlspec/server/dao"
	"github.com/dekarrin/stlspec/server/serr"
	"github.com/dekarrin/stlspec/stl"
	"github.com/dekarrin/stlspec/stl/trans"
	"github.com/google/uuid"
)

// GetAllRequirements returns all cataloged requirements currently in
// persistence.
func (svc Service) GetAllRequirements(ctx context.Context) ([]dao.Requirement, error) {
	reqs, err := svc.DB.Requirements().GetAll(ctx)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}

	return reqs, nil
}

// GetRequirement returns the requirement with the given ID.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no requirement with that ID
// exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if there
// is an issue with one of the arguments, it will match serr.ErrBadArgument.
func (svc Service) GetRequirement(ctx context.Context, id string) (dao.Requirement, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Requirement{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	req, err := svc.DB.Requirements().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Requirement{}, serr.ErrNotFound
		}
		return dao.Requirement{}, serr.WrapDB("could not get requirement", err)
	}

	return req, nil
}

// CreateRequirement compiles the given formula for the given target and, if
// compilation succeeds, stores the requirement along with the compiled
// monitor spec. Returns the newly-created requirement as it exists after
// creation.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If a requirement with that
// name is already present, it will match serr.ErrAlreadyExists. If the
// formula does not compile for the target, it will match serr.ErrCompilation.
// If the error occured due to an unexpected problem with the DB, it will match
// serr.ErrDB. Finally, if one of the arguments is invalid, it will match
// serr.ErrBadArgument.
func (svc Service) CreateRequirement(ctx context.Context, name, formula string, target trans.Target, owner uuid.UUID) (dao.Requirement, error) {
	if name == "" {
		return dao.Requirement{}, serr.New("name cannot be blank", serr.ErrBadArgument)
	}
	if formula == "" {
		return dao.Requirement{}, serr.New("formula cannot be blank", serr.ErrBadArgument)
	}

	_, err := svc.DB.Requirements().GetByName(ctx, name)
	if err == nil {
		return dao.Requirement{}, serr.New("a requirement with that name already exists", serr.ErrAlreadyExists)
	} else if !errors.Is(err, dao.ErrNotFound) {
		return dao.Requirement{}, serr.WrapDB("", err)
	}

	compiled, err := svc.compile(formula, target)
	if err != nil {
		return dao.Requirement{}, err
	}

	newReq := dao.Requirement{
		Name:     name,
		Formula:  formula,
		Target:   target,
		Compiled: compiled,
		Owner:    owner,
	}

	req, err := svc.DB.Requirements().Create(ctx, newReq)
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.Requirement{}, serr.ErrAlreadyExists
		}
		return dao.Requirement{}, serr.WrapDB("could not create requirement", err)
	}

	return req, nil
}

// UpdateRequirement sets the name, formula, and target of the requirement
// with the given ID. The formula is recompiled and the stored monitor spec
// replaced. Returns the updated requirement.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If a requirement with the new
// name is already present, it will match serr.ErrAlreadyExists. If no
// requirement with the given ID exists, it will match serr.ErrNotFound. If
// the formula does not compile for the target, it will match
// serr.ErrCompilation. If the error occured due to an unexpected problem with
// the DB, it will match serr.ErrDB. Finally, if one of the arguments is
// invalid, it will match serr.ErrBadArgument.
func (svc Service) UpdateRequirement(ctx context.Context, id, name, formula string, target trans.Target) (dao.Requirement, error) {
	if name == "" {
		return dao.Requirement{}, serr.New("name cannot be blank", serr.ErrBadArgument)
	}
	if formula == "" {
		return dao.Requirement{}, serr.New("formula cannot be blank", serr.ErrBadArgument)
	}

	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Requirement{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	daoReq, err := svc.DB.Requirements().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Requirement{}, serr.New("requirement not found", serr.ErrNotFound)
		}
		return dao.Requirement{}, serr.WrapDB("", err)
	}

	if daoReq.Name != name {
		_, err := svc.DB.Requirements().GetByName(ctx, name)
		if err == nil {
			return dao.Requirement{}, serr.New("a requirement with that name already exists", serr.ErrAlreadyExists)
		} else if !errors.Is(err, dao.ErrNotFound) {
			return dao.Requirement{}, serr.WrapDB("", err)
		}
	}

	compiled, err := svc.compile(formula, target)
	if err != nil {
		return dao.Requirement{}, err
	}

	daoReq.Name = name
	daoReq.Formula = formula
	daoReq.Target = target
	daoReq.Compiled = compiled

	updatedReq, err := svc.DB.Requirements().Update(ctx, uuidID, daoReq)
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.Requirement{}, serr.New("a requirement with that name already exists", serr.ErrAlreadyExists)
		} else if errors.Is(err, dao.ErrNotFound) {
			return dao.Requirement{}, serr.New("requirement not found", serr.ErrNotFound)
		}
		return dao.Requirement{}, serr.WrapDB("", err)
	}

	return updatedReq, nil
}

// CompileRequirement recompiles the stored formula of the requirement with
// the given ID for the given target and caches the resulting monitor spec on
// the requirement, replacing the previous artifact. Returns the requirement
// as it exists after recompilation.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no requirement with the
// given ID exists, it will match serr.ErrNotFound. If the formula does not
// compile for the target, it will match serr.ErrCompilation. If the error
// occured due to an unexpected problem with the DB, it will match serr.ErrDB.
// Finally, if one of the arguments is invalid, it will match
// serr.ErrBadArgument.
func (svc Service) CompileRequirement(ctx context.Context, id string, target trans.Target) (dao.Requirement, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Requirement{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	daoReq, err := svc.DB.Requirements().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Requirement{}, serr.New("requirement not found", serr.ErrNotFound)
		}
		return dao.Requirement{}, serr.WrapDB("", err)
	}

	compiled, err := svc.compile(daoReq.Formula, target)
	if err != nil {
		return dao.Requirement{}, err
	}

	daoReq.Target = target
	daoReq.Compiled = compiled

	updatedReq, err := svc.DB.Requirements().Update(ctx, uuidID, daoReq)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Requirement{}, serr.New("requirement not found", serr.ErrNotFound)
		}
		return dao.Requirement{}, serr.WrapDB("", err)
	}

	return updatedReq, nil
}

// DeleteRequirement deletes the requirement with the given ID. It returns the
// deleted requirement just after it was deleted.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no requirement with that
// ID exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if there
// is an issue with one of the arguments, it will match serr.ErrBadArgument.
func (svc Service) DeleteRequirement(ctx context.Context, id string) (dao.Requirement, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Requirement{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	req, err := svc.DB.Requirements().Delete(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Requirement{}, serr.ErrNotFound
		}
		return dao.Requirement{}, serr.WrapDB("could not delete requirement", err)
	}

	return req, nil
}

// compile builds the binary monitor spec for the formula against the
// service's declared signals. When the service has no declarations loaded,
// they are inferred from the formula's own signal references.
func (svc Service) compile(formula string, target trans.Target) ([]byte, error) {
	decls := svc.Decls
	if decls.Len() == 0 {
		ast, err := stl.Parse(formula)
		if err != nil {
			return nil, serr.New("", err, serr.ErrCompilation)
		}

		decls, err = trans.InferDecls(ast)
		if err != nil {
			return nil, serr.New("", err, serr.ErrCompilation)
		}
	}

	switch target {
	case trans.TargetLinear:
		spec, err := stl.CompileLinear(formula, decls)
		if err != nil {
			return nil, serr.New("", err, serr.ErrCompilation)
		}
		return spec.MarshalBinary()
	case trans.TargetTree:
		spec, err := stl.CompileTree(formula, decls)
		if err != nil {
			return nil, serr.New("", err, serr.ErrCompilation)
		}
		return spec.MarshalBinary()
	default:
		return nil, serr.New("unknown target", serr.ErrBadArgument)
	}
}
