package api

import (
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/dekarrin/stlspec/server/dao"
	"github.com/dekarrin/stlspec/server/middle"
	"github.com/dekarrin/stlspec/server/result"
	"github.com/dekarrin/stlspec/server/serr"
	"github.com/dekarrin/stlspec/stl/trans"
)

func requirementToModel(r dao.Requirement) RequirementModel {
	return RequirementModel{
		URI:      PathPrefix + "/requirements/" + r.ID.String(),
		ID:       r.ID.String(),
		Name:     r.Name,
		Formula:  r.Formula,
		Target:   r.Target.String(),
		Compiled: base64.StdEncoding.EncodeToString(r.Compiled),
		Owner:    r.Owner.String(),
		Created:  r.Created.Format(time.RFC3339),
		Modified: r.Modified.Format(time.RFC3339),
	}
}

// canSubmit returns whether the user's role allows cataloging requirements.
func canSubmit(role dao.Role) bool {
	return role == dao.Normal || role == dao.Admin
}

// HTTPGetAllRequirements returns a HandlerFunc that retrieves all cataloged
// requirements. Auth is not required.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// a value denoting whether the client making the request is logged-in.
func (api API) HTTPGetAllRequirements() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllRequirements)
}

func (api API) epGetAllRequirements(req *http.Request) result.Result {
	loggedIn := req.Context().Value(middle.AuthLoggedIn).(bool)

	reqs, err := api.Backend.GetAllRequirements(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]RequirementModel, len(reqs))
	for i := range reqs {
		resp[i] = requirementToModel(reqs[i])
	}

	userStr := "unauthed client"
	if loggedIn {
		user := req.Context().Value(middle.AuthUser).(dao.User)
		userStr = "user '" + user.Username + "'"
	}

	return result.OK(resp, "%s got all requirements", userStr)
}

// HTTPGetRequirement returns a HandlerFunc that gets an existing cataloged
// requirement along with its compiled monitor spec. Auth is not required.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the requirement being retrieved.
func (api API) HTTPGetRequirement() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetRequirement)
}

func (api API) epGetRequirement(req *http.Request) result.Result {
	id := requireIDParam(req)

	reqInfo, err := api.Backend.GetRequirement(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		} else if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get requirement: " + err.Error())
	}

	resp := requirementToModel(reqInfo)

	return result.OK(resp, "client got requirement '%s'", reqInfo.Name)
}

// HTTPCreateRequirement returns a HandlerFunc that compiles a formula and
// stores it along with its compiled monitor spec as a new cataloged
// requirement. Only normal and admin users may catalog requirements.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the logged-in user of the client making the request.
func (api API) HTTPCreateRequirement() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateRequirement)
}

func (api API) epCreateRequirement(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	if !canSubmit(user.Role) {
		return result.Forbidden("user '%s' (role %s) creation of requirement: forbidden", user.Username, user.Role)
	}

	var createReq RequirementModel
	err := parseJSON(req, &createReq)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if createReq.Name == "" {
		return result.BadRequest("name: property is empty or missing from request", "empty name")
	}
	if createReq.Formula == "" {
		return result.BadRequest("formula: property is empty or missing from request", "empty formula")
	}

	target := trans.TargetTree
	if createReq.Target != "" {
		target, err = trans.ParseTarget(createReq.Target)
		if err != nil {
			return result.BadRequest("target: "+err.Error(), "target: %s", err.Error())
		}
	}

	newReq, err := api.Backend.CreateRequirement(req.Context(), createReq.Name, createReq.Formula, target, user.ID)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return result.Conflict("Requirement with that name already exists", "requirement '%s' already exists", createReq.Name)
		} else if errors.Is(err, serr.ErrCompilation) {
			return result.BadRequest(err.Error(), "formula does not compile: %s", err.Error())
		} else if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp := requirementToModel(newReq)

	return result.Created(resp, "user '%s' cataloged requirement '%s' (%s)", user.Username, resp.Name, resp.ID)
}

// HTTPUpdateRequirement returns a HandlerFunc that updates an existing
// cataloged requirement, recompiling its formula. The owner of a requirement
// may update it; only an admin user may update requirements owned by others.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the requirement being operated on and the logged-in user of the
// client making the request.
func (api API) HTTPUpdateRequirement() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epUpdateRequirement)
}

func (api API) epUpdateRequirement(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	existing, err := api.Backend.GetRequirement(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	if existing.Owner != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) update of requirement '%s': forbidden", user.Username, user.Role, existing.Name)
	}

	var updateReq RequirementModel
	err = parseJSON(req, &updateReq)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	newName := existing.Name
	if updateReq.Name != "" {
		newName = updateReq.Name
	}
	newFormula := existing.Formula
	if updateReq.Formula != "" {
		newFormula = updateReq.Formula
	}
	newTarget := existing.Target
	if updateReq.Target != "" {
		newTarget, err = trans.ParseTarget(updateReq.Target)
		if err != nil {
			return result.BadRequest("target: "+err.Error(), "target: %s", err.Error())
		}
	}

	updated, err := api.Backend.UpdateRequirement(req.Context(), id.String(), newName, newFormula, newTarget)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return result.Conflict(err.Error(), err.Error())
		} else if errors.Is(err, serr.ErrCompilation) {
			return result.BadRequest(err.Error(), "formula does not compile: %s", err.Error())
		} else if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		} else if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp := requirementToModel(updated)

	return result.Created(resp, "user '%s' updated requirement '%s' (%s)", user.Username, resp.Name, resp.ID)
}

// HTTPCreateCompilation returns a HandlerFunc that recompiles the stored
// formula of a cataloged requirement and returns the requirement with the
// fresh compiled monitor spec, which also replaces the cached one. The owner
// of a requirement may recompile it; only an admin user may recompile
// requirements owned by others.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the requirement being operated on and the logged-in user of the
// client making the request.
func (api API) HTTPCreateCompilation() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateCompilation)
}

func (api API) epCreateCompilation(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	existing, err := api.Backend.GetRequirement(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	if existing.Owner != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) compilation of requirement '%s': forbidden", user.Username, user.Role, existing.Name)
	}

	target := existing.Target
	if req.ContentLength > 0 {
		var compileReq CompilationRequest
		err = parseJSON(req, &compileReq)
		if err != nil {
			return result.BadRequest(err.Error(), err.Error())
		}
		if compileReq.Target != "" {
			target, err = trans.ParseTarget(compileReq.Target)
			if err != nil {
				return result.BadRequest("target: "+err.Error(), "target: %s", err.Error())
			}
		}
	}

	compiled, err := api.Backend.CompileRequirement(req.Context(), id.String(), target)
	if err != nil {
		if errors.Is(err, serr.ErrCompilation) {
			return result.BadRequest(err.Error(), "formula does not compile: %s", err.Error())
		} else if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		} else if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp := requirementToModel(compiled)

	return result.Created(resp, "user '%s' compiled requirement '%s' for %s target", user.Username, compiled.Name, compiled.Target)
}

// HTTPDeleteRequirement returns a HandlerFunc that deletes a cataloged
// requirement. The owner of a requirement may delete it; only an admin user
// may delete requirements owned by others.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the requirement being deleted and the logged-in user of the client
// making the request.
func (api API) HTTPDeleteRequirement() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteRequirement)
}

func (api API) epDeleteRequirement(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	existing, err := api.Backend.GetRequirement(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	if existing.Owner != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) delete of requirement '%s': forbidden", user.Username, user.Role, existing.Name)
	}

	deleted, err := api.Backend.DeleteRequirement(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		} else if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError("could not delete requirement: " + err.Error())
	}

	return result.NoContent("user '%s' successfully deleted requirement '%s'", user.Username, deleted.Name)
}
