// Package inmem provides an entirely in-memory implementation of the dao
// store. Nothing is persisted to disk; all data is lost when the process
// exits.
package inmem

import (
	"fmt"

	"github.com/dekarrin/stlspec/server/dao"
)

type store struct {
	users *UsersRepository
	reqs  *RequirementsRepository
}

func NewDatastore() dao.Store {
	return &store{
		users: NewUsersRepository(),
		reqs:  NewRequirementsRepository(),
	}
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) Requirements() dao.RequirementRepository {
	return s.reqs
}

func (s *store) Close() error {
	var err error

	if nextErr := s.users.Close(); nextErr != nil {
		err = nextErr
	}
	if nextErr := s.reqs.Close(); nextErr != nil {
		if err != nil {
			err = fmt.Errorf("%s\nadditionally, %w", err, nextErr)
		} else {
			err = nextErr
		}
	}

	return err
}
