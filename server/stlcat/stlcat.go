// Package stlcat has services for interacting with the STL catalog server
// backend decoupled from the API that accesses it.
package stlcat

import (
	"github.com/dekarrin/stlspec/server/dao"
	"github.com/dekarrin/stlspec/stl/trans"
)

// Service is a service for interacting with and modifying the STL catalog
// server backend. It performs the actions requested and makes calls to server
// persistence to preserve the backend state.
//
// The zero-value of Service is not ready to be used; assign a valid DAO store
// to DB and the signal declarations requirements are compiled against to
// Decls before attempting to use it.
type Service struct {

	// DB is the persistence store of the service.
	DB dao.Store

	// Decls is the set of declared signals that submitted requirement
	// formulas may refer to.
	Decls trans.Decls
}
