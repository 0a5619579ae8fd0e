// Package policy is the single place that decides which role may perform
// which operation. It is consulted before every ledger or catalog
// mutation and before every admin read.
package policy

import (
	"errors"

	"github.com/m4sterbait/GROUP-NI-RAMOS/model"
)

var (
	ErrAuthRequired = errors.New("login required")
	ErrForbidden    = errors.New("forbidden")
)

type Op string

const (
	OpBorrow       Op = "borrow"
	OpListOwnLoans Op = "list_own_loans"

	OpMarkReturned Op = "mark_returned"
	OpCatalogEdit  Op = "catalog_edit"
	OpListUsers    Op = "list_users"
	OpSummary      Op = "summary"
	OpListMessages Op = "list_messages"

	OpRegister      Op = "register"
	OpLogin         Op = "login"
	OpSearchCatalog Op = "search_catalog"
	OpContact       Op = "contact"
)

// Authorize returns nil when ident may perform op.
func Authorize(op Op, ident model.Identity) error {
	switch op {
	case OpRegister, OpLogin, OpSearchCatalog, OpContact:
		return nil
	case OpBorrow, OpListOwnLoans:
		if !ident.Authenticated() {
			return ErrAuthRequired
		}
		return nil
	case OpMarkReturned, OpCatalogEdit, OpListUsers, OpSummary, OpListMessages:
		if !ident.Authenticated() {
			return ErrAuthRequired
		}
		if !ident.IsAdmin() {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}
