package auth

import "github.com/spec-kit/account-service/internal/domain"

// Operation identifies a guarded account operation.
type Operation string

const (
	OpCreateUser Operation = "create_user"
	OpListUsers  Operation = "list_users"
	OpGetUser    Operation = "get_user"
	OpUpdateUser Operation = "update_user"
	OpDeleteUser Operation = "delete_user"
	OpListBids   Operation = "list_bids"
)

// grants maps each operation to the roles that may perform it on any
// target. list_users is open to every role; the service shapes the result
// for non-privileged callers instead of denying the call.
var grants = map[Operation]map[domain.Role]struct{}{
	OpCreateUser: {domain.RoleAdmin: {}, domain.RoleStaff: {}},
	OpListUsers:  {domain.RoleAdmin: {}, domain.RoleStaff: {}, domain.RoleCustomer: {}},
	OpGetUser:    {domain.RoleAdmin: {}, domain.RoleStaff: {}},
	OpUpdateUser: {domain.RoleAdmin: {}, domain.RoleStaff: {}},
	OpDeleteUser: {domain.RoleAdmin: {}, domain.RoleStaff: {}},
	OpListBids:   {domain.RoleAdmin: {}, domain.RoleStaff: {}},
}

// ownerOps are operations any caller may perform on their own record.
var ownerOps = map[Operation]struct{}{
	OpGetUser:    {},
	OpUpdateUser: {},
	OpDeleteUser: {},
	OpListBids:   {},
}

// Allowed decides whether a caller with the given role may perform op,
// considering whether the target is the caller's own record.
func Allowed(role domain.Role, op Operation, isSelf bool) bool {
	if _, ok := grants[op][role]; ok {
		return true
	}
	if !isSelf {
		return false
	}
	_, ok := ownerOps[op]
	return ok
}

// Privileged reports whether the role sees all records.
func Privileged(role domain.Role) bool {
	return role == domain.RoleAdmin || role == domain.RoleStaff
}
