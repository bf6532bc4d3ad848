package booking

import "github.com/iliyamo/hotel-reservation/internal/model"

// op names a guarded engine operation.  The permission table below is
// the single place role access is decided; transitions never compare
// role strings inline.
type op string

const (
	opCreate     op = "create a booking"
	opValidate   op = "validate a booking"
	opCheckIn    op = "check a booking in"
	opAddExtras  op = "add extras"
	opCheckOut   op = "check a booking out"
	opCancel     op = "cancel a booking"
	opRoomStatus op = "override room status"
)

// permitted is the closed role/operation matrix.  Absence means denied.
var permitted = map[op]map[model.Role]bool{
	opCreate: {
		model.RoleClient:       true,
		model.RoleReceptionist: true,
		model.RoleAdmin:        true,
	},
	opValidate: {
		model.RoleAdmin: true,
	},
	opCheckIn: {
		model.RoleReceptionist: true,
		model.RoleAdmin:        true,
	},
	opAddExtras: {
		model.RoleReceptionist: true,
		model.RoleAdmin:        true,
	},
	opCheckOut: {
		model.RoleReceptionist: true,
		model.RoleAdmin:        true,
	},
	opCancel: {
		model.RoleClient:       true,
		model.RoleReceptionist: true,
		model.RoleAdmin:        true,
	},
	opRoomStatus: {
		model.RoleReceptionist: true,
		model.RoleAdmin:        true,
	},
}

// requireRole checks the actor against the permission table.
func requireRole(actor model.Actor, operation op) error {
	if !permitted[operation][actor.Role] {
		return errForbidden(actor.Role, string(operation))
	}
	return nil
}
