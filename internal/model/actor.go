package model

// Role names the closed set of actor roles known to the engine.  The
// values correspond to the role claim the calling layer resolves
// during authentication; the engine only dispatches on them.
type Role string

const (
	RoleClient       Role = "CLIENT"       // guests creating and cancelling their own bookings
	RoleReceptionist Role = "RECEPTIONIST" // front-desk staff handling check-in/check-out
	RoleAdmin        Role = "ADMIN"        // full control, including validation and overrides
)

// Actor identifies the party requesting a state change.  It is supplied
// by the caller on every mutating operation; the engine trusts the
// identity and enforces only the role guards.
type Actor struct {
	ID   uint64 // users.id in the owning system
	Role Role   // one of the Role constants above
}
