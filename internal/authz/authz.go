// internal/authz/authz.go
package authz

import "fmt"

// Role is the closed set of portal roles. Every caller arrives with exactly
// one of these; there is no free-form role string anywhere past this package.
type Role string

const (
	RoleParkStaff  Role = "park-staff"
	RoleFinance    Role = "finance"
	RoleGovernment Role = "government"
	RoleAuditor    Role = "auditor"
	RoleAdmin      Role = "admin"
)

// ParseRole validates a stored or transmitted role value.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleParkStaff, RoleFinance, RoleGovernment, RoleAuditor, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Action is what an actor attempts against an entity.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionSubmit Action = "submit"
	ActionReview Action = "review"
)

// Entity is the governed entity kind an action targets.
type Entity string

const (
	EntityFundRequest       Entity = "fund-request"
	EntityExtraFundsRequest Entity = "extra-funds-request"
	EntityEmergencyRequest  Entity = "emergency-request"
	EntityBudget            Entity = "budget"
)

// Actor is the authenticated caller, passed explicitly into every lifecycle
// operation. ParkName is the actor's home park, which may differ from the
// park a request targets; both are kept for audit.
type Actor struct {
	UserID   uint
	Login    string
	Role     Role
	ParkName string
}

type grant struct {
	role   Role
	action Action
	entity Entity
}

// grants is the whole permission model. Roles absent from the table
// (auditor, admin) are read-only by construction.
var grants = map[grant]struct{}{
	{RoleParkStaff, ActionCreate, EntityFundRequest}: {},
	{RoleParkStaff, ActionUpdate, EntityFundRequest}: {},
	{RoleFinance, ActionReview, EntityFundRequest}:   {},

	{RoleFinance, ActionCreate, EntityExtraFundsRequest}:    {},
	{RoleFinance, ActionUpdate, EntityExtraFundsRequest}:    {},
	{RoleGovernment, ActionReview, EntityExtraFundsRequest}: {},

	{RoleFinance, ActionCreate, EntityEmergencyRequest}:    {},
	{RoleFinance, ActionUpdate, EntityEmergencyRequest}:    {},
	{RoleGovernment, ActionReview, EntityEmergencyRequest}: {},

	{RoleFinance, ActionCreate, EntityBudget}:    {},
	{RoleFinance, ActionUpdate, EntityBudget}:    {},
	{RoleFinance, ActionSubmit, EntityBudget}:    {},
	{RoleGovernment, ActionReview, EntityBudget}: {},
}

// Can reports whether role may perform action on entity.
func Can(role Role, action Action, entity Entity) bool {
	_, ok := grants[grant{role, action, entity}]
	return ok
}
