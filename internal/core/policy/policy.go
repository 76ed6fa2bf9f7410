// Package policy decides whether an identity may perform an operation on a
// record. There is one function per (entity, operation) pair; each returns
// nil to allow, or an error wrapping domain.ErrNotAuthenticated,
// domain.ErrForbidden or domain.ErrInvalidState to deny.
//
// Functions taking a target accept nil, in which case only the role gate is
// evaluated. Services call them once with nil before loading anything and
// again with the loaded records.
package policy

import (
	"fmt"

	"github.com/epicevents/crm/internal/core/domain"
)

func deny(reason string) error {
	return fmt.Errorf("%w: %s", domain.ErrForbidden, reason)
}

func unknownRole(r domain.Role) error {
	return deny(fmt.Sprintf("unknown role %q", r))
}

// Authenticated rejects a missing identity. It runs before every other rule.
func Authenticated(actor *domain.Identity) error {
	if actor == nil {
		return domain.ErrNotAuthenticated
	}
	return nil
}

// CanList allows any authenticated identity to read every collection.
func CanList(actor *domain.Identity) error {
	if err := Authenticated(actor); err != nil {
		return err
	}
	switch actor.Role {
	case domain.RoleManagement, domain.RoleCommercial, domain.RoleSupport:
		return nil
	default:
		return unknownRole(actor.Role)
	}
}

// CanManageAccounts covers account creation, update and deletion.
func CanManageAccounts(actor *domain.Identity) error {
	if err := Authenticated(actor); err != nil {
		return err
	}
	switch actor.Role {
	case domain.RoleManagement:
		return nil
	case domain.RoleCommercial, domain.RoleSupport:
		return deny("only management may manage accounts")
	default:
		return unknownRole(actor.Role)
	}
}

// CanCreateClient allows commercials only; the new client will be theirs.
func CanCreateClient(actor *domain.Identity) error {
	if err := Authenticated(actor); err != nil {
		return err
	}
	switch actor.Role {
	case domain.RoleCommercial:
		return nil
	case domain.RoleManagement, domain.RoleSupport:
		return deny("only commercials may create clients")
	default:
		return unknownRole(actor.Role)
	}
}

// CanUpdateClient allows the owning commercial only.
func CanUpdateClient(actor *domain.Identity, client *domain.Client) error {
	if err := Authenticated(actor); err != nil {
		return err
	}
	switch actor.Role {
	case domain.RoleCommercial:
		if client != nil && !client.OwnedBy(actor.AccountID) {
			return deny("you may only update your own clients")
		}
		return nil
	case domain.RoleManagement, domain.RoleSupport:
		return deny("only commercials may update clients")
	default:
		return unknownRole(actor.Role)
	}
}

// CanCreateContract allows management only.
func CanCreateContract(actor *domain.Identity) error {
	if err := Authenticated(actor); err != nil {
		return err
	}
	switch actor.Role {
	case domain.RoleManagement:
		return nil
	case domain.RoleCommercial, domain.RoleSupport:
		return deny("only management may create contracts")
	default:
		return unknownRole(actor.Role)
	}
}

// CanUpdateContract allows management, or the commercial owning the client
// the contract belongs to.
func CanUpdateContract(actor *domain.Identity, client *domain.Client) error {
	if err := Authenticated(actor); err != nil {
		return err
	}
	switch actor.Role {
	case domain.RoleManagement:
		return nil
	case domain.RoleCommercial:
		if client != nil && !client.OwnedBy(actor.AccountID) {
			return deny("you are neither management nor the commercial in charge of this client")
		}
		return nil
	case domain.RoleSupport:
		return deny("support may not update contracts")
	default:
		return unknownRole(actor.Role)
	}
}

// CanCreateEvent allows a commercial to schedule an event on a signed
// contract of one of their own clients. An unsigned contract is reported as
// ErrInvalidState before ownership is considered.
func CanCreateEvent(actor *domain.Identity, contract *domain.Contract, client *domain.Client) error {
	if err := Authenticated(actor); err != nil {
		return err
	}
	switch actor.Role {
	case domain.RoleCommercial:
	case domain.RoleManagement, domain.RoleSupport:
		return deny("only commercials may create events")
	default:
		return unknownRole(actor.Role)
	}

	if contract != nil && !contract.Signed() {
		return fmt.Errorf("%w: contract %d is not signed", domain.ErrInvalidState, contract.ID)
	}
	if client != nil && !client.OwnedBy(actor.AccountID) {
		return deny("you may only create events for your own clients")
	}
	return nil
}

// CanUpdateEvent allows management unconditionally and support on the
// events assigned to them. Commercials are always denied, even on events of
// their own clients.
func CanUpdateEvent(actor *domain.Identity, event *domain.Event) error {
	if err := Authenticated(actor); err != nil {
		return err
	}
	switch actor.Role {
	case domain.RoleManagement:
		return nil
	case domain.RoleSupport:
		if event != nil && !event.AssignedTo(actor.AccountID) {
			return deny("you may only update events assigned to you")
		}
		return nil
	case domain.RoleCommercial:
		return deny("commercials may not update events")
	default:
		return unknownRole(actor.Role)
	}
}

// CanAssignSupport allows management only to change an event's support
// contact.
func CanAssignSupport(actor *domain.Identity) error {
	if err := Authenticated(actor); err != nil {
		return err
	}
	switch actor.Role {
	case domain.RoleManagement:
		return nil
	case domain.RoleCommercial, domain.RoleSupport:
		return deny("only management may assign a support contact")
	default:
		return unknownRole(actor.Role)
	}
}
