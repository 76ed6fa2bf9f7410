package domain

import "time"

// Event is an occasion organised for a signed contract.
type Event struct {
	ID         int64     `json:"id"`
	ContractID int64     `json:"contract_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Location   string    `json:"location,omitempty"`
	Attendees  int       `json:"attendees"`
	Notes      string    `json:"notes,omitempty"`
	// SupportContactID is nil while no support account is assigned.
	SupportContactID *int64 `json:"support_contact_id,omitempty"`
}

// Unassigned reports whether no support account handles the event.
func (e *Event) Unassigned() bool {
	return e.SupportContactID == nil
}

// AssignedTo reports whether the event is handled by the given account.
func (e *Event) AssignedTo(accountID int64) bool {
	return e.SupportContactID != nil && *e.SupportContactID == accountID
}
