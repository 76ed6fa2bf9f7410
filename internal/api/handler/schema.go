package handler

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/epicevents/crm/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// scalar accepts a JSON string, number or boolean and keeps its text, so
// amounts and counts reach the services unparsed. null reads as "".
type scalar string

func (s *scalar) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0:
		return fmt.Errorf("empty value")
	case b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = scalar(v)
	case bytes.Equal(b, []byte("null")):
		*s = ""
	case bytes.Equal(b, []byte("true")), bytes.Equal(b, []byte("false")):
		*s = scalar(b)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("expected a string, number or boolean")
		}
		*s = scalar(n.String())
	}
	return nil
}

func optScalar(o domain.Optional[scalar]) domain.Optional[string] {
	v, ok := o.Get()
	if !ok {
		return domain.None[string]()
	}
	return domain.Some(string(v))
}

// --- Auth ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	Account *domain.Account `json:"account"`
}

// --- Accounts ---

type createAccountRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required"`
}

type updateAccountRequest struct {
	Username domain.Optional[string] `json:"username"`
	Email    domain.Optional[string] `json:"email"`
	Password domain.Optional[string] `json:"password"`
	Role     domain.Optional[string] `json:"role"`
}

// --- Clients ---

type createClientRequest struct {
	FullName    string `json:"full_name"    validate:"required"`
	Email       string `json:"email"        validate:"required"`
	Phone       string `json:"phone"`
	CompanyName string `json:"company_name"`
}

type updateClientRequest struct {
	FullName    domain.Optional[string] `json:"full_name"`
	Email       domain.Optional[string] `json:"email"`
	Phone       domain.Optional[string] `json:"phone"`
	CompanyName domain.Optional[string] `json:"company_name"`
}

// --- Contracts ---

type createContractRequest struct {
	ClientID        int64  `json:"client_id"        validate:"required,gt=0"`
	TotalAmount     scalar `json:"total_amount"     validate:"required"`
	RemainingAmount scalar `json:"remaining_amount" validate:"required"`
}

type updateContractRequest struct {
	TotalAmount     domain.Optional[scalar] `json:"total_amount"`
	RemainingAmount domain.Optional[scalar] `json:"remaining_amount"`
	// Status accepts "signed"/"unsigned" or a boolean.
	Status domain.Optional[scalar] `json:"status"`
}

// --- Events ---

type createEventRequest struct {
	ContractID int64  `json:"contract_id" validate:"required,gt=0"`
	Start      string `json:"start"       validate:"required"`
	End        string `json:"end"         validate:"required"`
	Location   string `json:"location"`
	Attendees  scalar `json:"attendees"`
	Notes      string `json:"notes"`
}

type updateEventRequest struct {
	Start     domain.Optional[string] `json:"start"`
	End       domain.Optional[string] `json:"end"`
	Location  domain.Optional[string] `json:"location"`
	Attendees domain.Optional[scalar] `json:"attendees"`
	Notes     domain.Optional[string] `json:"notes"`
	// SupportContactID set to null unassigns the event.
	SupportContactID domain.Optional[*int64] `json:"support_contact_id"`
}
