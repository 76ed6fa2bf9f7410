package domain

import "time"

// Client is a customer owned by exactly one commercial account.
type Client struct {
	ID                 int64     `json:"id"`
	FullName           string    `json:"full_name"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone,omitempty"`
	CompanyName        string    `json:"company_name,omitempty"`
	CreationDate       time.Time `json:"creation_date"`
	LastContactDate    time.Time `json:"last_contact_date"`
	OwningCommercialID int64     `json:"owning_commercial_id"`
}

// OwnedBy reports whether the client belongs to the given commercial.
func (c *Client) OwnedBy(accountID int64) bool {
	return c.OwningCommercialID == accountID
}
