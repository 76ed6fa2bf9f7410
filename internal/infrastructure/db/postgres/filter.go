package postgres

import (
	"strconv"
	"strings"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

// where accumulates AND-ed conditions with positional arguments.
type where struct {
	conds []string
	args  []any
}

// add appends cond, replacing each "?" with the next placeholder.
func (w *where) add(cond string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", "$"+strconv.Itoa(len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func contractWhere(f ports.ContractFilter) *where {
	w := &where{}
	if f.Signed != nil {
		status := domain.ContractUnsigned
		if *f.Signed {
			status = domain.ContractSigned
		}
		w.add("status = ?", string(status))
	}
	if f.Paid != nil {
		if *f.Paid {
			w.add("remaining_amount = 0")
		} else {
			w.add("remaining_amount > 0")
		}
	}
	return w
}

func eventWhere(f ports.EventFilter) *where {
	w := &where{}
	if f.UnassignedOnly {
		w.add("support_contact_id IS NULL")
	}
	if f.SupportContactID != nil {
		w.add("support_contact_id = ?", *f.SupportContactID)
	}
	return w
}
