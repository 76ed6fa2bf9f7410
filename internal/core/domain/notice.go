package domain

import "time"

// Severity grades a notice for the logging collaborator.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// NoticeKind names the state change a notice describes.
type NoticeKind string

const (
	NoticeAccountCreated NoticeKind = "account_created"
	NoticeAccountUpdated NoticeKind = "account_updated"
	NoticeAccountDeleted NoticeKind = "account_deleted"
	NoticeContractSigned NoticeKind = "contract_signed"
)

// Notice is a notable state change emitted after it has been committed.
type Notice struct {
	Kind       NoticeKind `json:"kind"`
	Message    string     `json:"message"`
	Severity   Severity   `json:"severity"`
	ActorID    int64      `json:"actor_id"`
	SubjectID  int64      `json:"subject_id"`
	OccurredAt time.Time  `json:"occurred_at"`
}
