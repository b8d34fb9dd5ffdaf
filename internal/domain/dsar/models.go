package dsar

import (
	"strings"
	"time"
)

type RequestType string

const (
	TypeAccess  RequestType = "access"
	TypeDelete  RequestType = "delete"
	TypeRectify RequestType = "rectify"
)

func ParseRequestType(raw string) (RequestType, bool) {
	switch RequestType(strings.ToLower(strings.TrimSpace(raw))) {
	case TypeAccess:
		return TypeAccess, true
	case TypeDelete:
		return TypeDelete, true
	case TypeRectify:
		return TypeRectify, true
	}
	return "", false
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusRejected   Status = "rejected"
)

func ParseStatus(raw string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, true
	case StatusInProgress:
		return StatusInProgress, true
	case StatusCompleted:
		return StatusCompleted, true
	case StatusRejected:
		return StatusRejected, true
	}
	return "", false
}

type Company struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contactEmail"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Request struct {
	ID                  string      `json:"id"`
	CompanyID           string      `json:"companyId"`
	RequesterEmail      string      `json:"requesterEmail"`
	RequesterName       string      `json:"requesterName"`
	RequestType         RequestType `json:"requestType"`
	RequestMessage      string      `json:"requestMessage,omitempty"`
	Status              Status      `json:"status"`
	ResponseDocumentRef string      `json:"responseDocumentRef,omitempty"`
	ResponseNotes       string      `json:"responseNotes,omitempty"`
	SubmittedAt         time.Time   `json:"submittedAt"`
	CompletedAt         *time.Time  `json:"completedAt,omitempty"`
}
