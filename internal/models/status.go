package models

import "fmt"

// Status is the lifecycle state of a request. The set is closed; anything
// else is rejected at the API boundary before it can reach storage.
type Status string

const (
	StatusInQueue    Status = "in-queue"
	StatusInProgress Status = "in-progress"
	StatusInReview   Status = "in-review"
	StatusCompleted  Status = "completed"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusInQueue, StatusInProgress, StatusInReview, StatusCompleted:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Active reports whether the request counts against client capacity.
func (s Status) Active() bool {
	return s == StatusInProgress || s == StatusInReview
}

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool { return s == StatusCompleted }

// RequestType tags what kind of design work a request asks for.
type RequestType string

const (
	TypeBrand     RequestType = "brand"
	TypeSite      RequestType = "site"
	TypeDeck      RequestType = "deck"
	TypeProduct   RequestType = "product"
	TypeMarketing RequestType = "marketing"
	TypeMisc      RequestType = "misc"
)

// ParseRequestType maps an incoming tag to a known type. Empty defaults to
// misc; unknown tags are rejected.
func ParseRequestType(s string) (RequestType, error) {
	if s == "" {
		return TypeMisc, nil
	}
	switch RequestType(s) {
	case TypeBrand, TypeSite, TypeDeck, TypeProduct, TypeMarketing, TypeMisc:
		return RequestType(s), nil
	}
	return "", fmt.Errorf("unknown request type %q", s)
}

// Direction is a queue reorder direction.
type Direction string

const (
	DirUp   Direction = "up"
	DirDown Direction = "down"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirUp, DirDown:
		return Direction(s), nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}
