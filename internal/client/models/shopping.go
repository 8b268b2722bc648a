package models

import "time"

const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

type Group struct {
	ID        int64      `json:"group_id"`
	Name      string     `json:"group_name"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type GroupMember struct {
	GroupID int64   `json:"group_id"`
	UserID  int64   `json:"user_id"`
	Role    *string `json:"role,omitempty"`
}

// UserGroup is a group as seen by one of its members.
type UserGroup struct {
	Group
	Role string `json:"role"`
}

// ShoppingList belongs to a group, to a single user, or to both.
type ShoppingList struct {
	ID        int64      `json:"list_id"`
	Name      string     `json:"list_name"`
	GroupID   *int64     `json:"group_id,omitempty"`
	UserID    *int64     `json:"user_id,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// ListItem always belongs to exactly one list.
type ListItem struct {
	ID          int64      `json:"item_id"`
	ListID      int64      `json:"list_id"`
	Name        string     `json:"item_name"`
	Description *string    `json:"item_description,omitempty"`
	Quantity    *int64     `json:"quantity,omitempty"`
	IsPurchased bool       `json:"is_purchased"`
	PurchasedBy *int64     `json:"purchased_by,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}
