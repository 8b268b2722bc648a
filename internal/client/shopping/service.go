// Package shopping manages groups, shopping lists and list items through
// the backend row API.
package shopping

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carTloyal123/shoppi/internal/client/client"
	"github.com/carTloyal123/shoppi/internal/client/models"
	"github.com/carTloyal123/shoppi/internal/logging"
)

const (
	tableGroups  = "groups"
	tableMembers = "group_members"
	tableLists   = "shopping_lists"
	tableItems   = "list_items"
)

var ErrNotFound = errors.New("not found")

type Service struct {
	rows   client.RowGateway
	logger logging.Logger
}

func New(rows client.RowGateway, l logging.Logger) *Service {
	return &Service{rows: rows, logger: l.With("module", "shopping")}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", client.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// AllGroups returns every group visible to the caller.
func (s *Service) AllGroups(ctx context.Context) ([]models.Group, error) {
	rows, err := s.rows.SelectEq(ctx, tableGroups, "", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch groups: %w", err)
	}
	return client.ScanRows[models.Group](rows)
}

// GroupsForUser returns the groups userID is a member of, with the role.
func (s *Service) GroupsForUser(ctx context.Context, userID int64) ([]models.UserGroup, error) {
	rows, err := s.rows.SelectEq(ctx, tableMembers, "user_id", userID)
	if err != nil {
		return nil, fmt.Errorf("fetch memberships: %w", err)
	}
	members, err := client.ScanRows[models.GroupMember](rows)
	if err != nil {
		return nil, err
	}

	out := make([]models.UserGroup, 0, len(members))
	for _, m := range members {
		grows, err := s.rows.SelectEq(ctx, tableGroups, "group_id", m.GroupID)
		if err != nil {
			return nil, fmt.Errorf("fetch group %d: %w", m.GroupID, err)
		}
		if len(grows) == 0 {
			s.logger.Warn(ctx, "membership points to missing group", "group_id", m.GroupID, "user_id", userID)
			continue
		}
		var g models.Group
		if err := client.ScanRow(grows[0], &g); err != nil {
			return nil, err
		}
		role := models.RoleMember
		if m.Role != nil && *m.Role != "" {
			role = *m.Role
		}
		out = append(out, models.UserGroup{Group: g, Role: role})
	}
	return out, nil
}

// CreateGroup creates a group and makes ownerID its owner. If the
// membership cannot be written the group is removed again.
func (s *Service) CreateGroup(ctx context.Context, name string, ownerID int64) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("group name is required")
	}

	row, err := s.rows.InsertReturning(ctx, tableGroups, client.Row{"group_name": name})
	if err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	var g models.Group
	if err := client.ScanRow(row, &g); err != nil {
		return nil, err
	}

	if err := s.AddMember(ctx, g.ID, ownerID, models.RoleOwner); err != nil {
		if derr := s.rows.DeleteEq(ctx, tableGroups, "group_id", g.ID); derr != nil {
			s.logger.Error(ctx, "failed to remove orphan group", "group_id", g.ID, "error", derr)
		}
		return nil, err
	}
	return &g, nil
}

func (s *Service) DeleteGroup(ctx context.Context, groupID int64) error {
	if groupID <= 0 {
		return invalid("group id must be positive")
	}
	if err := s.rows.DeleteEq(ctx, tableGroups, "group_id", groupID); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return nil
}

func (s *Service) AddMember(ctx context.Context, groupID, userID int64, role string) error {
	if groupID <= 0 || userID <= 0 {
		return invalid("group and user are required")
	}
	if role == "" {
		role = models.RoleMember
	}
	_, err := s.rows.InsertReturning(ctx, tableMembers, client.Row{
		"group_id": groupID,
		"user_id":  userID,
		"role":     role,
	})
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

func (s *Service) ListsForGroup(ctx context.Context, groupID int64) ([]models.ShoppingList, error) {
	rows, err := s.rows.SelectEq(ctx, tableLists, "group_id", groupID)
	if err != nil {
		return nil, fmt.Errorf("fetch lists: %w", err)
	}
	return client.ScanRows[models.ShoppingList](rows)
}

// PersonalLists returns the lists owned directly by userID.
func (s *Service) PersonalLists(ctx context.Context, userID int64) ([]models.ShoppingList, error) {
	rows, err := s.rows.SelectEq(ctx, tableLists, "user_id", userID)
	if err != nil {
		return nil, fmt.Errorf("fetch lists: %w", err)
	}
	return client.ScanRows[models.ShoppingList](rows)
}

// CreateList needs a group, an owning user, or both.
func (s *Service) CreateList(ctx context.Context, name string, groupID, ownerID *int64) (*models.ShoppingList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("list name is required")
	}
	if groupID == nil && ownerID == nil {
		return nil, invalid("list needs a group or an owner")
	}

	row := client.Row{"list_name": name}
	if groupID != nil {
		row["group_id"] = *groupID
	}
	if ownerID != nil {
		row["user_id"] = *ownerID
	}

	created, err := s.rows.InsertReturning(ctx, tableLists, row)
	if err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}
	var l models.ShoppingList
	if err := client.ScanRow(created, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// Items returns the items of listID. A non-positive id yields no items.
func (s *Service) Items(ctx context.Context, listID int64) ([]models.ListItem, error) {
	if listID <= 0 {
		s.logger.Debug(ctx, "no list id provided", "list_id", listID)
		return []models.ListItem{}, nil
	}
	rows, err := s.rows.SelectEq(ctx, tableItems, "list_id", listID)
	if err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}
	return client.ScanRows[models.ListItem](rows)
}

// AddItem appends an item to listID. Empty description and non-positive
// quantity are left unset.
func (s *Service) AddItem(ctx context.Context, listID int64, name, description string, quantity int64) (*models.ListItem, error) {
	name = strings.TrimSpace(name)
	if listID <= 0 {
		return nil, invalid("item needs a list")
	}
	if name == "" {
		return nil, invalid("item name is required")
	}

	row := client.Row{"list_id": listID, "item_name": name, "is_purchased": false}
	if d := strings.TrimSpace(description); d != "" {
		row["item_description"] = d
	}
	if quantity > 0 {
		row["quantity"] = quantity
	}

	created, err := s.rows.InsertReturning(ctx, tableItems, row)
	if err != nil {
		return nil, fmt.Errorf("add item: %w", err)
	}
	var it models.ListItem
	if err := client.ScanRow(created, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// SetPurchased marks itemID as purchased by byUserID, or clears the mark.
func (s *Service) SetPurchased(ctx context.Context, itemID int64, purchased bool, byUserID int64) (*models.ListItem, error) {
	changes := client.Row{"is_purchased": purchased, "purchased_by": nil}
	if purchased {
		changes["purchased_by"] = byUserID
	}

	rows, err := s.rows.UpdateEq(ctx, tableItems, "item_id", itemID, changes)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	var it models.ListItem
	if err := client.ScanRow(rows[0], &it); err != nil {
		return nil, err
	}
	return &it, nil
}
