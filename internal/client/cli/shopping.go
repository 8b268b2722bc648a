package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
)

func (a *App) groups(ctx context.Context, args []string) error {
	u, err := a.currentUser()
	if err != nil {
		return err
	}
	if len(args) == 1 && args[0] == "all" {
		return a.allGroups(ctx)
	}
	if len(args) > 0 {
		return errUsage
	}

	groups, err := a.shopping.GroupsForUser(ctx, u.ID)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		a.println("No groups yet")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, g := range groups {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", g.ID, g.Name, g.Role)
	}
	return tw.Flush()
}

// allGroups lists every group the backend lets the caller see, member or not.
func (a *App) allGroups(ctx context.Context) error {
	groups, err := a.shopping.AllGroups(ctx)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		a.println("No groups yet")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, g := range groups {
		fmt.Fprintf(tw, "%d\t%s\n", g.ID, g.Name)
	}
	return tw.Flush()
}

func (a *App) addGroup(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	u, err := a.currentUser()
	if err != nil {
		return err
	}
	g, err := a.shopping.CreateGroup(ctx, strings.Join(args, " "), u.ID)
	if err != nil {
		return err
	}
	a.printf("Created group %q (id %d)\n", g.Name, g.ID)
	return nil
}

func (a *App) deleteGroup(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if _, err := a.currentUser(); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := a.shopping.DeleteGroup(ctx, id); err != nil {
		return err
	}
	a.println("Group deleted")
	return nil
}

func (a *App) lists(ctx context.Context, args []string) error {
	u, err := a.currentUser()
	if err != nil {
		return err
	}

	var lists []listRow
	switch len(args) {
	case 0:
		ls, err := a.shopping.PersonalLists(ctx, u.ID)
		if err != nil {
			return err
		}
		for _, l := range ls {
			lists = append(lists, listRow{l.ID, l.Name})
		}
	case 1:
		gid, err := parseID(args[0])
		if err != nil {
			return err
		}
		ls, err := a.shopping.ListsForGroup(ctx, gid)
		if err != nil {
			return err
		}
		for _, l := range ls {
			lists = append(lists, listRow{l.ID, l.Name})
		}
	default:
		return errUsage
	}

	if len(lists) == 0 {
		a.println("No lists")
		return nil
	}
	for _, l := range lists {
		a.printf("%d\t%s\n", l.id, l.name)
	}
	return nil
}

type listRow struct {
	id   int64
	name string
}

func (a *App) addList(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	u, err := a.currentUser()
	if err != nil {
		return err
	}

	var groupID *int64
	name := args
	if len(args) > 1 {
		if gid, err := parseID(args[len(args)-1]); err == nil {
			groupID = &gid
			name = args[:len(args)-1]
		}
	}

	ownerID := &u.ID
	if groupID != nil {
		ownerID = nil
	}
	l, err := a.shopping.CreateList(ctx, strings.Join(name, " "), groupID, ownerID)
	if err != nil {
		return err
	}
	a.printf("Created list %q (id %d)\n", l.Name, l.ID)
	return nil
}

func (a *App) items(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if _, err := a.currentUser(); err != nil {
		return err
	}
	listID, err := parseID(args[0])
	if err != nil {
		return err
	}
	items, err := a.shopping.Items(ctx, listID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		a.println("List is empty")
		return nil
	}

	for _, it := range items {
		mark := "[ ]"
		if it.IsPurchased {
			mark = "[x]"
		}
		qty := int64(1)
		if it.Quantity != nil {
			qty = *it.Quantity
		}
		a.printf("%d %s %s x%d\n", it.ID, mark, it.Name, qty)
	}
	return nil
}

func (a *App) addItem(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	if _, err := a.currentUser(); err != nil {
		return err
	}
	listID, err := parseID(args[0])
	if err != nil {
		return err
	}

	desc, err := GetSimpleText(a.reader, "Description (optional):", a.out)
	if err != nil {
		return err
	}
	it, err := a.shopping.AddItem(ctx, listID, strings.Join(args[1:], " "), desc, 1)
	if err != nil {
		return err
	}
	a.printf("Added %q (id %d)\n", it.Name, it.ID)
	return nil
}

// purchase marks an item as bought, or not bought with "undo".
func (a *App) purchase(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errUsage
	}
	u, err := a.currentUser()
	if err != nil {
		return err
	}
	itemID, err := parseID(args[0])
	if err != nil {
		return err
	}

	purchased := true
	if len(args) == 2 && args[1] == "undo" {
		purchased = false
	}
	it, err := a.shopping.SetPurchased(ctx, itemID, purchased, u.ID)
	if err != nil {
		return err
	}
	if it.IsPurchased {
		a.printf("Marked %q as purchased\n", it.Name)
	} else {
		a.printf("Marked %q as not purchased\n", it.Name)
	}
	return nil
}
