package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/carTloyal123/shoppi/internal/common"
)

func (a *App) readCredentials() (email, password string, err error) {
	email, err = GetSimpleText(a.reader, "Email:", a.out)
	if err != nil {
		return "", "", err
	}
	pw, err := GetPassword(a.out)
	if err != nil {
		return "", "", err
	}
	password = string(pw)
	common.WipeByteArray(pw)
	return email, password, nil
}

func (a *App) signUp(ctx context.Context, _ []string) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	username, err := GetSimpleText(a.reader, "Username:", a.out)
	if err != nil {
		return err
	}

	u, err := a.session.SignUp(ctx, email, username, password)
	if err != nil {
		return err
	}
	a.printf("Welcome, %s!\n", u.Username)
	return nil
}

func (a *App) signIn(ctx context.Context, _ []string) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}

	u, err := a.session.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	a.printf("Signed in as %s\n", u.Username)
	return nil
}

func (a *App) logout(ctx context.Context, _ []string) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.println("Signed out")
	return nil
}

func (a *App) whoami(_ context.Context, _ []string) error {
	sess, state := a.session.Current()
	if sess == nil {
		a.println("Not signed in", fmt.Sprintf("(%s)", state))
		return nil
	}
	a.printf("%s <%s> id=%d since %s\n",
		sess.User.Username, sess.User.Email, sess.User.ID, sess.SavedAt.Local().Format("2006-01-02 15:04"))
	return nil
}

func (a *App) rename(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	u, err := a.session.UpdateUsername(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	a.printf("Username changed to %s\n", u.Username)
	return nil
}
