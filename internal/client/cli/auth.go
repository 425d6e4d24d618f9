package cli

import (
	"context"
	"fmt"
)

func (a *App) SignUp(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return a.report(err)
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return a.report(err)
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return a.report(err)
	}

	acc, err := a.api.SignUp(ctx, username, email, password)
	if err != nil {
		return a.report(err)
	}

	a.userName = acc.Username
	fmt.Fprintf(a.out, "Welcome, %s!\n", acc.Username)
	return nil
}

func (a *App) SignIn(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return a.report(err)
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return a.report(err)
	}

	acc, err := a.api.SignIn(ctx, email, password)
	if err != nil {
		return a.report(err)
	}

	a.userName = acc.Username
	fmt.Fprintf(a.out, "Signed in as %s\n", acc.Username)
	return nil
}

func (a *App) SignOut(ctx context.Context) error {
	if err := a.api.SignOut(ctx); err != nil {
		return a.report(err)
	}
	a.userName = ""
	fmt.Fprintln(a.out, "Signed out")
	return nil
}
