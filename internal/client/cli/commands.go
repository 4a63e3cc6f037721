package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophchat/internal/client/client"
	"github.com/dmitrijs2005/gophchat/internal/client/login"
	"github.com/dmitrijs2005/gophchat/internal/client/session"
	"github.com/dmitrijs2005/gophchat/internal/common"
)

var errLoginFailed = errors.New("login failed")

// Login prompts for credentials and signs in through the orchestrator.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	p := newConsolePresenter(a.out, "Signing in...")
	a.orch.Submit(ctx, p, username, string(password))

	var r loginResult
	select {
	case r = <-p.result:
	case <-ctx.Done():
		a.orch.Cancel()
		return ctx.Err()
	}

	if r.user == nil {
		fmt.Fprintf(a.out, "Login failed: %s\n", r.message)
		return fmt.Errorf("%w: %s", errLoginFailed, r.message)
	}

	a.setUser(r.user)
	fmt.Fprintf(a.out, "Welcome, %s!\n", displayName(r.user))
	return nil
}

// Resume signs in with the stored session token, if any. A token the
// server rejects, or a JWT that has already expired, is removed from the
// store.
func (a *App) Resume(ctx context.Context) (bool, error) {
	token, err := a.store.SessionToken(ctx)
	if errors.Is(err, session.ErrNoSession) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if session.TokenExpired(token, a.now()) {
		fmt.Fprintln(a.out, "Session expired, please log in.")
		return false, a.store.Clear(ctx)
	}

	fmt.Fprintln(a.out, "Restoring session...")
	u, err := a.orch.AutoLogin(ctx, token)
	if err != nil {
		if errors.Is(err, login.ErrSuperseded) {
			return false, nil
		}
		fmt.Fprintf(a.out, "Auto-login failed: %s\n", err.Error())
		if errors.Is(err, client.ErrUnauthorized) {
			a.logger.Info(ctx, "stored session rejected, clearing")
			return false, a.store.Clear(ctx)
		}
		return false, nil
	}

	a.setUser(u)
	fmt.Fprintf(a.out, "Welcome back, %s!\n", displayName(u))
	return true, nil
}

// Logout forgets the stored session and closes the messaging session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return err
	}
	if a.messaging != nil {
		a.messaging.Disconnect()
	}
	a.setUser(nil)
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	u, err := a.store.CurrentUser(ctx)
	if errors.Is(err, session.ErrNoSession) {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (id %s)\n", u.Username, u.ID)
	if u.Nickname != "" {
		fmt.Fprintf(a.out, "  nickname: %s\n", u.Nickname)
	}
	if u.Email != "" {
		fmt.Fprintf(a.out, "  email:    %s\n", u.Email)
	}
	return nil
}

func (a *App) Ping(ctx context.Context) error {
	if err := a.checkOnline(ctx); err != nil {
		fmt.Fprintf(a.out, "Server offline: %s\n", client.ErrorText(err))
		return err
	}
	fmt.Fprintln(a.out, "Server online.")
	return nil
}

// Contacts prints the roster synced after the last login.
func (a *App) Contacts(ctx context.Context) error {
	if a.contacts == nil {
		fmt.Fprintln(a.out, "Contacts are not available.")
		return nil
	}

	list, err := a.contacts.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No contacts.")
		return nil
	}
	for _, c := range list {
		if c.Nickname != "" {
			fmt.Fprintf(a.out, "%s (%s)\n", c.Username, c.Nickname)
			continue
		}
		fmt.Fprintln(a.out, c.Username)
	}
	return nil
}
