package cli

import (
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophchat/internal/client/models"
)

type loginResult struct {
	user    *models.User
	message string
}

// consolePresenter prints progress and hands the terminal outcome to the
// waiting command through result.
type consolePresenter struct {
	out      io.Writer
	progress string
	result   chan loginResult
}

func newConsolePresenter(out io.Writer, progress string) *consolePresenter {
	return &consolePresenter{out: out, progress: progress, result: make(chan loginResult, 1)}
}

func (p *consolePresenter) ShowProgress() {
	fmt.Fprintln(p.out, p.progress)
}

func (p *consolePresenter) DismissProgress() {}

func (p *consolePresenter) LoginSuccess(u *models.User) {
	p.result <- loginResult{user: u}
}

func (p *consolePresenter) LoginError(message string) {
	p.result <- loginResult{message: message}
}

func displayName(u *models.User) string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Username
}
