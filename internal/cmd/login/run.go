// Package login exchanges credentials for a session from the terminal.
package login

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"pixlab/internal/app"
	"pixlab/internal/session"

	"golang.org/x/term"
)

func Run(args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file path")
	username := fs.String("username", "", "account username")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return errors.New("-username is required")
	}

	a, err := app.Load(app.Options{ConfigPath: *configPath})
	if err != nil {
		return err
	}
	defer a.Close()

	password, err := readPassword()
	if err != nil {
		return err
	}

	id, err := a.Client.Login(*username, password)
	if err != nil {
		return err
	}
	// Saving the session arms the client's token via the store
	// subscription.
	if err := a.Store.Save(session.Session{
		Username: id.Username,
		IsAdmin:  id.IsAdmin,
		Credits:  id.Credits,
		Token:    id.Token,
	}); err != nil {
		return err
	}

	role := "user"
	if id.IsAdmin {
		role = "admin"
	}
	fmt.Printf("logged in as %s (%s, %d credits)\n", id.Username, role, id.Credits)
	return nil
}

// readPassword prompts without echo on a terminal and falls back to a
// plain stdin read otherwise (pipes, scripts).
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Password: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
