// Package users lists the service's accounts (admin only).
package users

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"pixlab/internal/app"
)

func Run(args []string) error {
	fs := flag.NewFlagSet("users", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := app.Load(app.Options{ConfigPath: *configPath})
	if err != nil {
		return err
	}
	defer a.Close()

	sess, err := a.RequireSession()
	if err != nil {
		return err
	}
	if !sess.IsAdmin {
		return errors.New("admin access required")
	}

	list, err := a.Client.ListUsers()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "USERNAME\tROLE\tCREDITS")
	for _, u := range list {
		role := "user"
		if u.IsAdmin {
			role = "admin"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\n", u.Username, role, u.Credits)
	}
	return w.Flush()
}
