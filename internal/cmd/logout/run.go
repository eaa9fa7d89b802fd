// Package logout drops the stored session.
package logout

import (
	"flag"
	"fmt"

	"pixlab/internal/app"
)

func Run(args []string) error {
	fs := flag.NewFlagSet("logout", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := app.Load(app.Options{ConfigPath: *configPath})
	if err != nil {
		return err
	}
	defer a.Close()

	// Tell the server when possible, but the local session goes away
	// no matter what.
	if _, ok := a.Store.Load(); ok {
		if _, err := a.RequireSession(); err == nil {
			if err := a.Client.Logout(); err != nil {
				a.Log.Warn("server logout failed", "err", err)
			}
		}
	}
	if err := a.Store.Clear(); err != nil {
		return err
	}
	fmt.Println("logged out")
	return nil
}
