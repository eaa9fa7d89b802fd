// Package upscale sends one image through the upscaler.
package upscale

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"

	"pixlab/internal/app"
	"pixlab/internal/imagefile"
	"pixlab/internal/validate"

	"github.com/spf13/afero"
)

func Run(args []string) error {
	fs := flag.NewFlagSet("upscale", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file path")
	in := fs.String("in", "", "input image file")
	ratio := fs.Int("ratio", 2, "upscale ratio (2 or 4)")
	out := fs.String("out", "", "output directory (default: next to the input)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errors.New("-in is required")
	}
	if err := validate.Ratio(*ratio); err != nil {
		return err
	}

	a, err := app.Load(app.Options{ConfigPath: *configPath})
	if err != nil {
		return err
	}
	defer a.Close()
	if _, err := a.RequireSession(); err != nil {
		return err
	}

	osFs := afero.NewOsFs()
	data, err := afero.ReadFile(osFs, *in)
	if err != nil {
		return err
	}
	result, err := a.Client.Upscale(data, *ratio)
	if err != nil {
		return err
	}

	dir := *out
	if dir == "" {
		dir = filepath.Dir(*in)
	}
	path, err := imagefile.Save(osFs, dir, imagefile.UpscaledName(*in), result)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
