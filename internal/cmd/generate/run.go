// Package generate runs a text-to-image job from the command line.
package generate

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"pixlab/internal/api"
	"pixlab/internal/app"
	"pixlab/internal/imagefile"
	"pixlab/internal/validate"

	"github.com/spf13/afero"
)

func Run(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file path")
	prompt := fs.String("prompt", "", "generation prompt")
	negative := fs.String("negative", "", "negative prompt")
	steps := fs.Int("steps", 20, "sampling steps (1-50)")
	width := fs.Int("width", 512, "image width (64-2048)")
	height := fs.Int("height", 512, "image height (64-2048)")
	count := fs.Int("count", 4, "batch count")
	size := fs.Int("size", 1, "batch size")
	cfg := fs.Int("cfg", 12, "CFG scale (1-30)")
	seed := fs.String("seed", "", "seed (empty = random)")
	out := fs.String("out", "", "output directory (default from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *prompt == "" {
		return errors.New("-prompt is required")
	}
	if err := validate.Generate(validate.GenerateBounds{
		SamplingSteps: *steps,
		Width:         *width,
		Height:        *height,
		BatchCount:    *count,
		BatchSize:     *size,
		CFGScale:      *cfg,
	}); err != nil {
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

	images, err := a.Client.Generate(api.GenerateRequest{
		Prompt:         *prompt,
		NegativePrompt: *negative,
		Settings: api.GenerateSettings{
			SamplingSteps: *steps,
			Width:         *width,
			Height:        *height,
			BatchCount:    *count,
			BatchSize:     *size,
			CFGScale:      *cfg,
			Seed:          *seed,
		},
	})
	if err != nil {
		return err
	}

	dir := *out
	if dir == "" {
		dir = a.Cfg.Output.Dir
	}
	osFs := afero.NewOsFs()
	now := time.Now()
	for i, data := range images {
		path, err := imagefile.Save(osFs, dir, imagefile.GeneratedName(now, i), data)
		if err != nil {
			return err
		}
		fmt.Println(path)
	}
	return nil
}
