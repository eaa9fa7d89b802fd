package ui

import (
	"strings"

	"pixlab/internal/api"
	"pixlab/internal/imagefile"
	"pixlab/internal/validate"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
)

// upscaleModel holds the upscaler form: an input file and a ratio.
type upscaleModel struct {
	path  textinput.Model
	ratio int
	busy  bool
}

func newUpscaleModel() upscaleModel {
	path := textinput.New()
	path.Prompt = "Image file: "
	path.Placeholder = "/path/to/image.png"
	return upscaleModel{path: path, ratio: 2}
}

func (m Model) updateUpscale(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.up.busy {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "ctrl+c" {
			return m.quit()
		}
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "ctrl+c":
			return m.quit()
		case "esc":
			m.scr = screenMenu
			m.err = ""
			return m, nil
		case "alt+r":
			if m.up.ratio == 2 {
				m.up.ratio = 4
			} else {
				m.up.ratio = 2
			}
			return m, nil
		case "enter":
			path := strings.TrimSpace(m.up.path.Value())
			if path == "" {
				// Local check, no network call.
				m.err = "select an image first"
				return m, nil
			}
			if err := validate.Ratio(m.up.ratio); err != nil {
				m.err = err.Error()
				return m, nil
			}
			m.err = ""
			m.notice = ""
			m.up.busy = true
			return m, upscaleCmd(m.client, m.fs, path, m.up.ratio, m.outDir)
		}
	}
	var cmd tea.Cmd
	m.up.path, cmd = m.up.path.Update(msg)
	return m, cmd
}

func (m Model) viewUpscale() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Upscale"))
	b.WriteString("\n\n")
	b.WriteString(m.up.path.View() + "\n")
	ratio := "2x"
	if m.up.ratio == 4 {
		ratio = "4x"
	}
	b.WriteString("Ratio: " + ratio + " (toggle with alt+r)\n\n")
	if m.up.busy {
		b.WriteString("upscaling...\n")
	} else {
		b.WriteString("enter=upscale  esc=menu\n")
	}
	return b.String()
}

func upscaleCmd(c *api.Client, fs afero.Fs, in string, ratio int, outDir string) tea.Cmd {
	return func() tea.Msg {
		data, err := afero.ReadFile(fs, in)
		if err != nil {
			return errMsg("cannot read " + in)
		}
		out, err := c.Upscale(data, ratio)
		if err != nil {
			return failure(err)
		}
		path, err := imagefile.Save(fs, outDir, imagefile.UpscaledName(in), out)
		if err != nil {
			return errMsg(err.Error())
		}
		return upscaledMsg(path)
	}
}
