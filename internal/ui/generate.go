package ui

import (
	"strconv"
	"strings"
	"time"

	"pixlab/internal/api"
	"pixlab/internal/imagefile"
	"pixlab/internal/validate"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
)

// Generator form field order.
const (
	genPrompt = iota
	genNegative
	genSteps
	genWidth
	genHeight
	genBatchCount
	genBatchSize
	genCFG
	genSeed
	genFieldCount
)

var genLabels = [genFieldCount]string{
	"Prompt:          ",
	"Negative prompt: ",
	"Sampling steps:  ",
	"Width:           ",
	"Height:          ",
	"Batch count:     ",
	"Batch size:      ",
	"CFG scale:       ",
	"Seed:            ",
}

// generateModel holds the text-to-image form.
type generateModel struct {
	inputs [genFieldCount]textinput.Model
	focus  int
	busy   bool
}

func newGenerateModel() generateModel {
	g := generateModel{}
	defaults := [genFieldCount]string{"", "", "20", "512", "512", "4", "1", "12", ""}
	for i := range g.inputs {
		in := textinput.New()
		in.Prompt = genLabels[i]
		in.SetValue(defaults[i])
		g.inputs[i] = in
	}
	g.inputs[genPrompt].Placeholder = "a sunset over mountains"
	g.inputs[genSeed].Placeholder = "random"
	return g
}

func (g *generateModel) focusFirst() {
	for i := range g.inputs {
		g.inputs[i].Blur()
	}
	g.focus = genPrompt
	g.inputs[genPrompt].Focus()
}

func (g *generateModel) cycleFocus(back bool) {
	g.inputs[g.focus].Blur()
	if back {
		g.focus--
		if g.focus < 0 {
			g.focus = genFieldCount - 1
		}
	} else {
		g.focus = (g.focus + 1) % genFieldCount
	}
	g.inputs[g.focus].Focus()
}

func (g *generateModel) intField(i, fallback int) int {
	v := strings.TrimSpace(g.inputs[i].Value())
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}

func (m Model) updateGenerate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.gen.busy {
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
		case "tab":
			m.gen.cycleFocus(false)
			return m, nil
		case "shift+tab":
			m.gen.cycleFocus(true)
			return m, nil
		case "enter":
			return m.submitGenerate()
		}
	}
	var cmd tea.Cmd
	m.gen.inputs[m.gen.focus], cmd = m.gen.inputs[m.gen.focus].Update(msg)
	return m, cmd
}

func (m Model) submitGenerate() (tea.Model, tea.Cmd) {
	prompt := strings.TrimSpace(m.gen.inputs[genPrompt].Value())
	if prompt == "" {
		m.err = "a prompt is required"
		return m, nil
	}
	settings := api.GenerateSettings{
		SamplingSteps: m.gen.intField(genSteps, 20),
		Width:         m.gen.intField(genWidth, 512),
		Height:        m.gen.intField(genHeight, 512),
		BatchCount:    m.gen.intField(genBatchCount, 4),
		BatchSize:     m.gen.intField(genBatchSize, 1),
		CFGScale:      m.gen.intField(genCFG, 12),
		Seed:          strings.TrimSpace(m.gen.inputs[genSeed].Value()),
	}
	if err := validate.Generate(validate.GenerateBounds{
		SamplingSteps: settings.SamplingSteps,
		Width:         settings.Width,
		Height:        settings.Height,
		BatchCount:    settings.BatchCount,
		BatchSize:     settings.BatchSize,
		CFGScale:      settings.CFGScale,
	}); err != nil {
		m.err = err.Error()
		return m, nil
	}

	m.err = ""
	m.notice = ""
	m.gen.busy = true
	req := api.GenerateRequest{
		Prompt:         prompt,
		NegativePrompt: m.gen.inputs[genNegative].Value(),
		Settings:       settings,
	}
	return m, generateCmd(m.client, m.fs, m.outDir, req)
}

func (m Model) viewGenerate() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Generate"))
	b.WriteString("\n\n")
	for i := range m.gen.inputs {
		b.WriteString(m.gen.inputs[i].View() + "\n")
	}
	b.WriteString("\n")
	if m.gen.busy {
		b.WriteString("generating...\n")
	} else {
		b.WriteString("enter=generate  tab=next field  esc=menu\n")
	}
	return b.String()
}

// generateCmd runs the job and saves every returned image.
func generateCmd(c *api.Client, fs afero.Fs, dir string, req api.GenerateRequest) tea.Cmd {
	return func() tea.Msg {
		images, err := c.Generate(req)
		if err != nil {
			return failure(err)
		}
		now := time.Now()
		paths := make([]string, 0, len(images))
		for i, data := range images {
			path, err := imagefile.Save(fs, dir, imagefile.GeneratedName(now, i), data)
			if err != nil {
				return errMsg(err.Error())
			}
			paths = append(paths, path)
		}
		return generatedMsg(paths)
	}
}
