package ui

import (
	"strings"
	"sync"

	"pixlab/internal/api"
	"pixlab/internal/imagefile"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
)

// galleryEntry pairs an image record with its fetched payload.
type galleryEntry struct {
	api.Image
	Data    []byte
	DataErr string
}

type galleryItem galleryEntry

func (g galleryItem) Title() string { return g.Prompt }
func (g galleryItem) Description() string {
	if g.DataErr != "" {
		return g.CreatedAt + " (payload unavailable)"
	}
	return g.CreatedAt
}
func (g galleryItem) FilterValue() string { return g.Prompt }

// galleryModel shows the user's images. After a delete, the local list
// is authoritative: the entry is removed by id, no refetch.
type galleryModel struct {
	loading    bool
	confirming bool
	target     int64
	entries    []galleryEntry
	lst        list.Model
}

func newGalleryModel() galleryModel {
	lst := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	lst.Title = "Gallery"
	lst.SetShowHelp(false)
	return galleryModel{lst: lst}
}

func (g *galleryModel) setEntries(entries []galleryEntry) {
	g.entries = entries
	g.loading = false
	g.confirming = false
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, galleryItem(e))
	}
	g.lst.SetItems(items)
}

func (g *galleryModel) removeByID(id int64) {
	kept := g.entries[:0]
	for _, e := range g.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	g.entries = kept
	g.confirming = false
	items := make([]list.Item, 0, len(kept))
	for _, e := range kept {
		items = append(items, galleryItem(e))
	}
	g.lst.SetItems(items)
}

func (g *galleryModel) selected() (galleryEntry, bool) {
	it, ok := g.lst.SelectedItem().(galleryItem)
	if !ok {
		return galleryEntry{}, false
	}
	return galleryEntry(it), true
}

func (m Model) updateGallery(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		if m.gallery.confirming {
			switch k.String() {
			case "y":
				m.err = ""
				return m, deleteImageCmd(m.client, m.gallery.target)
			case "n", "esc":
				m.gallery.confirming = false
				return m, nil
			}
			return m, nil
		}
		switch k.String() {
		case "ctrl+c":
			return m.quit()
		case "esc":
			m.scr = screenMenu
			m.err = ""
			return m, nil
		case "r":
			m.gallery.loading = true
			return m, fetchGalleryCmd(m.client, m.sess.Username)
		case "d":
			e, ok := m.gallery.selected()
			if !ok {
				return m, nil
			}
			m.gallery.confirming = true
			m.gallery.target = e.ID
			return m, nil
		case "s":
			e, ok := m.gallery.selected()
			if !ok {
				return m, nil
			}
			if e.DataErr != "" {
				m.err = e.DataErr
				return m, nil
			}
			return m, downloadCmd(m.fs, m.outDir, e)
		}
	}
	var cmd tea.Cmd
	m.gallery.lst, cmd = m.gallery.lst.Update(msg)
	return m, cmd
}

func (m Model) viewGallery() string {
	var b strings.Builder
	switch {
	case m.gallery.loading:
		b.WriteString(titleStyle.Render("Gallery"))
		b.WriteString("\n\nloading images...\n")
	case len(m.gallery.entries) == 0 && m.err != "":
		// A failed fetch is not an empty gallery.
		b.WriteString(titleStyle.Render("Gallery"))
		b.WriteString("\n\nr=retry  esc=menu\n")
	case len(m.gallery.entries) == 0:
		b.WriteString(titleStyle.Render("Gallery"))
		b.WriteString("\n\nno images yet, generate some first\n")
		b.WriteString("\nesc=menu\n")
	case m.gallery.confirming:
		b.WriteString(titleStyle.Render("Gallery"))
		b.WriteString("\n\nDelete this image? y=yes n=no\n")
	default:
		b.WriteString(m.gallery.lst.View())
		b.WriteString("\ns=save to disk  d=delete  r=refresh  esc=menu\n")
	}
	return b.String()
}

// fetchGalleryCmd fetches the image list, then every payload without
// waiting on each other, and joins the results in list order.
func fetchGalleryCmd(c *api.Client, username string) tea.Cmd {
	return func() tea.Msg {
		imgs, err := c.ListImages(username)
		if err != nil {
			return failure(err)
		}
		entries := make([]galleryEntry, len(imgs))
		var wg sync.WaitGroup
		for i, img := range imgs {
			wg.Add(1)
			go func(i int, img api.Image) {
				defer wg.Done()
				data, err := c.ImageData(img.ID)
				e := galleryEntry{Image: img, Data: data}
				if err != nil {
					e.Data = nil
					e.DataErr = friendly(err)
				}
				entries[i] = e
			}(i, img)
		}
		wg.Wait()
		return galleryMsg(entries)
	}
}

func deleteImageCmd(c *api.Client, id int64) tea.Cmd {
	return func() tea.Msg {
		if err := c.DeleteImage(id); err != nil {
			return failure(err)
		}
		return imageDeletedMsg(id)
	}
}

// downloadCmd writes the already-fetched payload to the output dir; no
// extra server round trip.
func downloadCmd(fs afero.Fs, dir string, e galleryEntry) tea.Cmd {
	return func() tea.Msg {
		path, err := imagefile.Save(fs, dir, imagefile.DownloadName(e.ID), e.Data)
		if err != nil {
			return errMsg(err.Error())
		}
		return noticeMsg("saved " + path)
	}
}
