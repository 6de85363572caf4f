package tui

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// inputMode represents the current input mode.
type inputMode int

const (
	modeChat inputMode = iota
	modePicker
)

// pdfItem implements list.Item for the PDF picker.
type pdfItem struct {
	path    string
	relPath string
}

func (i pdfItem) Title() string       { return "📄 " + i.relPath }
func (i pdfItem) Description() string { return i.path }
func (i pdfItem) FilterValue() string { return i.relPath }

// pdfItems is a slice of pdfItem that implements fuzzy.Source.
type pdfItems []pdfItem

func (p pdfItems) String(i int) string { return p[i].relPath }
func (p pdfItems) Len() int            { return len(p) }

// PDFPicker handles @ attachment selection.
type PDFPicker struct {
	list    list.Model
	items   pdfItems
	workDir string
	filter  string
	width   int
	height  int
}

// NewPDFPicker creates a picker rooted at workDir.
func NewPDFPicker(workDir string, width, height int) *PDFPicker {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)

	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("205")).
		BorderForeground(lipgloss.Color("205"))

	l := list.New([]list.Item{}, delegate, width, height)
	l.Title = "Attach PDF (@)"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	return &PDFPicker{
		list:    l,
		workDir: workDir,
		width:   width,
		height:  height,
	}
}

// LoadFiles scans the working directory for PDFs.
func (fp *PDFPicker) LoadFiles() error {
	var items pdfItems

	root := os.DirFS(fp.workDir)
	err := doublestar.GlobWalk(root, "**/*.{pdf,PDF}", func(path string, d fs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		items = append(items, pdfItem{
			path:    filepath.Join(fp.workDir, path),
			relPath: path,
		})
		return nil
	})
	if err != nil {
		return err
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].relPath < items[j].relPath
	})

	fp.items = items
	fp.updateList("")
	return nil
}

// updateList updates the list with filtered items.
func (fp *PDFPicker) updateList(filter string) {
	fp.filter = filter

	var listItems []list.Item
	if filter == "" {
		for _, item := range fp.items {
			listItems = append(listItems, item)
		}
	} else {
		matches := fuzzy.FindFrom(filter, fp.items)
		for _, match := range matches {
			listItems = append(listItems, fp.items[match.Index])
		}
	}

	fp.list.SetItems(listItems)
}

// Update handles messages for the picker.
func (fp *PDFPicker) Update(msg tea.Msg) (*PDFPicker, tea.Cmd) {
	var cmd tea.Cmd
	fp.list, cmd = fp.list.Update(msg)
	return fp, cmd
}

// View renders the picker.
func (fp *PDFPicker) View() string {
	return fp.list.View()
}

// SelectedItem returns the selected file's absolute path.
func (fp *PDFPicker) SelectedItem() (string, bool) {
	item, ok := fp.list.SelectedItem().(pdfItem)
	if !ok {
		return "", false
	}
	return item.path, true
}

// SetSize updates the picker dimensions.
func (fp *PDFPicker) SetSize(width, height int) {
	fp.width = width
	fp.height = height
	fp.list.SetSize(width, height)
}
