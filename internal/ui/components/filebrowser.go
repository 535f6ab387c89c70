package components

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/jscyril/playlist_manager/internal/audio"
	"github.com/samber/lo"
)

// browserChrome is the number of rows taken by the border, path, footer and help
const browserChrome = 8

// FileEntry is one row of the browser: a folder, the parent link or an audio file
type FileEntry struct {
	Name  string
	Path  string
	IsDir bool
	Size  int64
}

type browserStyles struct {
	dir      lipgloss.Style
	file     lipgloss.Style
	dim      lipgloss.Style
	cursor   lipgloss.Style
	location lipgloss.Style
	err      lipgloss.Style
	frame    lipgloss.Style
}

func defaultBrowserStyles() browserStyles {
	return browserStyles{
		dir:      lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
		file:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		cursor:   lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("255")).Bold(true),
		location: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		frame:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(1, 2),
	}
}

// FileBrowser lets the user walk directories and pick audio files or whole folders
// to add to the playlist.
type FileBrowser struct {
	Width       int
	Height      int
	CurrentPath string
	Entries     []FileEntry
	Selected    int
	Offset      int
	Err         error

	styles browserStyles
}

// NewFileBrowser opens a browser at start, or at the home directory when start is empty
func NewFileBrowser(start string, width, height int) FileBrowser {
	if start == "" {
		start = homeDir()
	}
	fb := FileBrowser{Width: width, Height: height, styles: defaultBrowserStyles()}
	fb.Navigate(start)
	return fb
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return string(filepath.Separator)
}

// readAudioDir lists dir for the browser: the parent link first, then folders, then
// supported audio files, each group sorted case-insensitively. Hidden entries are skipped.
func readAudioDir(dir string) ([]FileEntry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	visible := lo.Filter(dirEntries, func(e os.DirEntry, _ int) bool {
		return !strings.HasPrefix(e.Name(), ".") && (e.IsDir() || audio.IsSupported(e.Name()))
	})
	rows := lo.Map(visible, func(e os.DirEntry, _ int) FileEntry {
		row := FileEntry{Name: e.Name(), Path: filepath.Join(dir, e.Name()), IsDir: e.IsDir()}
		if info, err := e.Info(); err == nil && !row.IsDir {
			row.Size = info.Size()
		}
		return row
	})

	byName := func(a, b FileEntry) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}
	dirs, files := lo.FilterReject(rows, func(r FileEntry, _ int) bool { return r.IsDir })
	slices.SortFunc(dirs, byName)
	slices.SortFunc(files, byName)

	out := make([]FileEntry, 0, len(rows)+1)
	if parent := filepath.Dir(dir); parent != dir {
		out = append(out, FileEntry{Name: "..", Path: parent, IsDir: true})
	}
	out = append(out, dirs...)
	return append(out, files...), nil
}

// Navigate shows dir. A read error is kept in Err and leaves the browser empty.
func (fb *FileBrowser) Navigate(dir string) {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	fb.CurrentPath = dir
	fb.Selected, fb.Offset = 0, 0
	fb.Entries, fb.Err = readAudioDir(dir)
}

// Update handles cursor movement and directory jumps
func (fb FileBrowser) Update(msg tea.Msg) (FileBrowser, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return fb, nil
	}

	page := fb.visibleHeight()
	switch keyMsg.String() {
	case "up", "k":
		fb.moveTo(fb.Selected - 1)
	case "down", "j":
		fb.moveTo(fb.Selected + 1)
	case "pgup":
		fb.moveTo(fb.Selected - page)
	case "pgdown":
		fb.moveTo(fb.Selected + page)
	case "home":
		fb.moveTo(0)
	case "end":
		fb.moveTo(len(fb.Entries) - 1)
	case "backspace":
		if parent := filepath.Dir(fb.CurrentPath); parent != fb.CurrentPath {
			fb.Navigate(parent)
		}
	case "~":
		fb.Navigate(homeDir())
	}
	return fb, nil
}

// moveTo places the cursor on i, clamped to the entries, and scrolls to it
func (fb *FileBrowser) moveTo(i int) {
	fb.Selected = max(min(i, len(fb.Entries)-1), 0)

	page := fb.visibleHeight()
	if fb.Selected < fb.Offset {
		fb.Offset = fb.Selected
	} else if fb.Selected >= fb.Offset+page {
		fb.Offset = fb.Selected - page + 1
	}
}

// SelectedEntry returns the entry under the cursor, or nil
func (fb *FileBrowser) SelectedEntry() *FileEntry {
	if fb.Selected < 0 || fb.Selected >= len(fb.Entries) {
		return nil
	}
	return &fb.Entries[fb.Selected]
}

// EnterSelected opens the folder under the cursor and returns "", or returns
// the path of the file under the cursor.
func (fb *FileBrowser) EnterSelected() string {
	entry := fb.SelectedEntry()
	switch {
	case entry == nil:
		return ""
	case entry.IsDir:
		fb.Navigate(entry.Path)
		return ""
	default:
		return entry.Path
	}
}

func (fb *FileBrowser) visibleHeight() int {
	return max(fb.Height-browserChrome, 1)
}

func (fb FileBrowser) renderEntry(i int) string {
	entry := fb.Entries[i]

	icon, style := "🎵 ", fb.styles.file
	if entry.IsDir {
		icon, style = "📂 ", fb.styles.dir
	}
	if i == fb.Selected {
		style = fb.styles.cursor
	}

	row := style.Render(truncate(icon+entry.Name, fb.Width-22))
	if !entry.IsDir {
		row += "  " + fb.styles.dim.Render(humanize.Bytes(uint64(max(entry.Size, 0))))
	}
	return row
}

// View renders the browser
func (fb FileBrowser) View() string {
	lines := []string{fb.styles.location.Render("📁 " + fb.CurrentPath), ""}
	if fb.Err != nil {
		lines = append(lines, fb.styles.err.Render("Error: "+fb.Err.Error()))
	}

	page := fb.visibleHeight()
	end := min(fb.Offset+page, len(fb.Entries))
	for i := fb.Offset; i < end; i++ {
		lines = append(lines, fb.renderEntry(i))
	}
	for i := end - fb.Offset; i < page; i++ {
		lines = append(lines, "")
	}

	files := lo.Reject(fb.Entries, func(e FileEntry, _ int) bool { return e.IsDir })
	total := lo.SumBy(files, func(e FileEntry) int64 { return e.Size })
	lines = append(lines,
		fb.styles.dim.Render(strings.Repeat("─", 20)),
		fb.styles.dim.Render(fmt.Sprintf("Files: %d (%s)", len(files), humanize.Bytes(uint64(max(total, 0))))),
		"",
		fb.styles.dim.Render("[Enter] Open/Add  [a] Add folder  [Backspace] Up  [~] Home  [Esc] Done"),
	)

	return fb.styles.frame.Width(fb.Width - 4).Render(strings.Join(lines, "\n"))
}
