package gui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/itchio/dragtoinstall/dragdrop"
	"github.com/itchio/dragtoinstall/installer"
)

const themePrefix = "theme:"

// FolderIcon is the appearance icon of the drop target
const FolderIcon = themePrefix + "folder"

// loadIcon turns an appearance icon name into a resource: either one
// of the toolkit's built-in icons, or a bundled image file.
func loadIcon(name string, resolver installer.Resolver) fyne.Resource {
	if strings.HasPrefix(name, themePrefix) {
		switch strings.TrimPrefix(name, themePrefix) {
		case "folder":
			return theme.FolderIcon()
		case "folder-open":
			return theme.FolderOpenIcon()
		}
		return theme.FileApplicationIcon()
	}

	if name != "" && resolver != nil {
		if p, ok := resolver.Resolve(name); ok {
			res, err := fyne.LoadResourceFromPath(p)
			if err == nil {
				return res
			}
		}
	}
	return theme.FileApplicationIcon()
}

func desktopCursor(c dragdrop.Cursor) desktop.Cursor {
	switch c {
	case dragdrop.CursorPointer, dragdrop.CursorGrab:
		// fyne has no grab cursor
		return desktop.PointerCursor
	default:
		return desktop.DefaultCursor
	}
}

func within(origin fyne.Position, size fyne.Size, p fyne.Position) bool {
	return p.X >= origin.X && p.X < origin.X+size.Width &&
		p.Y >= origin.Y && p.Y < origin.Y+size.Height
}
