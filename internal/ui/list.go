package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/spoolr/internal/models"
)

var (
	_ list.Item = menuItem{}
	_ list.Item = filamentItem{}
	_ list.Item = printerItem{}
	_ list.Item = userItem{}
)

// menuItem is an entry of the main menu that opens view.
type menuItem struct {
	title string
	desc  string
	view  ViewState
}

func (i menuItem) FilterValue() string { return i.title }
func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }

// filamentItem wraps [models.Filament] to implement [list.Item].
type filamentItem struct {
	filament *models.Filament
	uses     int
}

func (i filamentItem) FilterValue() string { return i.filament.Type + " " + i.filament.Color }
func (i filamentItem) Title() string       { return i.filament.Label() }
func (i filamentItem) Description() string {
	desc := StockStyle(i.filament.RemainingGrams).Render(fmt.Sprintf("%gg remaining", i.filament.RemainingGrams))
	if i.uses > 0 {
		desc = fmt.Sprintf("%s • used %d×", desc, i.uses)
	}
	return desc
}

// printerItem wraps [models.Printer] to implement [list.Item].
type printerItem struct {
	printer *models.Printer
	uses    int
}

func (i printerItem) FilterValue() string { return i.printer.Name }
func (i printerItem) Title() string       { return i.printer.Name }
func (i printerItem) Description() string {
	return fmt.Sprintf("%d jobs • %s", i.uses, i.printer.ID)
}

// userItem wraps [models.User] to implement [list.Item].
type userItem struct {
	user *models.User
}

func (i userItem) FilterValue() string { return i.user.Username }
func (i userItem) Title() string       { return i.user.Username }
func (i userItem) Description() string { return i.user.Role.String() }
