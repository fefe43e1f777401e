package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spoolr/internal/models"
	"github.com/desertthunder/spoolr/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgLoggedIn MsgKind = iota
	MsgRegistered
	MsgUsageApplied
	MsgUserDeleted
)

type userResult struct {
	user *models.User
	err  error
}

type usageResult struct {
	result *tasks.UsageResult
	err    error
}

// loggedInMsg is the constructor for [MsgLoggedIn]
func loggedInMsg(user *models.User, err error) Msg {
	return Msg{kind: MsgLoggedIn, data: userResult{user, err}}
}

// registeredMsg is the constructor for [MsgRegistered]
func registeredMsg(user *models.User, err error) Msg {
	return Msg{kind: MsgRegistered, data: userResult{user, err}}
}

// usageAppliedMsg is the constructor for [MsgUsageApplied]
func usageAppliedMsg(result *tasks.UsageResult, err error) Msg {
	return Msg{kind: MsgUsageApplied, data: usageResult{result, err}}
}

// userDeletedMsg is the constructor for [MsgUserDeleted]
func userDeletedMsg(username string, err error) Msg {
	return Msg{kind: MsgUserDeleted, data: userResult{&models.User{Username: username}, err}}
}
