package protocol

import (
	"github.com/example/iconbridge/internal/config"
	"github.com/example/iconbridge/internal/icon"
)

const (
	// CommandFileIcon requests the data URI icon of Request.Path.
	CommandFileIcon = "icon.file"
	// CommandApplicationIcon requests the raw icon of the service executable.
	CommandApplicationIcon = "icon.application"
	// CommandShortcutTarget resolves the shortcut at Request.Path.
	CommandShortcutTarget = "shortcut.target"
	// CommandOpenSoftware launches Request.Path through the shell.
	CommandOpenSoftware = "software.open"
	// CommandGreet returns a greeting for Request.Name.
	CommandGreet = "greet"
	// CommandLaunchersList returns the configured launchers.
	CommandLaunchersList = "launchers.list"
)

// Request is the IPC payload sent from clients to the icon service.
type Request struct {
	ID      string `json:"id"`
	Token   string `json:"token"`
	Command string `json:"command"`
	Path    string `json:"path,omitempty"`
	Name    string `json:"name,omitempty"`
}

// Response is the IPC reply emitted by the service. ID echoes the request.
type Response struct {
	ID        string            `json:"id"`
	Error     string            `json:"error,omitempty"`
	Icon      string            `json:"icon,omitempty"`
	Info      *icon.Info        `json:"info,omitempty"`
	Target    string            `json:"target,omitempty"`
	Found     bool              `json:"found,omitempty"`
	Message   string            `json:"message,omitempty"`
	Launchers []config.Launcher `json:"launchers,omitempty"`
}
