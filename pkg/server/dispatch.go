package server

import (
	"strings"

	"github.com/provide-io/savebox/go/savebox/pkg/save/session"
)

// Command names of the legacy positional protocol
const (
	CommandUploadSave          = "UPLOAD_SAVE"
	CommandUpdateSave          = "UPDATE_SAVE"
	CommandConvertOldCloudFile = "CONVERT_OLD_CLOUD_FILE"
)

// Backend runs the save operations. *session.Session implements it.
type Backend interface {
	UploadSave(path string) session.UploadResult
	UpdateSave(editedPath, originalPath string) string
	ConvertOldCloudFile(path string) session.ConvertResult
}

// Response is the envelope every answer is wrapped in
type Response struct {
	Data any `json:"data"`
}

// Dispatch runs command with positional args. Commands are matched case
// insensitively; an unknown command or missing arguments yield "".
func Dispatch(b Backend, command string, args []string) any {
	switch strings.ToUpper(command) {
	case CommandUploadSave:
		if len(args) >= 1 {
			return b.UploadSave(args[0])
		}
	case CommandUpdateSave:
		if len(args) >= 2 {
			return b.UpdateSave(args[0], args[1])
		}
	case CommandConvertOldCloudFile:
		if len(args) >= 1 {
			return b.ConvertOldCloudFile(args[0])
		}
	}
	return ""
}
