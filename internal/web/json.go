package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sweeney/breath-sync/internal/logic"
)

// ConfigureRequest is the body of POST /api/configure. Exactly one of Preset
// (seconds) and Custom (minutes) must be set. An empty Theme keeps the
// current one.
type ConfigureRequest struct {
	Preset *int   `json:"preset,omitempty"`
	Custom *int   `json:"custom,omitempty"`
	Theme  string `json:"theme,omitempty"`
}

const maxBodyBytes = 4096

func decodeConfigure(body io.Reader) (ConfigureRequest, error) {
	var req ConfigureRequest
	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("decode configure request: %w", err)
	}
	return req, nil
}

func (r ConfigureRequest) resolve(current logic.Theme) (logic.Selection, logic.Theme, error) {
	var sel logic.Selection
	switch {
	case r.Preset != nil && r.Custom != nil:
		return sel, "", errors.New("preset and custom are mutually exclusive")
	case r.Preset != nil:
		sel = logic.Preset(*r.Preset)
	case r.Custom != nil:
		sel = logic.Custom(*r.Custom)
	default:
		return sel, "", errors.New("one of preset or custom is required")
	}

	theme := current
	switch logic.Theme(r.Theme) {
	case "":
	case logic.ThemeDay, logic.ThemeNight:
		theme = logic.Theme(r.Theme)
	default:
		return sel, "", fmt.Errorf("unknown theme %q", r.Theme)
	}
	if theme == "" {
		theme = logic.ThemeDay
	}
	return sel, theme, nil
}
