package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode selects whether `check` draws the progress view.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	mode := uiMode(strings.ToLower(strings.TrimSpace(value)))
	switch mode {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return mode, nil
	}
	return "", fmt.Errorf("check: invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI resolves auto against stderr, where the progress view is
// drawn; stdout stays free for diagnostics.
func shouldUseTUI(mode uiMode) bool {
	if mode == uiModeAuto {
		return isTerminal(os.Stderr)
	}
	return mode == uiModeOn
}
