package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode реализует pflag.Value, поэтому cobra сама отбрасывает неверные значения.
type uiMode uint8

const (
	uiModeAuto uiMode = iota
	uiModeOn
	uiModeOff
)

var uiModeNames = [...]string{uiModeAuto: "auto", uiModeOn: "on", uiModeOff: "off"}

func (m uiMode) String() string {
	if int(m) < len(uiModeNames) {
		return uiModeNames[m]
	}
	return "auto"
}

func (m *uiMode) Set(value string) error {
	parsed, err := readUIMode(value)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (*uiMode) Type() string { return "auto|on|off" }

func readUIMode(value string) (uiMode, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return uiModeAuto, nil
	}
	for m, name := range uiModeNames {
		if name == v {
			return uiMode(m), nil
		}
	}
	return uiModeAuto, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI: прогресс рисуется в stderr, stdout остаётся под токены.
func shouldUseTUI(mode uiMode) bool {
	if mode != uiModeAuto {
		return mode == uiModeOn
	}
	return isTerminal(os.Stderr) && isTerminal(os.Stdin)
}
