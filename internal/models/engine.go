package models

import (
	"fmt"
	"strings"
)

// Engine identifies one of the browser engines playwright ships with.
type Engine string

const (
	EngineChromium Engine = "chromium"
	EngineFirefox  Engine = "firefox"
	EngineWebkit   Engine = "webkit"
)

// DefaultEngine is used whenever no engine, or an unrecognized one,
// is requested on the command line.
const DefaultEngine = EngineChromium

// ParseEngine maps a user supplied engine name to a known Engine.
// Unrecognized or empty input falls back to DefaultEngine rather than
// erroring, so a bad positional argument never blocks a launch.
func ParseEngine(name string) Engine {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "chromium", "chrome":
		return EngineChromium
	case "firefox", "ff":
		return EngineFirefox
	case "webkit", "safari":
		return EngineWebkit
	default:
		return DefaultEngine
	}
}

func (e Engine) String() string {
	return string(e)
}

// StateFileName returns the snapshot file name for this engine. File
// identity is keyed by engine name so there is at most one snapshot
// per engine.
func (e Engine) StateFileName() string {
	return fmt.Sprintf("%s.json", string(e))
}

// KnownEngines lists the supported engines in a stable order.
func KnownEngines() []Engine {
	return []Engine{EngineChromium, EngineFirefox, EngineWebkit}
}
