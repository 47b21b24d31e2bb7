// Package logging wires btclog subsystem loggers for seedlock.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/btcsuite/btclog/v2"
	"github.com/illarion/seedlock/internal/core"
	"github.com/illarion/seedlock/internal/keystore"
)

// LevelOff disables logging entirely.
const LevelOff = "off"

// ValidLevel reports whether level is a known log level name.
func ValidLevel(level string) bool {
	if level == "" {
		return true
	}
	_, ok := btclog.LevelFromString(strings.ToLower(level))
	return ok
}

// Setup points every subsystem logger at w with the given level. An empty
// level or "off" disables logging.
func Setup(level string, w io.Writer) error {
	level = strings.ToLower(level)
	if level == "" || level == LevelOff {
		keystore.DisableLog()
		core.DisableLog()
		return nil
	}

	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		return fmt.Errorf("unknown log level %q", level)
	}

	root := btclog.NewSLogger(btclog.NewDefaultHandler(w))

	ksLog := root.SubSystem(keystore.Subsystem)
	ksLog.SetLevel(lvl)
	keystore.UseLogger(ksLog)

	coreLog := root.SubSystem(core.Subsystem)
	coreLog.SetLevel(lvl)
	core.UseLogger(coreLog)

	return nil
}
