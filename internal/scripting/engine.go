// Package scripting hosts the Lua VM for tunable game formulas: the XP
// curve, the per-level stat-point award and the PvP hit roll. Every call has
// a logged Go fallback so a missing script degrades, never crashes.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	for _, sub := range []string{"core", "combat"} {
		if err := e.loadDir(filepath.Join(scriptsDir, sub)); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

func (e *Engine) Close() {
	e.vm.Close()
}

// XPToLevel calls Lua xp_to_level(level): the XP needed to advance from the
// given level. Fallback: level × 100.
func (e *Engine) XPToLevel(level int) int {
	fn := e.vm.GetGlobal("xp_to_level")
	if fn == lua.LNil {
		return level * 100
	}
	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lua.LNumber(level)); err != nil {
		e.log.Error("lua xp_to_level error", zap.Error(err))
		return level * 100
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	n := int(lua.LVAsNumber(result))
	if n <= 0 {
		return level * 100
	}
	return n
}

// StatPointsPerLevel calls Lua stat_points_per_level(level). Fallback: 5.
func (e *Engine) StatPointsPerLevel(level int) int {
	fn := e.vm.GetGlobal("stat_points_per_level")
	if fn == lua.LNil {
		return 5
	}
	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lua.LNumber(level)); err != nil {
		e.log.Error("lua stat_points_per_level error", zap.Error(err))
		return 5
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	n := int(lua.LVAsNumber(result))
	if n < 0 {
		return 5
	}
	return n
}

// PvPHit is the result of a PvP attack roll.
type PvPHit struct {
	Damage int
	Crit   bool
}

// CalcPvPHit calls Lua calc_pvp_hit(attack, luck). Fallback: flat attack
// damage, no crit.
func (e *Engine) CalcPvPHit(attack, luck int) PvPHit {
	fn := e.vm.GetGlobal("calc_pvp_hit")
	if fn == lua.LNil {
		return PvPHit{Damage: attack}
	}
	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true},
		lua.LNumber(attack), lua.LNumber(luck)); err != nil {
		e.log.Error("lua calc_pvp_hit error", zap.Error(err))
		return PvPHit{Damage: attack}
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua calc_pvp_hit returned non-table")
		return PvPHit{Damage: attack}
	}
	return PvPHit{
		Damage: int(lua.LVAsNumber(rt.RawGetString("damage"))),
		Crit:   rt.RawGetString("crit") == lua.LTrue,
	}
}
