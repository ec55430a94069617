package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/skyrun/engine/internal/data"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM that measures variant geometry.
// Single-goroutine access only (game loop).
type Engine struct {
	vm    *lua.LState
	log   *zap.Logger
	cache map[string]extent
}

type extent struct {
	width float64
	ok    bool
}

// NewEngine creates a Lua engine and loads every script under
// scriptsDir/geometry. A missing directory is not an error.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log, cache: make(map[string]extent)}

	if err := e.loadDir(filepath.Join(scriptsDir, "geometry")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load geometry scripts: %w", err)
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

// Extent calls the Lua variant_extent(variant) function, where variant is a
// table with name, width and bounds fields. The script returns a positive
// number to report a width, or nil when it has no opinion. Results are cached
// per variant name.
func (e *Engine) Extent(v data.Variant) (float64, bool) {
	if c, ok := e.cache[v.Name]; ok {
		return c.width, c.ok
	}

	fn := e.vm.GetGlobal("variant_extent")
	if fn == lua.LNil {
		return 0, false
	}

	t := e.vm.NewTable()
	t.RawSetString("name", lua.LString(v.Name))
	t.RawSetString("width", lua.LNumber(v.Width))
	t.RawSetString("bounds", lua.LNumber(v.Bounds))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua variant_extent error", zap.String("variant", v.Name), zap.Error(err))
		return 0, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	var c extent
	if n, ok := result.(lua.LNumber); ok && n > 0 {
		c = extent{width: float64(n), ok: true}
	}
	e.cache[v.Name] = c
	return c.width, c.ok
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
