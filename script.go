package vignette

import (
	"fmt"
	"log"
	"math"

	"github.com/Shopify/go-lua"
)

const (
	componentTypeName = "vignette.component"
	contextTypeName   = "vignette.context"
	callbacksKey      = "vignette.callbacks"
)

// sceneScript runs one scene's Lua source and keeps the interpreter alive for
// as long as the scene's listeners can call back into it.
type sceneScript struct {
	engine *Engine
	frame  *sceneFrame
	ctx    *SceneContext
	name   string
	state  *lua.State
	refs   int
	// err holds the Go error behind the most recent raised Lua error, so
	// callers can still match it with errors.Is.
	err error
}

// runSceneScript executes src as the setup script of frame.
func runSceneScript(e *Engine, frame *sceneFrame, ctx *SceneContext, name, src string) error {
	s := &sceneScript{engine: e, frame: frame, ctx: ctx, name: name, state: lua.NewState()}
	lua.OpenLibraries(s.state)
	s.register()

	if err := lua.LoadBuffer(s.state, src, name, ""); err != nil {
		return fmt.Errorf("%w: load %s: %v", ErrScript, name, err)
	}
	if err := s.state.ProtectedCall(0, 0, 0); err != nil {
		return s.wrap(err)
	}
	return nil
}

func (s *sceneScript) wrap(err error) error {
	if s.err != nil {
		cause := s.err
		s.err = nil
		return fmt.Errorf("%w: %s: %w", ErrScript, s.name, cause)
	}
	return fmt.Errorf("%w: %s: %v", ErrScript, s.name, err)
}

// raise records err and raises it as a Lua error. It does not return.
func (s *sceneScript) raise(err error) int {
	s.err = err
	lua.Errorf(s.state, "%s", err.Error())
	return 0
}

func (s *sceneScript) register() {
	l := s.state

	l.NewTable()
	l.SetField(lua.RegistryIndex, callbacksKey)

	lua.NewMetaTable(l, componentTypeName)
	l.NewTable()
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "on", Function: s.componentOn},
		{Name: "emit", Function: s.componentEmit},
		{Name: "remove_all_listeners", Function: s.componentRemoveAll},
		{Name: "disabled", Function: s.componentDisabled},
		{Name: "select", Function: s.componentSelect},
	}, 0)
	l.SetField(-2, "__index")
	l.Pop(1)

	lua.NewMetaTable(l, contextTypeName)
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "__index", Function: s.contextIndex},
		{Name: "__newindex", Function: s.contextNewIndex},
	}, 0)
	l.Pop(1)

	globals := []lua.RegistryFunction{
		{Name: "ready", Function: s.ready},
		{Name: "create", Function: s.create},
		{Name: "append", Function: s.appendComponents},
		{Name: "next", Function: s.nextScene},
		{Name: "restart", Function: s.restartScene},
		{Name: "log", Function: s.log},
	}
	for _, g := range globals {
		l.Register(g.Name, g.Function)
	}
	l.NewTable()
	lua.SetFunctions(l, globals, 0)
	l.SetGlobal("scene")

	s.pushContext()
	l.SetGlobal("context")
}

// --- Globals ---

func (s *sceneScript) ready(l *lua.State) int {
	lua.CheckType(l, 1, lua.TypeFunction)
	l.PushValue(1)
	s.pushContext()
	l.Call(1, 0)
	return 0
}

func (s *sceneScript) create(l *lua.State) int {
	typeName := lua.CheckString(l, 1)
	props := Props{}
	if l.TypeOf(2) == lua.TypeTable {
		props = Props(tableToMap(l, 2))
	}
	c, err := s.engine.Create(typeName, props)
	if err != nil {
		return s.raise(err)
	}
	s.pushComponent(c)
	return 1
}

func (s *sceneScript) appendComponents(l *lua.State) int {
	lua.CheckType(l, 1, lua.TypeTable)
	list, _ := tableToGo(l, 1).([]any)
	components := make([]Component, 0, len(list))
	for i, v := range list {
		c, ok := v.(Component)
		if !ok {
			lua.ArgumentError(l, 1, fmt.Sprintf("element %d is not a component", i+1))
			return 0
		}
		components = append(components, c)
	}

	done := -1
	if l.TypeOf(2) == lua.TypeFunction {
		done = s.ref(2)
	}
	s.engine.appendTo(s.frame, components).Then(func(_ struct{}, err error) {
		if done < 0 {
			return
		}
		if err != nil {
			s.call(done, err.Error())
			return
		}
		s.call(done, nil)
	})
	return 0
}

func (s *sceneScript) nextScene(l *lua.State) int {
	s.engine.Next()
	return 0
}

func (s *sceneScript) restartScene(l *lua.State) int {
	s.engine.Restart()
	return 0
}

func (s *sceneScript) log(l *lua.State) int {
	msg := lua.CheckString(l, 1)
	log.Printf("[vignette] %s: %s", s.name, msg)
	return 0
}

// --- Component methods ---

func (s *sceneScript) pushComponent(c Component) {
	s.state.PushUserData(c)
	lua.SetMetaTableNamed(s.state, componentTypeName)
}

func checkComponent(l *lua.State, index int) Component {
	ud := lua.CheckUserData(l, index, componentTypeName)
	if c, ok := ud.(Component); ok && c != nil {
		return c
	}
	lua.ArgumentError(l, index, "component expected")
	return nil
}

func (s *sceneScript) componentOn(l *lua.State) int {
	c := checkComponent(l, 1)
	event := lua.CheckString(l, 2)
	lua.CheckType(l, 3, lua.TypeFunction)
	ref := s.ref(3)
	c.On(event, func(_ Component, args ...any) {
		s.call(ref, args...)
	})
	return 0
}

func (s *sceneScript) componentEmit(l *lua.State) int {
	c := checkComponent(l, 1)
	event := lua.CheckString(l, 2)
	var args []any
	for i := 3; i <= l.Top(); i++ {
		args = append(args, luaToGo(l, i))
	}
	c.Emit(event, args...)
	return 0
}

func (s *sceneScript) componentRemoveAll(l *lua.State) int {
	c := checkComponent(l, 1)
	if l.IsNoneOrNil(2) {
		c.RemoveAllListeners()
		return 0
	}
	c.RemoveAllListeners(lua.CheckString(l, 2))
	return 0
}

func (s *sceneScript) componentDisabled(l *lua.State) int {
	c := checkComponent(l, 1)
	d, ok := c.(interface{ Disabled(bool) })
	if !ok {
		return s.raise(fmt.Errorf("%w: disabled on %s", ErrUnsupportedMethod, c.Element().Name))
	}
	v := true
	if !l.IsNoneOrNil(2) {
		v = l.ToBoolean(2)
	}
	d.Disabled(v)
	return 0
}

func (s *sceneScript) componentSelect(l *lua.State) int {
	c := checkComponent(l, 1)
	ch, ok := c.(*Choice)
	if !ok {
		return s.raise(fmt.Errorf("%w: select on %s", ErrUnsupportedMethod, c.Element().Name))
	}
	if err := ch.Select(lua.CheckInteger(l, 2)); err != nil {
		return s.raise(err)
	}
	return 0
}

// --- Context ---

func (s *sceneScript) pushContext() {
	s.state.PushUserData(s.ctx)
	lua.SetMetaTableNamed(s.state, contextTypeName)
}

func checkContext(l *lua.State) *SceneContext {
	ud := lua.CheckUserData(l, 1, contextTypeName)
	if ctx, ok := ud.(*SceneContext); ok && ctx != nil {
		return ctx
	}
	lua.ArgumentError(l, 1, "context expected")
	return nil
}

func (s *sceneScript) contextIndex(l *lua.State) int {
	ctx := checkContext(l)
	key := lua.CheckString(l, 2)
	if key == "scene" {
		l.PushString(ctx.Scene())
		return 1
	}
	v, _ := ctx.Get(key)
	s.push(v)
	return 1
}

func (s *sceneScript) contextNewIndex(l *lua.State) int {
	ctx := checkContext(l)
	key := lua.CheckString(l, 2)
	ctx.Set(key, luaToGo(l, 3))
	return 0
}

// --- Callbacks ---

// ref stores the function at index in the callbacks table and returns its
// key.
func (s *sceneScript) ref(index int) int {
	l := s.state
	index = l.AbsIndex(index)
	s.refs++
	l.Field(lua.RegistryIndex, callbacksKey)
	l.PushValue(index)
	l.RawSetInt(-2, s.refs)
	l.Pop(1)
	return s.refs
}

// call invokes a stored callback from Go. Errors are logged; there is no
// script frame left to return them to.
func (s *sceneScript) call(ref int, args ...any) {
	l := s.state
	l.Field(lua.RegistryIndex, callbacksKey)
	l.RawGetInt(-1, ref)
	l.Remove(-2)
	for _, a := range args {
		s.push(a)
	}
	if err := l.ProtectedCall(len(args), 0, 0); err != nil {
		warnf("%v", s.wrap(err))
	}
}

func (s *sceneScript) push(v any) {
	l := s.state
	switch v := v.(type) {
	case nil:
		l.PushNil()
	case string:
		l.PushString(v)
	case bool:
		l.PushBoolean(v)
	case int:
		l.PushInteger(v)
	case float64:
		l.PushNumber(v)
	case error:
		l.PushString(v.Error())
	case Component:
		s.pushComponent(v)
	case []any:
		l.CreateTable(len(v), 0)
		for i, item := range v {
			s.push(item)
			l.RawSetInt(-2, i+1)
		}
	case map[string]any:
		l.CreateTable(0, len(v))
		for k, item := range v {
			s.push(item)
			l.SetField(-2, k)
		}
	default:
		if f, ok := toFloat(v); ok {
			l.PushNumber(f)
			return
		}
		l.PushString(fmt.Sprint(v))
	}
}

// --- Value conversion ---

func tableToMap(l *lua.State, index int) map[string]any {
	output := map[string]any{}
	if l.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = l.AbsIndex(index)
	l.PushNil()
	for l.Next(index) {
		if l.TypeOf(-2) == lua.TypeString {
			key, _ := l.ToString(-2)
			output[key] = luaToGo(l, -1)
		}
		l.Pop(1)
	}
	return output
}

func luaToGo(l *lua.State, index int) any {
	switch l.TypeOf(index) {
	case lua.TypeString:
		value, _ := l.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := l.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return l.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(l, index)
	case lua.TypeUserData:
		return l.ToUserData(index)
	default:
		return nil
	}
}

// tableToGo returns a []any for sequence tables and a map otherwise. An
// empty table is an empty list.
func tableToGo(l *lua.State, index int) any {
	if l.TypeOf(index) != lua.TypeTable {
		return nil
	}

	index = l.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	l.PushNil()
	for l.Next(index) {
		if isArray {
			if l.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := l.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		l.Pop(1)
	}

	if isArray && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			l.RawGetInt(index, i)
			result = append(result, luaToGo(l, -1))
			l.Pop(1)
		}
		return result
	}

	return tableToMap(l, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 && math.Abs(value) < math.MaxInt32 {
		return int(value)
	}
	return value
}
