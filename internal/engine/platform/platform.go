// Package platform describes what the device firmware provides without any
// project file declaring it: global functions and built-in SceneGraph nodes.
package platform

import (
	"sort"
	"strings"

	"bslint/internal/engine/parser"
)

type builtin struct {
	name     string
	required int
	max      int
	function bool
}

var globalFunctions = []builtin{
	{"Abs", 1, 1, true},
	{"Asc", 1, 1, true},
	{"Atn", 1, 1, true},
	{"Box", 1, 1, true},
	{"Cdbl", 1, 1, true},
	{"Chr", 1, 1, true},
	{"Cint", 1, 1, true},
	{"CopyFile", 2, 2, true},
	{"Cos", 1, 1, true},
	{"CreateDirectory", 1, 1, true},
	{"CreateObject", 1, 6, true},
	{"Csng", 1, 1, true},
	{"DeleteDirectory", 1, 1, true},
	{"DeleteFile", 1, 1, true},
	{"Eval", 1, 1, true},
	{"Exp", 1, 1, true},
	{"FindMemberFunction", 2, 2, true},
	{"Fix", 1, 1, true},
	{"FormatDrive", 2, 2, true},
	{"FormatJson", 1, 2, true},
	{"GetGlobalAA", 0, 0, true},
	{"GetInterface", 2, 2, true},
	{"GetLastRunCompileError", 0, 0, true},
	{"GetLastRunRuntimeError", 0, 0, true},
	{"Instr", 2, 3, true},
	{"Int", 1, 1, true},
	{"LCase", 1, 1, true},
	{"Left", 2, 2, true},
	{"Len", 1, 1, true},
	{"ListDir", 1, 1, true},
	{"Log", 1, 1, true},
	{"MatchFiles", 2, 2, true},
	{"Mid", 2, 3, true},
	{"MoveFile", 2, 2, true},
	{"ParseJson", 1, 2, true},
	{"ReadAsciiFile", 1, 1, true},
	{"RebootSystem", 0, 0, false},
	{"Right", 2, 2, true},
	{"Rnd", 1, 1, true},
	{"Run", 1, 2, true},
	{"RunGarbageCollector", 0, 0, true},
	{"Sgn", 1, 1, true},
	{"Sin", 1, 1, true},
	{"Sleep", 1, 1, false},
	{"Sqr", 1, 1, true},
	{"Str", 1, 1, true},
	{"StrI", 1, 2, true},
	{"String", 2, 2, true},
	{"StringI", 2, 2, true},
	{"StrToI", 1, 2, true},
	{"Substitute", 2, 5, true},
	{"Tan", 1, 1, true},
	{"Tr", 1, 1, true},
	{"Type", 1, 2, true},
	{"UCase", 1, 1, true},
	{"UpTime", 1, 1, true},
	{"Val", 1, 2, true},
	{"Wait", 2, 2, true},
	{"WriteAsciiFile", 2, 2, true},
}

var builtinComponents = []string{
	"Animation", "ArrayGrid", "Audio", "BusySpinner", "Button", "ButtonGroup",
	"ChannelStore", "CheckList", "ColorFieldInterpolator", "ComponentLibrary",
	"ContentNode", "Dialog", "FloatFieldInterpolator", "Font", "GridPanel",
	"Group", "Keyboard", "KeyboardDialog", "Label", "LabelList", "LayoutGroup",
	"ListPanel", "MarkupGrid", "MarkupList", "MaskGroup", "MiniKeyboard", "Node",
	"Overhang", "OverhangPanelSetScene", "Panel", "PanelSet", "ParallelAnimation",
	"PinDialog", "PinPad", "Poster", "PosterGrid", "ProgressDialog", "RadioButtonList",
	"Rectangle", "RowList", "RSGPalette", "Scene", "ScrollableText", "ScrollingLabel",
	"SequentialAnimation", "SimpleLabel", "SoundEffect", "StandardDialog", "Task",
	"TargetGroup", "TextEditBox", "Timer", "Vector2DFieldInterpolator", "Video",
	"ZoomRowList",
}

// Provider serves the built-in callables and component names. The zero value
// is empty; use New for the firmware defaults.
type Provider struct {
	callables  []parser.Callable
	byKey      map[string]parser.Callable
	components map[string]string
}

func New() *Provider {
	p := &Provider{
		byKey:      make(map[string]parser.Callable, len(globalFunctions)),
		components: make(map[string]string, len(builtinComponents)),
	}
	for _, b := range globalFunctions {
		kind := parser.KindSub
		if b.function {
			kind = parser.KindFunction
		}
		p.AddCallable(parser.Callable{Name: b.name, Kind: kind, RequiredParams: b.required, MaxParams: b.max})
	}
	for _, name := range builtinComponents {
		p.AddComponent(name)
	}
	return p
}

// AddCallable registers an extra built-in. A later registration under the
// same case-insensitive name replaces the earlier one.
func (p *Provider) AddCallable(c parser.Callable) {
	if p.byKey == nil {
		p.byKey = make(map[string]parser.Callable)
	}
	c.File = nil
	if _, exists := p.byKey[c.Key()]; exists {
		for i := range p.callables {
			if p.callables[i].Key() == c.Key() {
				p.callables[i] = c
			}
		}
	} else {
		p.callables = append(p.callables, c)
	}
	p.byKey[c.Key()] = c
}

func (p *Provider) AddComponent(name string) {
	if p.components == nil {
		p.components = make(map[string]string)
	}
	p.components[strings.ToLower(name)] = name
}

func (p *Provider) GetAllCallables() []parser.Callable {
	out := make([]parser.Callable, len(p.callables))
	copy(out, p.callables)
	return out
}

func (p *Provider) Lookup(name string) (parser.Callable, bool) {
	c, ok := p.byKey[strings.ToLower(name)]
	return c, ok
}

func (p *Provider) IsBuiltinComponent(name string) bool {
	_, ok := p.components[strings.ToLower(name)]
	return ok
}

func (p *Provider) ComponentNames() []string {
	names := make([]string, 0, len(p.components))
	for _, n := range p.components {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
