package resolve

import "github.com/stackguard/stackguard/internal/domain"

// presetByFramework maps a framework id to the built-in preset closest to it.
var presetByFramework = map[string]struct {
	preset string
	python bool
}{
	"fastapi":   {domain.PresetPythonFastAPI, true},
	"flask":     {domain.PresetPythonFastAPI, true},
	"starlette": {domain.PresetPythonFastAPI, true},
	"django":    {domain.PresetPythonDjango, true},
	"next":      {domain.PresetNextJS, false},
	"react":     {domain.PresetNextJS, false},
}

// SelectPreset returns the built-in preset for a language and framework.
// matched is false when nothing fits and the generic preset is returned.
func SelectPreset(language domain.Language, framework string) (id string, matched bool) {
	entry, ok := presetByFramework[framework]
	if !ok {
		return domain.PresetGeneric, false
	}

	switch {
	case language == domain.LanguageMixed:
	case entry.python && language == domain.LanguagePython:
	case !entry.python && language.IsJS():
	default:
		return domain.PresetGeneric, false
	}
	return entry.preset, true
}
