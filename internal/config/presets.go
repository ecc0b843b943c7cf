package config

import (
	"sort"

	"github.com/san-kum/sidsmp/internal/model"
)

type Preset struct {
	Description string
	Params      model.Parameters
}

func withParams(desc string, edit func(p *model.Parameters)) Preset {
	p := model.DefaultParameters()
	edit(&p)
	return Preset{Description: desc, Params: p}
}

var Presets = map[string]Preset{
	"baseline": withParams("default constants", func(p *model.Parameters) {}),
	"robust": withParams("slow collapse, late detachment", func(p *model.Parameters) {
		p.K = 0.6
		p.DecoupleThreshold = 4.0
	}),
	"fragile": withParams("fast collapse, early detachment", func(p *model.Parameters) {
		p.K = 2.0
		p.DecoupleThreshold = 1.5
	}),
	"inert": withParams("weak conversion, slow maintenance loss", func(p *model.Parameters) {
		p.Alpha = 0.2
		p.Mu = 0.05
	}),
	"sticky": withParams("slow detachment and reattachment", func(p *model.Parameters) {
		p.Zeta = 0.02
	}),
}

// GetPreset returns a default configuration carrying the preset's
// parameters, or nil when name is unknown.
func GetPreset(name string) *Config {
	preset, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Params = preset.Params
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
