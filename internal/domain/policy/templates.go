package policy

import "github.com/stackguard/stackguard/internal/domain"

// template describes a preset's boundaries in terms of roles. Role paths
// are resolved relative to a source root bound at compile time.
type template struct {
	// roots are candidate source roots in preference order. "" binds to
	// the project root and always succeeds.
	roots []string
	// canonical binds roots[0] when no candidate was detected, so rules
	// guard the conventional layout before it exists.
	canonical bool
	// flat binds the project root when no candidate was detected but a
	// role directory sits at the top level. It is tried before canonical.
	flat bool
	// maxLines is the whole-file line limit; zero leaves size unchecked.
	maxLines int

	layers   []layerTemplate
	siblings []siblingTemplate
	files    []fileTemplate
}

type layerTemplate struct {
	role      string
	forbidden []string
}

// siblingTemplate forbids role from importing any of the listed sibling roles.
type siblingTemplate struct {
	role    string
	targets []string
}

type fileTemplate struct {
	role  string
	names []string
}

var templates = map[string]template{
	domain.PresetPythonFastAPI: {
		roots:    []string{"src", "app"},
		maxLines: domain.DefaultMaxFileLines,
		layers: []layerTemplate{
			{role: "core", forbidden: []string{"sqlalchemy", "fastapi", "redis", "httpx", "requests", "aiohttp"}},
			{role: "db"},
			{role: "api"},
			{role: "worker"},
		},
		siblings: []siblingTemplate{
			{role: "core", targets: []string{"db", "api", "worker"}},
			{role: "db", targets: []string{"api", "worker"}},
			{role: "worker", targets: []string{"api"}},
		},
		files: []fileTemplate{
			{role: "core", names: []string{"llm", "openai", "anthropic", "client"}},
		},
	},
	domain.PresetPythonDjango: {
		roots:    []string{""},
		layers:   []layerTemplate{{role: "apps"}},
		maxLines: domain.DefaultMaxFileLines,
	},
	domain.PresetNextJS: {
		roots:     []string{"src"},
		flat:      true,
		canonical: true,
		maxLines:  domain.DefaultMaxFileLines,
		layers: []layerTemplate{
			{role: "lib", forbidden: []string{"react", "@/components"}},
			{role: "components", forbidden: []string{"next/server"}},
		},
	},
	domain.PresetGeneric: {
		roots: []string{""},
	},
}
