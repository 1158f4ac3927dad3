package validate

import (
	"encoding/json"
	"os"

	toml "github.com/pelletier/go-toml/v2"
	ini "gopkg.in/ini.v1"
	yaml "gopkg.in/yaml.v3"
)

// checkTemplateSyntax parses template assets with the parser their consumer
// tool would use. A config template that does not parse is broken guidance,
// so syntax failures are errors.
func checkTemplateSyntax(r *Report, abs, rel, ext string) {
	parse := templateParsers[ext]
	if parse == nil {
		return
	}

	b, err := os.ReadFile(abs)
	if err != nil {
		r.add("file/unreadable", SeverityError, rel, "%v", err)
		return
	}
	if err := parse(b); err != nil {
		r.add("asset/template-syntax", SeverityError, rel, "%v", err)
	}
}

// templateParsers maps template extensions to a syntax-only parse.
var templateParsers = map[string]func([]byte) error{
	".toml": func(b []byte) error {
		var v any
		return toml.Unmarshal(b, &v)
	},
	".yaml": parseYAML,
	".yml":  parseYAML,
	".ini":  parseINI,
	".cfg":  parseINI,
	".json": func(b []byte) error {
		if len(b) == 0 {
			return nil
		}
		var v any
		return json.Unmarshal(b, &v)
	},
}

func parseYAML(b []byte) error {
	var v any
	return yaml.Unmarshal(b, &v)
}

func parseINI(b []byte) error {
	// setup.cfg style files allow keys without values (flake8 ignores, etc.).
	_, err := ini.LoadSources(ini.LoadOptions{AllowBooleanKeys: true}, b)
	return err
}
