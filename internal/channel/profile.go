package channel

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"golang.org/x/text/language"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

// Profile is the static configuration for one channel: the prompt
// template used for description generation and the output language.
// Profiles are read-only at runtime.
type Profile struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Language language.Tag `json:"language"`

	tmpl *template.Template
}

var profiles = map[string]*Profile{
	"trakin-tech": {
		ID:       "trakin-tech",
		Name:     "Trakin Tech",
		Language: language.Hindi,
	},
	"trakin-tech-marathi": {
		ID:       "trakin-tech-marathi",
		Name:     "Trakin Tech Marathi",
		Language: language.Marathi,
	},
	"trakin-tech-tamil": {
		ID:       "trakin-tech-tamil",
		Name:     "Trakin Tech Tamil",
		Language: language.Tamil,
	},
}

func init() {
	for id, profile := range profiles {
		name := fmt.Sprintf("templates/%s.tmpl", id)
		tmpl, err := template.ParseFS(templateFiles, name)
		if err != nil {
			panic(fmt.Sprintf("channel %s: %v", id, err))
		}
		profile.tmpl = tmpl
	}
}

// Lookup returns the profile for id, or an error listing the valid ids.
func Lookup(id string) (*Profile, error) {
	profile, ok := profiles[id]
	if !ok {
		return nil, fmt.Errorf("unknown channel %q, valid channels: %s", id, strings.Join(IDs(), ", "))
	}
	return profile, nil
}

// All returns every profile, ordered by id.
func All() []*Profile {
	ret := make([]*Profile, 0, len(profiles))
	for _, profile := range profiles {
		ret = append(ret, profile)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })
	return ret
}

// IDs returns the fixed set of channel ids, sorted.
func IDs() []string {
	ids := make([]string, 0, len(profiles))
	for id := range profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// BuildPrompt interpolates the raw SRT transcript into the channel's
// template. Timestamps stay in: the prompt extracts chapter markers
// from them.
func (p *Profile) BuildPrompt(transcript string) (string, error) {
	var b strings.Builder
	err := p.tmpl.Execute(&b, struct{ Transcript string }{Transcript: transcript})
	if err != nil {
		return "", fmt.Errorf("failed to build prompt for channel %s: %w", p.ID, err)
	}
	return b.String(), nil
}
