package notify

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Event names a workflow step that informs a user
type Event string

const (
	EventJoinRequestReceived Event = "join_request_received"
	EventJoinRequestApproved Event = "join_request_approved"
	EventJoinRequestRejected Event = "join_request_rejected"
)

//go:embed templates.yaml
var defaultTemplatesYAML []byte

// Template is the title and message text for one event.
// {{team}} and {{user}} are substituted when rendering.
type Template struct {
	Title   string `yaml:"title"`
	Message string `yaml:"message"`
}

// Vars holds the values substituted into a template
type Vars struct {
	Team string
	User string
}

type templatesFile struct {
	Templates map[Event]Template `yaml:"templates"`
}

// Templates renders notification text per event
type Templates struct {
	byEvent map[Event]Template
}

// DefaultTemplates returns the built-in templates
func DefaultTemplates() *Templates {
	t, err := ParseTemplates(defaultTemplatesYAML)
	if err != nil {
		panic(fmt.Sprintf("notify: invalid built-in templates: %v", err))
	}
	return t
}

// ParseTemplates parses a templates YAML document
func ParseTemplates(data []byte) (*Templates, error) {
	var file templatesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse notification templates: %w", err)
	}
	for event, tpl := range file.Templates {
		if tpl.Title == "" || tpl.Message == "" {
			return nil, fmt.Errorf("notification template %q needs a title and a message", event)
		}
	}
	return &Templates{byEvent: file.Templates}, nil
}

// LoadTemplates reads templates from path and layers them over the built-in ones.
// An empty path returns the built-in templates.
func LoadTemplates(path string) (*Templates, error) {
	base := DefaultTemplates()
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read notification templates: %w", err)
	}
	overrides, err := ParseTemplates(data)
	if err != nil {
		return nil, err
	}
	for event, tpl := range overrides.byEvent {
		base.byEvent[event] = tpl
	}
	return base, nil
}

// Render returns the title and message for event
func (t *Templates) Render(event Event, vars Vars) (string, string, error) {
	tpl, ok := t.byEvent[event]
	if !ok {
		return "", "", fmt.Errorf("no notification template for event %q", event)
	}
	r := strings.NewReplacer("{{team}}", vars.Team, "{{user}}", vars.User)
	return r.Replace(tpl.Title), r.Replace(tpl.Message), nil
}
