package ticket

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// fixtureFile is the on-disk shape of a ticket fixture. A bare list of
// tickets is accepted as well.
type fixtureFile struct {
	Tickets []Ticket `json:"tickets" yaml:"tickets"`
}

// LoadFixture reads tickets from a JSON or YAML file. The format is chosen
// by extension; anything other than .yaml/.yml is parsed as JSON.
func LoadFixture(path string) ([]Ticket, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}

	var tickets []Ticket
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		tickets, err = decodeYAML(data)
	default:
		tickets, err = decodeJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}

	if err := validate(tickets); err != nil {
		return nil, fmt.Errorf("invalid fixture %s: %w", path, err)
	}

	for i := range tickets {
		tickets[i].Normalize()
	}
	return tickets, nil
}

func decodeJSON(data []byte) ([]Ticket, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var list []Ticket
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var f fixtureFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Tickets, nil
}

func decodeYAML(data []byte) ([]Ticket, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		var list []Ticket
		if err := node.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var f fixtureFile
	if err := node.Decode(&f); err != nil {
		return nil, err
	}
	return f.Tickets, nil
}

// validate only rejects what would break lookups: missing or repeated ids.
func validate(tickets []Ticket) error {
	seen := make(map[string]struct{}, len(tickets))
	for i, t := range tickets {
		if t.ID == "" {
			return fmt.Errorf("ticket at index %d has no id", i)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("duplicate ticket id %q", t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}
