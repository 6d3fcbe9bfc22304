package greeting

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// greetingFile is the on-disk layout read by FileProvider.
type greetingFile struct {
	Greetings []Greeting `yaml:"greetings"`
}

// FileProvider serves greetings from a YAML file in rotation. The file is
// re-read on every call so edits show up on the next trigger.
type FileProvider struct {
	path string

	mu   sync.Mutex
	next int
}

// NewFileProvider creates a provider reading path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// Generate implements Provider.
func (p *FileProvider) Generate(ctx context.Context) (Greeting, error) {
	if err := ctx.Err(); err != nil {
		return Greeting{}, err
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return Greeting{}, fmt.Errorf("reading greetings: %w", err)
	}
	var f greetingFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Greeting{}, fmt.Errorf("parsing greetings %s: %w", p.path, err)
	}
	if len(f.Greetings) == 0 {
		return Greeting{}, fmt.Errorf("%s: %w", p.path, ErrNoGreetings)
	}

	p.mu.Lock()
	i := p.next % len(f.Greetings)
	p.next = i + 1
	p.mu.Unlock()

	g := f.Greetings[i]
	if !g.Valid() {
		return Greeting{}, fmt.Errorf("%s entry %d: %w", p.path, i, ErrInvalidGreeting)
	}
	return g, nil
}
