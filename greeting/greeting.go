// Package greeting supplies the holiday message shown on the greeting card.
package greeting

import (
	"context"
	"errors"
	"fmt"

	"github.com/pthm-cable/tinsel/config"
)

var (
	// ErrNoGreetings is returned by providers with nothing to offer.
	ErrNoGreetings = errors.New("no greetings available")
	// ErrInvalidGreeting marks a greeting missing its message or signature.
	ErrInvalidGreeting = errors.New("invalid greeting")
)

// Greeting is a message and the name it is signed with.
type Greeting struct {
	Message   string `yaml:"message"`
	Signature string `yaml:"signature"`
}

// Valid reports whether both fields are non-empty.
func (g Greeting) Valid() bool {
	return g.Message != "" && g.Signature != ""
}

// Provider produces greetings. Implementations must honour ctx cancellation.
type Provider interface {
	Generate(ctx context.Context) (Greeting, error)
}

// Default is the greeting returned by Static.
var Default = Greeting{
	Message:   "May the golden glow of this season illuminate your path with joy, warmth, and eternal elegance.",
	Signature: "The Arix Collection",
}

// Static always returns Default.
type Static struct{}

// Generate implements Provider.
func (Static) Generate(ctx context.Context) (Greeting, error) {
	if err := ctx.Err(); err != nil {
		return Greeting{}, err
	}
	return Default, nil
}

// New builds the provider selected in cfg.
func New(cfg config.GreetingConfig) (Provider, error) {
	switch cfg.Provider {
	case "", "static":
		return Static{}, nil
	case "file":
		return NewFileProvider(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unknown greeting provider %q", cfg.Provider)
	}
}
