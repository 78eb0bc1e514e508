// Package menu asks for the call settings interactively. It fills the
// gap between "translator call" with no flags and a fully specified
// command line.
package menu

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/ShikharGupta-75/Video-Call-translator/call"
	"github.com/ShikharGupta-75/Video-Call-translator/lang"
)

// Choices is a complete set of call settings.
type Choices struct {
	Source lang.Language
	Target lang.Language
	Mode   call.Mode
	Port   int
	Host   string
}

// ListenAddr is the bind address for hosting.
func (c Choices) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// PeerAddr is the dial address for joining.
func (c Choices) PeerAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Run walks the user through the call settings, seeded with whatever
// defaults are passed in. The network questions only appear for the
// modes that need them.
func Run(defaults Choices) (Choices, error) {
	c := defaults
	if c.Source.Code == "" {
		c.Source, _ = lang.ByCode("en")
	}
	if c.Target.Code == "" {
		c.Target, _ = lang.ByCode("hi")
	}
	if c.Port == 0 {
		c.Port = 5000
	}

	languageOptions := make([]huh.Option[string], len(lang.Catalog))
	for i, l := range lang.Catalog {
		languageOptions[i] = huh.NewOption(l.Name, l.Code)
	}

	source := c.Source.Code
	target := c.Target.Code
	port := strconv.Itoa(c.Port)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Your language").
				Description("The language you will speak").
				Options(languageOptions...).
				Value(&source),
			huh.NewSelect[string]().
				Title("Their language").
				Description("The language your words are spoken in").
				Options(languageOptions...).
				Value(&target),
			huh.NewSelect[call.Mode]().
				Title("Call mode").
				Options(
					huh.NewOption("Host a call", call.ModeHost),
					huh.NewOption("Join a call", call.ModeJoin),
					huh.NewOption("Local demo", call.ModeDemo),
				).
				Value(&c.Mode),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Port").
				Validate(validatePort).
				Value(&port),
		).WithHideFunc(func() bool { return c.Mode == call.ModeDemo }),
		huh.NewGroup(
			huh.NewInput().
				Title("Host address").
				Description("Where the host is waiting").
				Validate(validateHost).
				Value(&c.Host),
		).WithHideFunc(func() bool { return c.Mode != call.ModeJoin }),
	)

	if err := form.Run(); err != nil {
		return Choices{}, fmt.Errorf("call setup: %w", err)
	}

	c.Source, _ = lang.ByCode(source)
	c.Target, _ = lang.ByCode(target)
	c.Port, _ = strconv.Atoi(port)
	c.Host = strings.TrimSpace(c.Host)
	return c, nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("ports are numbers")
	}
	if n < 1 || n > 65535 {
		return errors.New("ports run from 1 to 65535")
	}
	return nil
}

func validateHost(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("a host address is required to join")
	}
	return nil
}
