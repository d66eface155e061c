package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/germanamz/analytical/cmd/analytical/internal/styles"
	"github.com/germanamz/analytical/pkg/engine"
	"gopkg.in/yaml.v3"
)

type wizardProvider struct {
	Kind              string
	Name              string
	Key               string
	Domain            string
	AllowLinker       bool
	TrackPageLoadTime bool
}

type kindDefault struct {
	Label string
	Key   string // Env var reference template.
}

var kindDefaults = map[string]kindDefault{
	"google":        {Label: "Google Analytics (async)", Key: "${GOOGLE_ANALYTICS_KEY}"},
	"google_legacy": {Label: "Google Analytics (client custom variables)", Key: "${GOOGLE_ANALYTICS_KEY}"},
	"kissmetrics":   {Label: "KISSmetrics", Key: "${KISSMETRICS_KEY}"},
	"clicky":        {Label: "Clicky", Key: "${CLICKY_SITE_ID}"},
}

func runInit(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use -force to overwrite)", path)
		}
	}

	providers, err := wizardProviders()
	if err != nil {
		return err
	}

	data, err := marshalWizardConfig(providers)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	fmt.Println(styles.SuccessStyle.Render("Wrote " + path))

	return nil
}

func wizardProviders() ([]wizardProvider, error) {
	var providers []wizardProvider
	for {
		p, err := wizardPromptProvider(providers)
		if err != nil {
			return nil, err
		}

		providers = append(providers, p)

		var more bool
		if err := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().Title("Add another provider?").Value(&more),
		)).Run(); err != nil {
			return nil, err
		}

		if !more {
			return providers, nil
		}
	}
}

func wizardPromptProvider(existing []wizardProvider) (wizardProvider, error) {
	var p wizardProvider

	opts := make([]huh.Option[string], 0, len(kindDefaults))
	for _, k := range engine.Kinds() {
		label := k
		if d, ok := kindDefaults[k]; ok {
			label = d.Label
		}
		opts = append(opts, huh.NewOption(label, k))
	}

	if err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Provider kind").
			Options(opts...).
			Value(&p.Kind),
	)).Run(); err != nil {
		return p, err
	}

	p.Name = uniqueName(p.Kind, existing)
	p.Key = kindDefaults[p.Kind].Key

	if err := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Provider name").Value(&p.Name).Validate(validateName(existing)),
		huh.NewInput().Title("Account key (or env var reference)").Value(&p.Key).Validate(validateRequired),
	)).Run(); err != nil {
		return p, err
	}

	if !strings.HasPrefix(p.Kind, "google") {
		return p, nil
	}

	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Cookie domain (optional)").Value(&p.Domain),
		huh.NewConfirm().Title("Allow linker?").Value(&p.AllowLinker),
		huh.NewConfirm().Title("Track page load time?").Value(&p.TrackPageLoadTime),
	)).Run()

	return p, err
}

// uniqueName returns kind, suffixed with a counter when a provider with that
// name already exists.
func uniqueName(kind string, existing []wizardProvider) string {
	name := kind
	for i := 2; nameTaken(name, existing); i++ {
		name = fmt.Sprintf("%s_%d", kind, i)
	}

	return name
}

func nameTaken(name string, existing []wizardProvider) bool {
	for _, p := range existing {
		if p.Name == name {
			return true
		}
	}

	return false
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func validateName(existing []wizardProvider) func(string) error {
	return func(s string) error {
		if err := validateRequired(s); err != nil {
			return err
		}
		if nameTaken(s, existing) {
			return fmt.Errorf("name %q is already used", s)
		}
		return nil
	}
}

func marshalWizardConfig(providers []wizardProvider) ([]byte, error) {
	cfg := engine.Config{Providers: make([]engine.ProviderConfig, 0, len(providers))}
	for _, p := range providers {
		cfg.Providers = append(cfg.Providers, engine.ProviderConfig{
			Name:              strings.TrimSpace(p.Name),
			Kind:              p.Kind,
			Key:               strings.TrimSpace(p.Key),
			Domain:            strings.TrimSpace(p.Domain),
			AllowLinker:       p.AllowLinker,
			TrackPageLoadTime: p.TrackPageLoadTime,
		})
	}

	return yaml.Marshal(cfg)
}
