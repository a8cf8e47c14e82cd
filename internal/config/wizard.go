package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// DefaultPath is where the wizard writes its result.
const DefaultPath = ".aipartner.yml"

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .aipartner.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to aipartner! Let's configure your AI provider.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Backend.
	items := make([]string, 0, len(baseURLPresets)+1)
	for _, p := range baseURLPresets {
		items = append(items, fmt.Sprintf("%s (%s)", p.Name, p.BaseURL))
	}
	items = append(items, "Custom OpenAI-compatible endpoint")

	backendPrompt := promptui.Select{
		Label: "Select AI backend",
		Items: items,
	}
	idx, _, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend selection: %w", err)
	}
	if idx < len(baseURLPresets) {
		cfg.BaseURL = baseURLPresets[idx].BaseURL
	} else {
		urlPrompt := promptui.Prompt{Label: "Base URL"}
		if cfg.BaseURL, err = urlPrompt.Run(); err != nil {
			return nil, fmt.Errorf("base url: %w", err)
		}
	}

	// 2. Provider mode.
	modePrompt := promptui.Select{
		Label: "Select client mode",
		Items: []string{
			"sdk  - go-openai client",
			"http - direct HTTP calls",
		},
	}
	modeIdx, _, err := modePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("mode selection: %w", err)
	}
	cfg.ProviderMode = []ProviderMode{ModeSDK, ModeHTTP}[modeIdx]

	// 3. Model, blank means inferred from the base URL.
	modelPrompt := promptui.Prompt{
		Label:   "Model (leave blank to infer from the base URL)",
		Default: "",
	}
	if cfg.Model, err = modelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 4. Server port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("invalid port")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// The key stays in the environment, never in the file.
	if os.Getenv("OPENAI_API_KEY") == "" && os.Getenv("AI_PROVIDER_API_KEY") == "" && os.Getenv(envPrefix+"API_KEY") == "" {
		fmt.Printf("\nNote: set OPENAI_API_KEY (or %sAPI_KEY) to use a real provider; without it replies are mocked.\n", envPrefix)
	}

	if err := cfg.Save(DefaultPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultPath)
	return cfg, nil
}
