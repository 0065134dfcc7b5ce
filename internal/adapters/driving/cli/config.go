package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Manage configuration",
	Long:        `View and change scribe settings stored in the configuration file.`,
	Annotations: map[string]string{annotationBootstrap: bootstrapConfig},
	RunE:        runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show current settings",
	Annotations: map[string]string{annotationBootstrap: bootstrapConfig},
	RunE:        runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change one setting and save it.

Keys:
  backend.mode             rest or local
  backend.base_url         REST backend URL
  backend.timeout_seconds  request timeout
  backend.rate_limit       requests per second (0 = unlimited)
  editor.grammar_delay_ms  quiet time before a grammar check
  editor.save_delay_ms     quiet time before an auto-save
  editor.min_check_length  length text must exceed to be checked (min 10)
  editor.discard_stale     drop superseded suggestion responses
  llm.enabled              use a local LLM for content suggestions
  llm.base_url             Ollama URL
  llm.model                Ollama model name
  storage.data_dir         local database directory

Enabling the LLM checks that it is reachable first; pass --no-verify to skip.`,
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{annotationBootstrap: bootstrapConfig},
	RunE:        runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print the configuration file path",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationBootstrap: bootstrapConfig},
	RunE:        runConfigPath,
}

var configNoVerify bool

// settingSetters apply a raw value to one settings field.
var settingSetters = map[string]func(s *domain.AppSettings, raw string) error{
	"backend.mode": func(s *domain.AppSettings, raw string) error {
		s.Backend.Mode = domain.BackendMode(strings.ToLower(raw))
		return nil
	},
	"backend.base_url": func(s *domain.AppSettings, raw string) error {
		s.Backend.BaseURL = raw
		return nil
	},
	"backend.timeout_seconds": func(s *domain.AppSettings, raw string) error {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		s.Backend.Timeout = time.Duration(n) * time.Second
		return nil
	},
	"backend.rate_limit": func(s *domain.AppSettings, raw string) error {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		s.Backend.RateLimit = f
		return nil
	},
	"editor.grammar_delay_ms": func(s *domain.AppSettings, raw string) error {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		s.Editor.GrammarDelay = time.Duration(n) * time.Millisecond
		return nil
	},
	"editor.save_delay_ms": func(s *domain.AppSettings, raw string) error {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		s.Editor.SaveDelay = time.Duration(n) * time.Millisecond
		return nil
	},
	"editor.min_check_length": func(s *domain.AppSettings, raw string) error {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		s.Editor.MinCheckLength = n
		return nil
	},
	"editor.discard_stale": func(s *domain.AppSettings, raw string) error {
		b, err := parseBool(raw)
		if err != nil {
			return err
		}
		s.Editor.StaleResponses = domain.StaleApply
		if b {
			s.Editor.StaleResponses = domain.StaleDiscard
		}
		return nil
	},
	"llm.enabled": func(s *domain.AppSettings, raw string) error {
		b, err := parseBool(raw)
		if err != nil {
			return err
		}
		s.LLM.Enabled = b
		return nil
	},
	"llm.base_url": func(s *domain.AppSettings, raw string) error {
		s.LLM.BaseURL = raw
		return nil
	},
	"llm.model": func(s *domain.AppSettings, raw string) error {
		s.LLM.Model = raw
		return nil
	},
	"storage.data_dir": func(s *domain.AppSettings, raw string) error {
		s.Storage.DataDir = raw
		return nil
	},
}

func init() {
	configSetCmd.Flags().BoolVar(&configNoVerify, "no-verify", false, "skip the LLM connectivity check")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	s, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	cmd.Println("Backend")
	cmd.Printf("  Mode:        %s\n", s.Backend.Mode.Description())
	if s.Backend.Mode == domain.BackendREST {
		cmd.Printf("  URL:         %s\n", s.Backend.BaseURL)
		cmd.Printf("  Timeout:     %s\n", s.Backend.Timeout)
		cmd.Printf("  Rate limit:  %s\n", formatRate(s.Backend.RateLimit))
	}
	cmd.Println()

	cmd.Println("Editor")
	cmd.Printf("  Grammar delay:    %s\n", s.Editor.GrammarDelay)
	cmd.Printf("  Save delay:       %s\n", s.Editor.SaveDelay)
	cmd.Printf("  Min check length: %d\n", s.Editor.MinCheckLength)
	cmd.Printf("  Stale responses:  %s\n", s.Editor.StaleResponses)
	cmd.Println()

	cmd.Println("LLM")
	if !s.LLM.Enabled {
		cmd.Println("  Disabled")
	} else {
		cmd.Printf("  URL:   %s\n", s.LLM.BaseURL)
		cmd.Printf("  Model: %s\n", s.LLM.Model)
	}

	if s.Storage.DataDir != "" {
		cmd.Println()
		cmd.Println("Storage")
		cmd.Printf("  Data dir: %s\n", s.Storage.DataDir)
	}

	if err := services.Validate(s); err != nil {
		cmd.Println()
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, raw := strings.ToLower(args[0]), strings.TrimSpace(args[1])
	set, ok := settingSetters[key]
	if !ok {
		return fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(settingKeys(), ", "))
	}

	s, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if err := set(s, raw); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := services.Validate(s); err != nil {
		return err
	}

	if key == "llm.enabled" && s.LLM.Enabled && !configNoVerify && validateLLM != nil {
		cmd.Println("Checking LLM connection...")
		if err := validateLLM(cmdContext(cmd), &s.LLM); err != nil {
			return err
		}
	}

	if err := settingsService.Save(s); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Set %s = %s\n", key, raw)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	cmd.Println(settingsService.ConfigPath())
	return nil
}

func settingKeys() []string {
	keys := make([]string, 0, len(settingSetters))
	for k := range settingSetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a boolean", raw)
}

func formatRate(rps float64) string {
	if rps <= 0 {
		return "unlimited"
	}
	return strconv.FormatFloat(rps, 'f', -1, 64) + "/s"
}
