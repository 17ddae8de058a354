package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"slidewiz/pkg/config"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for Slidewiz",
	Long:  `Configure API keys, create the output directory and write a starter config file.`,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

var providerKeys = map[string]struct {
	env  string
	name string
	url  string
}{
	config.ProviderGemini: {"G_API_KEY", "Gemini API Key", "https://aistudio.google.com/apikey"},
	config.ProviderGroq:   {"GROQ_API_KEY", "GROQ API Key", "https://console.groq.com/keys"},
	config.ProviderOpenAI: {"OPENAI_API_KEY", "OpenAI API Key", "https://platform.openai.com/api-keys"},
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("Slidewiz Setup"))

	var provider string
	if err := huh.NewSelect[string]().
		Title("Text provider").
		Options(
			huh.NewOption("Google Gemini", config.ProviderGemini),
			huh.NewOption("Groq", config.ProviderGroq),
			huh.NewOption("OpenAI", config.ProviderOpenAI),
		).
		Value(&provider).
		Run(); err != nil {
		return err
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Creating directories", createDirectories},
		{"Writing config", func() error { return writeStarterConfig(provider) }},
		{"Configuring environment", func() error { return configureEnv(provider) }},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	printNextSteps()
	return nil
}

func createDirectories() error {
	dirs := []string{"output"}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	fmt.Println(successStyle.Render("✓ Created directories"))
	return nil
}

type starterConfig struct {
	LLM struct {
		Provider string `yaml:"provider"`
	} `yaml:"llm"`
	Images struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"images"`
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
	Handout struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"handout"`
}

func writeStarterConfig(provider string) error {
	if _, err := os.Stat(configPath); err == nil {
		fmt.Println(infoStyle.Render("Kept existing " + configPath))
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	var images, handout bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Add stock images to slides by default?").
				Description("Needs a Pexels API key").
				Value(&images),
			huh.NewConfirm().
				Title("Write an HTML handout next to each deck?").
				Value(&handout),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	var cfg starterConfig
	cfg.LLM.Provider = provider
	cfg.Images.Enabled = images
	cfg.Output.Dir = "./output"
	cfg.Handout.Enabled = handout

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Created " + configPath))
	return nil
}

func configureEnv(provider string) error {
	if _, err := os.Stat(".env"); err == nil {
		var overwrite bool
		if err := huh.NewConfirm().
			Title("Found existing .env file").
			Description("Overwrite?").
			Value(&overwrite).
			Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Kept existing .env"))
			return nil
		}
	}

	env := make(map[string]string)

	if err := configureTextKey(env, provider); err != nil {
		return err
	}

	if err := configurePexels(env); err != nil {
		return err
	}

	if err := configureGCP(env); err != nil {
		return err
	}

	return writeEnvFile(env)
}

func configureTextKey(env map[string]string, provider string) error {
	key := providerKeys[provider]

	var value string
	if err := huh.NewInput().
		Title(key.name).
		Description(key.url).
		EchoMode(huh.EchoModePassword).
		Value(&value).
		Validate(required(key.name)).
		Run(); err != nil {
		return err
	}

	env[key.env] = strings.TrimSpace(value)
	return nil
}

func configurePexels(env map[string]string) error {
	var setup bool
	if err := huh.NewConfirm().
		Title("Setup Pexels images?").
		Description("For stock photos on content slides (optional)").
		Value(&setup).
		Run(); err != nil {
		return err
	}

	if !setup {
		return nil
	}

	fmt.Println(infoStyle.Render(`
To get a Pexels API key:
1. Sign in at https://www.pexels.com/api/
2. Request an API key
3. Copy the key from your account page
`))

	var apiKey string
	if err := huh.NewInput().
		Title("Pexels API Key").
		EchoMode(huh.EchoModePassword).
		Value(&apiKey).
		Run(); err != nil {
		return err
	}

	apiKey = strings.TrimSpace(apiKey)
	if apiKey != "" {
		env["PEXELS_API_KEY"] = apiKey
	}
	return nil
}

func configureGCP(env map[string]string) error {
	var setupGCP bool
	if err := huh.NewConfirm().
		Title("Setup Google Cloud?").
		Description("For Secret Manager keys and deck uploads to Cloud Storage (optional)").
		Value(&setupGCP).
		Run(); err != nil {
		return err
	}

	if !setupGCP {
		return nil
	}

	project := getActiveProject()
	if err := huh.NewInput().
		Title("Project ID").
		Value(&project).
		Run(); err != nil {
		return err
	}
	project = strings.TrimSpace(project)
	if project == "" {
		return nil
	}
	env["GOOGLE_CLOUD_PROJECT"] = project

	if !commandExists("gcloud") {
		fmt.Println(warnStyle.Render("gcloud CLI not found - enable secretmanager and storage APIs manually"))
		return nil
	}

	if err := enableGCPAPIs(project); err != nil {
		fmt.Println(warnStyle.Render(fmt.Sprintf("API enablement failed: %v", err)))
	}
	return nil
}

func getActiveProject() string {
	if !commandExists("gcloud") {
		return ""
	}
	out, err := exec.Command("gcloud", "config", "get-value", "project").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func enableGCPAPIs(project string) error {
	apis := []string{
		"secretmanager.googleapis.com",
		"storage.googleapis.com",
	}

	return runWithSpinner("Enabling APIs", func() error {
		args := append([]string{"services", "enable"}, apis...)
		args = append(args, "--project", project)
		return runSetupCmd("gcloud", args...)
	})
}

var envOrder = []string{
	"G_API_KEY",
	"GROQ_API_KEY",
	"OPENAI_API_KEY",
	"PEXELS_API_KEY",
	"GOOGLE_CLOUD_PROJECT",
}

func writeEnvFile(env map[string]string) error {
	f, err := os.Create(".env")
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	for _, key := range envOrder {
		if val, ok := env[key]; ok && val != "" {
			if _, err := fmt.Fprintf(f, "%s=%s\n", key, val); err != nil {
				return err
			}
		}
	}

	fmt.Println(successStyle.Render("✓ Created .env file"))
	return nil
}

func printNextSteps() {
	fmt.Println()
	fmt.Println(titleStyle.Render("Next steps:"))
	fmt.Println("  1. Run: slidewiz new")
	fmt.Println("  2. Or:  slidewiz generate -s \"your subject\"")
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func runSetupCmd(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %s", err, stderr.String())
	}
	return nil
}

func runWithSpinner(title string, fn func() error) error {
	var err error
	_ = spinner.New().
		Title(title).
		Action(func() { err = fn() }).
		Run()
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ " + title))
	return nil
}
