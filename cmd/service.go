package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"slidewiz/internal/app"
	"slidewiz/internal/notify"
)

var consoleReporter = notify.Func(func(msg string, err error) {
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	fmt.Println(warnStyle.Render("! " + msg))
})

// promptCredential asks for a key that no other source had. Leaving it blank
// skips the key.
func promptCredential(_ context.Context, key string) (string, error) {
	var value string
	err := huh.NewInput().
		Title(key).
		Description("Not found in the environment or Secret Manager. Leave blank to skip.").
		EchoMode(huh.EchoModePassword).
		Value(&value).
		Run()
	return value, err
}

func buildService(ctx context.Context, interactive bool) (*app.Service, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	opts := app.BuildOptions{Reporter: consoleReporter}
	if interactive {
		opts.Prompt = promptCredential
	}
	return app.BuildService(ctx, cfg, opts)
}
