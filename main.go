package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mynaparrot/speech-translate/helpers"
	"github.com/mynaparrot/speech-translate/pkg/config"
	"github.com/mynaparrot/speech-translate/pkg/factory"
	"github.com/mynaparrot/speech-translate/pkg/logging"
	"github.com/mynaparrot/speech-translate/version"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

var errMissingAudio = errors.New("audio file argument is required")

func main() {
	cli.VersionPrinter = func(c *cli.Command) {
		fmt.Printf("%s\n", c.Version)
	}

	err := newCommand().Run(context.Background(), os.Args)
	if err != nil {
		logrus.Fatalln(err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "speech-translate",
		Usage:     "Translate the speech of an audio file with Azure Speech",
		ArgsUsage: "<audio>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "to",
				Usage:    "Target language code, e.g. hi, gu, fr",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "from-lang",
				Usage: "Source language locale, e.g. en-US. Auto detects when empty",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "Write the translated segments to this file",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Optional configuration file",
			},
			&cli.StringFlag{
				Name:  "translator",
				Usage: "Text translator: azure, google or openai",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Stop the session after this duration",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
		},
		Action:  runTranslate,
		Version: version.Version,
	}
}

func runTranslate(ctx context.Context, c *cli.Command) error {
	audioPath := c.Args().First()
	if audioPath == "" {
		return fmt.Errorf("%w: %w", config.ErrConfiguration, errMissingAudio)
	}

	appCnf, err := helpers.ReadYamlConfigFile(c.String("config"))
	if err != nil {
		return err
	}
	if v := c.String("translator"); v != "" {
		appCnf.Translator.Provider = v
	}
	if v := c.String("log-level"); v != "" {
		appCnf.LogSettings.LogLevel = &v
	}
	appCnf.SetDefaults()

	logger, err := logging.NewLogger(&appCnf.LogSettings)
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}
	appCnf.Logger = logger

	appFactory, err := factory.NewAppFactory(appCnf)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if d := c.Duration("timeout"); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	_, err = appFactory.Translate(ctx, &config.TranslateOptions{
		AudioPath:  audioPath,
		TargetLang: c.String("to"),
		SourceLang: c.String("from-lang"),
		OutputPath: c.String("out"),
	})
	return err
}
