package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const (
	DataDirFlag    = "datadir"
	ConfigFlag     = "config"
	AddressFlag    = "address"
	PasswordFlag   = "password"
	PrivateKeyFlag = "private-key"
	LogLevelFlag   = "log-level"
	SessionFlag    = "session"
	RequestIDFlag  = "id"
	MethodFlag     = "method"
	MetricsFlag    = "metrics-port"
)

func main() {
	os.Exit(runApp(newApp(), os.Args))
}

// runApp runs the app and reports a failed command on its ErrWriter.
func runApp(app *cli.App, args []string) int {
	if err := app.Run(args); err != nil {
		fmt.Fprintf(app.ErrWriter, "wcd: %v\n", err)
		return 1
	}
	return 0
}

func newApp() *cli.App {
	accountFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    AddressFlag,
			Aliases: []string{"a"},
			Usage:   "Wallet account answering the session, its key is read from <datadir>/keystore",
		},
		&cli.StringFlag{
			Name:    PasswordFlag,
			Usage:   "Keystore password",
			EnvVars: []string{"WCD_PASSWORD"},
		},
	}

	return &cli.App{
		Name:  "wcd",
		Usage: "Manage wallet connect sessions and answer signing requests",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  DataDirFlag,
				Value: "./wcd-data",
				Usage: "Data directory for the session database and keystore",
			},
			&cli.StringSliceFlag{
				Name:    ConfigFlag,
				Aliases: []string{"c"},
				Usage:   "JSON configuration file(s), applied in order",
			},
			&cli.StringFlag{
				Name:  LogLevelFlag,
				Value: "INFO",
				Usage: "Log level: ERROR, WARN, INFO, DEBUG or TRACE",
			},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			{
				Name:  "new-key",
				Usage: "Create a wallet key in the data directory keystore",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    PasswordFlag,
						Usage:   "Keystore password",
						EnvVars: []string{"WCD_PASSWORD"},
					},
					&cli.StringFlag{
						Name:  PrivateKeyFlag,
						Usage: "Import this hex private key instead of generating one",
					},
				},
				Action: newKey,
			},
			{
				Name:      "connect",
				Usage:     "Establish a session from a wc: connection URI",
				ArgsUsage: "<uri>",
				Flags:     accountFlags,
				Action:    connect,
			},
			{
				Name:    "sessions",
				Aliases: []string{"ls"},
				Usage:   "List known sessions",
				Action:  listSessions,
			},
			{
				Name:      "disconnect",
				Usage:     "End a session",
				ArgsUsage: "<session id>",
				Action:    disconnect,
			},
			{
				Name:   "clear",
				Usage:  "Remove every session",
				Action: clearSessions,
			},
			{
				Name:      "sign",
				Usage:     "Answer a signing request",
				ArgsUsage: "<param>...",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: SessionFlag, Aliases: []string{"s"}, Required: true, Usage: "Session id"},
					&cli.StringFlag{Name: MethodFlag, Aliases: []string{"m"}, Value: "personal_sign", Usage: "Request method"},
					&cli.Int64Flag{Name: RequestIDFlag, Value: 1, Usage: "Request id"},
				}, accountFlags...),
				Action: sign,
			},
			{
				Name:      "sign-tx",
				Usage:     "Sign a transaction request",
				ArgsUsage: "<transaction json>",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: SessionFlag, Aliases: []string{"s"}, Required: true, Usage: "Session id"},
					&cli.Int64Flag{Name: RequestIDFlag, Value: 1, Usage: "Request id"},
				}, accountFlags...),
				Action: signTransaction,
			},
			{
				Name:  "serve",
				Usage: "Run the service with its metrics endpoint until interrupted",
				Flags: append([]cli.Flag{
					&cli.IntFlag{Name: MetricsFlag, Usage: "Prometheus metrics port, overrides the config"},
				}, accountFlags...),
				Action: serve,
			},
		},
	}
}
