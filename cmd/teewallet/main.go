package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ruteri/tee-wallet-runtime/api"
	"github.com/ruteri/tee-wallet-runtime/backend"
	"github.com/ruteri/tee-wallet-runtime/cmd/flags"
	"github.com/ruteri/tee-wallet-runtime/interfaces"
	"github.com/ruteri/tee-wallet-runtime/teeruntime"
	"github.com/urfave/cli/v2"
)

var flagNoInit = &cli.BoolFlag{
	Name:  "no-init",
	Usage: "do not initialize the backend before running operations",
}

type walletApp struct {
	out     io.Writer
	factory *backend.Factory
	runtime *teeruntime.Runtime
}

func setup(cCtx *cli.Context) (*walletApp, error) {
	cfg, err := flags.LoadConfig(cCtx)
	if err != nil {
		return nil, err
	}

	logger := flags.SetupLogger(cCtx, cfg.Logging)
	factory := flags.NewFactory(cfg.Backend, logger)
	rt := teeruntime.Setup(factory, logger, nil)

	if err := flags.ConfigureRuntime(cCtx.Context, rt, factory, cfg.Backend); err != nil {
		return nil, fmt.Errorf("could not configure TEE backend: %w", err)
	}

	return &walletApp{out: cCtx.App.Writer, factory: factory, runtime: rt}, nil
}

func (a *walletApp) print(v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(encoded))
	return err
}

func statusCmd(cCtx *cli.Context) error {
	a, err := setup(cCtx)
	if err != nil {
		return err
	}

	status, err := a.runtime.Status(cCtx.Context)
	if err != nil {
		return err
	}
	return a.print(api.NewStatusResponse(status))
}

func initCmd(cCtx *cli.Context) error {
	a, err := setup(cCtx)
	if err != nil {
		return err
	}

	ok, err := a.runtime.Initialize(cCtx.Context)
	if err != nil {
		return err
	}
	return a.print(api.InitializeResponse{Success: ok, Message: "TEE environment initialized"})
}

func detectCmd(cCtx *cli.Context) error {
	a, err := setup(cCtx)
	if err != nil {
		return err
	}

	kind, mode := a.factory.DetectBest()
	return a.print(map[string]string{
		"kind": kind.String(),
		"mode": mode.String(),
	})
}

func configureCmd(cCtx *cli.Context) error {
	if !cCtx.IsSet(flags.BackendKindFlag.Name) || !cCtx.IsSet(flags.BackendModeFlag.Name) {
		return errors.New("configure requires --kind and --mode")
	}

	a, err := setup(cCtx)
	if err != nil {
		return err
	}

	status, err := a.runtime.Status(cCtx.Context)
	if err != nil {
		return err
	}
	return a.print(api.NewStatusResponse(status))
}

func opCmd(cCtx *cli.Context) error {
	if cCtx.NArg() == 0 {
		return errors.New("op requires at least one operation command")
	}

	ops := make([]interfaces.WalletOperation, 0, cCtx.NArg())
	for _, command := range cCtx.Args().Slice() {
		op, err := interfaces.ParseOperation(command)
		if err != nil {
			return err
		}
		ops = append(ops, op)
	}

	a, err := setup(cCtx)
	if err != nil {
		return err
	}

	if !cCtx.Bool(flagNoInit.Name) {
		if _, err := a.runtime.Initialize(cCtx.Context); err != nil {
			return err
		}
	}

	for _, op := range ops {
		result, err := a.runtime.PerformOperation(cCtx.Context, op)
		if err != nil {
			return fmt.Errorf("%s: %w", op.Name(), err)
		}
		if err := a.print(api.NewOperationResponse(result)); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	cliFlags := []cli.Flag{flags.LogServiceFlagFn("tee-wallet")}
	cliFlags = append(cliFlags, flags.LogFlags...)
	cliFlags = append(cliFlags, flags.BackendFlags...)

	app := &cli.App{
		Name:  "teewallet",
		Usage: "Run wallet operations on a TEE backend",
		Flags: cliFlags,
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "print the backend status",
				Action: statusCmd,
			},
			{
				Name:   "init",
				Usage:  "initialize the backend",
				Action: initCmd,
			},
			{
				Name:   "detect",
				Usage:  "print the backend auto-detection would choose",
				Action: detectCmd,
			},
			{
				Name:   "configure",
				Usage:  "configure and initialize the backend given by --kind and --mode",
				Flags:  flags.BackendFlags,
				Action: configureCmd,
			},
			{
				Name:      "op",
				Usage:     "run wallet operations",
				ArgsUsage: "<command>...",
				Flags:     []cli.Flag{flagNoInit},
				Action:    opCmd,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
