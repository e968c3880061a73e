package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/slimvfd/internal/admin"
	"github.com/danmuck/slimvfd/internal/client"
	"github.com/danmuck/slimvfd/internal/font"
	"github.com/danmuck/slimvfd/internal/logging"
	"github.com/danmuck/slimvfd/internal/protocol"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time
	Version = "dev"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "slimctl",
		Short: "slimctl - headless SLiMP3 display client",
		Long: `slimctl speaks the SLiMP3 receiver protocol: it discovers a music server on
the local network, keeps the session alive, renders the 2x40 display as text,
and forwards remote-control keys typed on the terminal.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.ConfigureRuntime()
		},
	}
	root.PersistentFlags().String("config", "", "TOML config file")

	root.AddCommand(newRunCmd())
	root.AddCommand(newEncodeCmd())
	root.AddCommand(newKeysCmd())
	return root
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Connect to a server and mirror its display",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromFlags(cmd)
			if err != nil {
				return err
			}
			if addr, _ := cmd.Flags().GetString("admin-addr"); addr != "" {
				cfg.AdminAddr = addr
			}
			if noPreview, _ := cmd.Flags().GetBool("no-preview"); noPreview {
				cfg.Preview = false
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, os.Stdin, cmd.OutOrStdout(), stop)
		},
	}
	cmd.Flags().String("admin-addr", "", "Admin HTTP listen address (overrides config)")
	cmd.Flags().Bool("no-preview", false, "Do not print the display")
	return cmd
}

func run(ctx context.Context, cfg runConfig, in io.Reader, out io.Writer, quit func()) error {
	tbl := font.Default()
	if cfg.FontFile != "" {
		loaded, err := font.LoadFile(cfg.FontFile, tbl)
		if err != nil {
			return err
		}
		tbl = loaded
	}

	c, err := client.Dial(cfg.Client, tbl)
	if err != nil {
		return err
	}
	if cfg.Preview {
		pv := newPreview(c.Display(), out)
		c.Display().Subscribe(pv.observer())
		c.Supervise(pv)
	}
	if in != nil {
		c.Supervise(&keyReader{in: in, keys: cfg.Keys, submit: c.SubmitKey, quit: quit})
	}
	if cfg.AdminAddr != "" {
		c.Supervise(admin.New(cfg.AdminAddr, cfg.AdminCORSOrigins, c))
	}

	log.Info().
		Int("server_port", cfg.Client.Transport.ServerPort).
		Str("admin", cfg.AdminAddr).
		Bool("preview", cfg.Preview).
		Msg("slimctl starting")
	return c.Run(ctx)
}

func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "encode <discovery|hello|key> [code]",
		Short:     "Print the hex of an outbound datagram",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{"discovery", "hello", "key"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, _ := cmd.Flags().GetUint32("timestamp")
			msg, err := encodeMessage(args, ts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(msg))
			return nil
		},
	}
	cmd.Flags().Uint32("timestamp", 0, "Key timestamp in milliseconds")
	return cmd
}

func encodeMessage(args []string, ts uint32) ([]byte, error) {
	switch args[0] {
	case "discovery":
		return protocol.EncodeDiscovery(), nil
	case "hello":
		return protocol.EncodeHello(), nil
	case "key":
		if len(args) != 2 {
			return nil, fmt.Errorf("encode key: missing code")
		}
		code, err := admin.ParseKeyCode(args[1])
		if err != nil {
			return nil, fmt.Errorf("encode key: %w", err)
		}
		return protocol.EncodeKeyInput(ts, code), nil
	default:
		return nil, fmt.Errorf("encode: unknown message %q", args[0])
	}
}

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the terminal key map",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromFlags(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, b := range cfg.Keys.sorted() {
				fmt.Fprintf(out, "%c  0x%08x  %s\n", b.Key, b.Code, b.Name)
			}
			return nil
		},
	}
}

func configFromFlags(cmd *cobra.Command) (runConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	return loadRunConfig(path)
}
