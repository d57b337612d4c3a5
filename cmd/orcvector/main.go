package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	arrowmemory "github.com/apache/arrow-go/v18/arrow/memory"
	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/orcvector/pkg/arrowbridge"
	"github.com/ajitpratap0/orcvector/pkg/config"
	"github.com/ajitpratap0/orcvector/pkg/errors"
	"github.com/ajitpratap0/orcvector/pkg/layout"
	"github.com/ajitpratap0/orcvector/pkg/logger"
	"github.com/ajitpratap0/orcvector/pkg/memory"
	"github.com/ajitpratap0/orcvector/pkg/metrics"
	"github.com/ajitpratap0/orcvector/pkg/vector"
)

var version = "0.1.0"

// describeResult is the --json output of the describe command
type describeResult struct {
	Layout      string             `json:"layout"`
	Description string             `json:"description"`
	Capacity    uint64             `json:"capacity"`
	Attached    int                `json:"attached"`
	Pool        memory.Stats       `json:"pool"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
}

// decimalResult is the --json output of the decimal command
type decimalResult struct {
	Literal string `json:"literal"`
	Value   string `json:"value"`
	Scale   int32  `json:"scale"`
	Text    string `json:"text"`
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile, logLevel string
	cfg := config.Default()

	root := &cobra.Command{
		Use:   "orcvector",
		Short: "orcvector - columnar row batch toolkit",
		Long: `orcvector builds in-memory column batch trees from YAML layouts,
describes them, and exports them as Apache Arrow data.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if logLevel != "" {
				loaded.Logging.Level = logLevel
			}
			if err := logger.Init(loaded.LoggerConfig()); err != nil {
				return errors.Wrap(err, errors.ErrorTypeConfig, "failed to initialize logger")
			}
			*cfg = *loaded
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration YAML file (optional)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "orcvector v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "kinds",
		Short: "List batch kinds usable in layouts",
		Run: func(cmd *cobra.Command, args []string) {
			for _, k := range vector.Kinds() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-11s %s\n", k, k.Label())
			}
		},
	})

	root.AddCommand(newDescribeCmd(cfg), newDecimalCmd())
	return root
}

func newDescribeCmd(cfg *config.Config) *cobra.Command {
	var layoutFile, arrowFile, compression string
	var capacity uint64
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Build a batch tree from a layout and describe it",
		Long: `Build the batch tree described by a YAML layout and print its description.

Example:
  orcvector describe --layout orders.yaml --capacity 4096 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if capacity == 0 {
				capacity = cfg.Batch.DefaultCapacity
			}
			codec, err := arrowbridge.ParseCompression(compression)
			if err != nil {
				return err
			}
			ctx := context.WithValue(cmd.Context(), logger.LayoutKey, layoutFile)
			return runDescribe(ctx, cmd.OutOrStdout(), cfg, layoutFile, capacity, asJSON, arrowFile, codec)
		},
	}

	cmd.Flags().StringVarP(&layoutFile, "layout", "l", "", "Path to layout YAML file (required)")
	_ = cmd.MarkFlagRequired("layout")
	cmd.Flags().Uint64Var(&capacity, "capacity", 0, "Root capacity (defaults to batch.default_capacity)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().StringVar(&arrowFile, "arrow", "", "Write the tree's Arrow schema and rows to this IPC file")
	cmd.Flags().StringVar(&compression, "compression", "none", "IPC body compression for --arrow (none, lz4, zstd)")
	return cmd
}

func runDescribe(ctx context.Context, out io.Writer, cfg *config.Config, layoutFile string, capacity uint64, asJSON bool,
	arrowFile string, codec arrowbridge.Compression) error {
	node, err := layout.LoadFile(layoutFile)
	if err != nil {
		return err
	}

	poolCfg, err := cfg.PoolConfig()
	if err != nil {
		return err
	}
	pool := memory.NewPool(poolCfg)
	tree, err := layout.BuildContext(ctx, node, capacity, pool)
	if err != nil {
		return err
	}
	defer tree.Release()

	if arrowFile != "" {
		if err := writeArrow(tree, arrowFile, codec); err != nil {
			return err
		}
	}

	result := describeResult{
		Layout:      layoutFile,
		Description: tree.String(),
		Capacity:    tree.Root.Capacity(),
		Attached:    len(tree.Attached()),
		Pool:        pool.Stats(),
	}
	if cfg.Metrics.Enabled {
		snap, err := metrics.Snapshot()
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "failed to gather metrics")
		}
		result.Metrics = snap
	}

	logger.WithContext(ctx).Info("described layout",
		zap.Uint64("capacity", result.Capacity),
		zap.Int64("bytes_in_use", result.Pool.BytesInUse))

	if asJSON {
		return printJSON(out, result)
	}

	fmt.Fprintln(out, result.Description)
	fmt.Fprintf(out, "bytes in use: %d (peak %d, %d allocations)\n",
		result.Pool.BytesInUse, result.Pool.PeakBytes, result.Pool.Allocations)
	return nil
}

func writeArrow(tree *layout.Tree, path string, codec arrowbridge.Compression) error {
	mem := arrowmemory.NewGoAllocator()
	rec, err := arrowbridge.ExportTree(tree, mem)
	if err != nil {
		return err
	}
	defer rec.Release()

	f, err := os.Create(path) //nolint:gosec // G304: path comes from the operator
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create arrow file").
			WithDetail("path", path)
	}
	if err := arrowbridge.WriteIPC(f, rec, mem, codec); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close arrow file").
			WithDetail("path", path)
	}
	logger.Info("wrote arrow file",
		zap.String("path", path),
		zap.String("compression", string(codec)),
		zap.Int64("rows", rec.NumRows()))
	return nil
}

func newDecimalCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "decimal LITERAL",
		Short: "Parse a decimal literal and show its value and scale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := vector.ParseDecimal(args[0])
			if err != nil {
				return err
			}
			result := decimalResult{
				Literal: args[0],
				Value:   d.Value().String(),
				Scale:   d.Scale(),
				Text:    d.String(),
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "value=%s scale=%d text=%s\n", result.Value, result.Scale, result.Text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func printJSON(out io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode JSON")
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
