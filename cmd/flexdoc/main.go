// Command flexdoc renders JSON document payloads into draw-primitive
// streams, either as a one-shot CLI or as an HTTP service.
//
//	flexdoc render doc.json > primitives.json
//	flexdoc serve --addr :3001
package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	flexdoc "github.com/lvillar/flexdoc"
	"github.com/lvillar/flexdoc/draw"
	"github.com/lvillar/flexdoc/server"
)

func jsonEncoder(w io.Writer) *jsoniter.Encoder {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "flexdoc: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "flexdoc",
		Short:         "Render JSON document trees into paginated draw primitives",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRenderCmd(), newServeCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	var baseDir string
	cmd := &cobra.Command{
		Use:   "render <payload.json>",
		Short: "Render a payload file and print the primitive stream as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			renderer := flexdoc.New(flexdoc.WithBaseDir(baseDir))
			rec := draw.NewRecorder()
			result, err := renderer.Render(cmd.Context(), payload, rec)
			if err != nil {
				return err
			}

			for _, w := range result.Warnings {
				fmt.Fprintf(os.Stderr, "warning: %s: %s (%s)\n", w.Path, w.Message, w.Code)
			}

			out := struct {
				PageCount  int              `json:"pageCount"`
				Primitives []draw.Primitive `json:"primitives"`
			}{result.PageCount, rec.Primitives}
			enc := jsonEncoder(cmd.OutOrStdout())
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVar(&baseDir, "base-dir", "", "directory for relative image/svg paths")
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the renderer over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			addr := viper.GetString("addr")
			renderer := flexdoc.New(
				flexdoc.WithLogger(logger),
				flexdoc.WithBaseDir(viper.GetString("base-dir")),
			)
			srv := server.New(renderer, logger)

			logger.Info("listening", zap.String("addr", addr))
			return http.ListenAndServe(addr, srv.Handler())
		},
	}
	cmd.Flags().String("addr", ":3001", "listen address")
	cmd.Flags().String("base-dir", "", "directory for relative image/svg paths")
	viper.SetEnvPrefix("FLEXDOC")
	viper.AutomaticEnv()
	viper.BindPFlag("addr", cmd.Flags().Lookup("addr"))         //nolint:errcheck
	viper.BindPFlag("base-dir", cmd.Flags().Lookup("base-dir")) //nolint:errcheck
	return cmd
}
