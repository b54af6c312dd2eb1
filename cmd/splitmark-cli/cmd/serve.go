package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"splitmark/internal/server"
)

var (
	serveDir  string
	servePort string
	serveHost string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a manifest directory over HTTP",
	Long: `Serve a directory of collections and manifests for local development.

Every response carries permissive CORS headers and .json files are served as
application/json. Point base_url at the server to browse local collections.

Examples:
  splitmark-cli serve --dir ./manifests
  splitmark-cli serve --dir ./manifests --port 8080`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := server.New(server.Config{
			Host:   serveHost,
			Port:   servePort,
			Dir:    serveDir,
			Logger: logger,
		})
		fmt.Printf("Serving %s at http://localhost:%s/ (Ctrl+C to stop)\n", serveDir, servePort)
		return srv.Start(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveDir, "dir", ".", "directory to serve")
	serveCmd.Flags().StringVar(&servePort, "port", "8000", "port to listen on")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "address to bind to (default: all interfaces)")
}
