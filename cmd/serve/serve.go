// Package serve implements the subcommand that runs the HTTP API server.
package serve

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cinelog/cinelog-go/internal/catalog"
	"github.com/cinelog/cinelog-go/internal/conf"
	"github.com/cinelog/cinelog-go/internal/datastore"
	"github.com/cinelog/cinelog-go/internal/httpcontroller"
	"github.com/cinelog/cinelog-go/internal/observability"
	"github.com/cinelog/cinelog-go/internal/review"
	"github.com/cinelog/cinelog-go/internal/sentiment"
)

// Command creates the serve subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long:  "Open the datastore, compose the catalog and review services and serve the JSON API.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the serve command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&settings.WebServer.Port, "port", viper.GetString("webserver.port"), "Port to listen on")
	cmd.Flags().StringVar(&settings.Output.SQLite.Path, "dbpath", viper.GetString("output.sqlite.path"), "Path to the SQLite database file")
	cmd.Flags().StringVar(&settings.Sentiment.Endpoint, "sentiment-endpoint", viper.GetString("sentiment.endpoint"), "URL of the text-classification service")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}

// runServer wires the application together and blocks until a shutdown signal.
func runServer(settings *conf.Settings) error {
	dataStore := datastore.New(settings)
	if dataStore == nil {
		return fmt.Errorf("no database output enabled, enable either SQLite or MySQL")
	}
	if err := dataStore.Open(); err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	defer func() {
		if err := dataStore.Close(); err != nil {
			fmt.Printf("failed to close datastore: %v\n", err)
		}
	}()

	analyzer, err := sentiment.New(settings)
	if err != nil {
		return fmt.Errorf("failed to initialize sentiment client: %w", err)
	}
	defer analyzer.Close()

	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	catalogSvc := catalog.New(dataStore)
	reviewSvc := review.New(dataStore, catalogSvc, analyzer)

	server := httpcontroller.New(settings, dataStore, catalogSvc, reviewSvc, metrics)
	server.Start()

	// Block until interrupted, then shut down cleanly
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("Shutting down...")
	return server.Shutdown()
}
