// Command vertex-search-agent serves the search agent's tools over MCP stdio.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	agent "github.com/kennychae/vertex-ai-search-agent"
	"github.com/kennychae/vertex-ai-search-agent/common/logger"
	"github.com/kennychae/vertex-ai-search-agent/config"
)

func main() {
	var (
		configPath string
		httpAddr   string
	)

	root := &cobra.Command{
		Use:           "vertex-search-agent",
		Short:         "MCP server for Vertex AI Search routing, GCS and RAG corpus management",
		Version:       agent.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.SetLevel(logger.ParseLevel(cfg.Log.Level))

			client, err := agent.NewClient(context.Background(), cfg)
			if err != nil {
				return fmt.Errorf("create agent client failed, err: %w", err)
			}

			s := agent.NewServer(client)
			if httpAddr != "" {
				logger.Infof("serving %s v%s on %s, project=%s location=%s",
					cmd.Use, agent.Version, httpAddr, cfg.Project.ID, cfg.Project.Location)
				return server.NewStreamableHTTPServer(s).Start(httpAddr)
			}
			logger.Infof("serving %s v%s on stdio, project=%s location=%s",
				cmd.Use, agent.Version, cfg.Project.ID, cfg.Project.Location)
			return server.ServeStdio(s)
		},
	}
	root.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	root.Flags().StringVar(&httpAddr, "http", "", "serve streamable HTTP on this address instead of stdio")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
