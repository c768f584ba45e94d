package main

import (
	"AdminAPI/internal/config"
	"AdminAPI/internal/endpoint"
	"AdminAPI/internal/logger"
	"AdminAPI/internal/resolver"
	"AdminAPI/internal/store"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var (
	runEndpoints string
	runEndpoint  string
	runData      string
	runQuery     string
	runExport    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Apply a query to a JSON file of records and print the result",
	Long: `run loads the records of a JSON array file as the collection of one endpoint and
prints the list response, or the export content with --export. Nothing is read from
Postgres or Redis.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if debug {
			logger.SetOutput(os.Stderr)
			logger.SetDebug(true)
		}
		dir := runEndpoints
		if dir == "" {
			dir = config.LoadConfig().EndpointsDir
		}
		return runQueryFile(cmd.Context(), cmd.OutOrStdout(), dir)
	},
}

func init() {
	runCmd.Flags().StringVar(&runEndpoints, "endpoints", "", "endpoint definitions directory (default ENDPOINTS_DIR)")
	runCmd.Flags().StringVarP(&runEndpoint, "endpoint", "e", "", "endpoint name")
	runCmd.Flags().StringVar(&runData, "data", "", "JSON array of records")
	runCmd.Flags().StringVarP(&runQuery, "query", "q", "", "raw query string, e.g. \"status=active&page=2\"")
	runCmd.Flags().BoolVar(&runExport, "export", false, "print export content instead of a page")
	_ = runCmd.MarkFlagRequired("endpoint")
	_ = runCmd.MarkFlagRequired("data")
}

func runQueryFile(ctx context.Context, out io.Writer, dir string) error {
	endpoints, err := endpoint.LoadDir(dir)
	if err != nil {
		return err
	}
	ep, err := endpoints.Get(runEndpoint)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(runData)
	if err != nil {
		return fmt.Errorf("read data: %w", err)
	}
	records, err := store.DecodeRecords(data)
	if err != nil {
		return err
	}
	params, err := url.ParseQuery(runQuery)
	if err != nil {
		return fmt.Errorf("parse query: %w", err)
	}

	mem := store.NewMemory()
	mem.Put(resolver.DefaultTenant, ep.Collection, records)
	res := resolver.New(endpoints, mem)
	req := resolver.Request{Endpoint: ep.Name, Params: params}

	if runExport {
		result, err := res.Export(ctx, req)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, result.Content)
		return err
	}
	result, err := res.List(ctx, req)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
