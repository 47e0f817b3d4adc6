package cmd

import (
	"net/http"
	"strings"

	"github.com/InfinityHack3r/abnBulkLookup/internal/abr"
	"github.com/InfinityHack3r/abnBulkLookup/internal/export"
	"github.com/InfinityHack3r/abnBulkLookup/internal/lookup"
)

// newService wires the ABR client into a lookup service using cfg.
func newService() *lookup.Service {
	client := abr.New(http.DefaultClient, cfg.Endpoint)
	return lookup.New(client, lookup.Options{Workers: cfg.MaxConcurrency})
}

// newExporter builds the spreadsheet exporter from cfg.
func newExporter() *export.Exporter {
	return export.New(export.Options{
		MissingSuffix: cfg.MissingSuffix,
		OutputDir:     cfg.OutputDir,
		NameFormat:    cfg.OutputNameFormat,
	})
}

// apiKey returns the configured API key or errNoAPIKey.
func apiKey() (string, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return "", errNoAPIKey
	}
	return key, nil
}
