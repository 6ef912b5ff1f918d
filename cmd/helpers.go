package cmd

import (
	"fmt"
	"strings"

	"github.com/ch0002ic/creatorcoin-ai/client"
	"github.com/ch0002ic/creatorcoin-ai/config"
)

// parseMetadata turns repeated --meta key=value flags into a metadata map
func parseMetadata(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	meta := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("metadata entry %q is not key=value", pair)
		}
		meta[key] = value
	}
	return meta, nil
}

// withRequestID adds a client-chosen idempotency key to the metadata map
func withRequestID(meta map[string]string, requestID string) map[string]string {
	if requestID == "" {
		return meta
	}
	if meta == nil {
		meta = make(map[string]string, 1)
	}
	meta["requestId"] = requestID
	return meta
}

func newClient(nodeURL string) *client.LedgerClient {
	return client.NewClient(client.Config{Endpoint: nodeURL})
}

func explainRPCError(err error) string {
	if ledgerErr := client.DecodeError(err); ledgerErr != nil {
		return fmt.Sprintf("%s (%s)", ledgerErr.Message, ledgerErr.Code)
	}
	return err.Error()
}

func loadNodeConfigOrDefault(path string) (*config.NodeConfig, error) {
	if path == "" {
		return config.DefaultNodeConfig(), nil
	}
	return config.LoadNodeConfig(path)
}

func loadLedgerConfigOrDefault(path string) (*config.LedgerConfig, error) {
	if path == "" {
		return config.DefaultLedgerConfig(), nil
	}
	return config.LoadLedgerConfig(path)
}
