package service

import (
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ImportNotifier posts import summaries to a configured webhook so case
// managers hear about new uploads without polling. Delivery is best-effort:
// a failed post is logged and the import stands, mirroring the audit-sink
// policy.
type ImportNotifier struct {
	client *resty.Client
	url    string
	logger *zap.Logger
}

// NewImportNotifier returns nil when no webhook URL is configured, which
// callers treat as "notifications disabled".
func NewImportNotifier(url string, logger *zap.Logger) *ImportNotifier {
	if url == "" {
		return nil
	}
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetHeader("Content-Type", "application/json")
	return &ImportNotifier{client: client, url: url, logger: logger}
}

func (n *ImportNotifier) ImportCompleted(filename string, result *ImportResult) {
	payload := map[string]any{
		"event":     "import.completed",
		"file":      filename,
		"summary":   result.Summary,
		"headersOk": result.HeadersOK,
	}
	resp, err := n.client.R().SetBody(payload).Post(n.url)
	if err != nil {
		n.logger.Warn("import webhook delivery failed", zap.Error(err))
		return
	}
	if resp.IsError() {
		n.logger.Warn("import webhook rejected",
			zap.Int("status", resp.StatusCode()),
			zap.String("url", n.url))
	}
}
