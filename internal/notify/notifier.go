// Package notify delivers best-effort webhook notifications in the
// Discord embed format. Delivery failures are logged and swallowed:
// notification is observability, never a correctness dependency.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const webhookTimeout = 10 * time.Second

// Embed colors.
const (
	colorError   = 15158332 // red
	colorInfo    = 3447003  // blue
	colorSuccess = 3066993  // green
)

type field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embed struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Color       int     `json:"color"`
	Fields      []field `json:"fields,omitempty"`
	Footer      *struct {
		Text string `json:"text"`
	} `json:"footer,omitempty"`
}

type payload struct {
	Embeds []embed `json:"embeds"`
}

// Notifier posts webhook messages. A Notifier with an empty URL is a
// valid no-op, so callers never need nil checks.
type Notifier struct {
	webhookURL string
	client     *http.Client
}

// New creates a Notifier for the given webhook URL. An empty URL yields
// a no-op notifier.
func New(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: webhookTimeout},
	}
}

// SendError reports a failure, optionally naming the processing context
// and the file being worked on.
func (n *Notifier) SendError(ctx context.Context, cause error, processCtx, fileName string) {
	fields := []field{}
	if processCtx != "" {
		fields = append(fields, field{Name: "Process", Value: processCtx, Inline: true})
	}
	if fileName != "" {
		fields = append(fields, field{Name: "File", Value: fmt.Sprintf("`%s`", fileName), Inline: true})
	}
	fields = append(fields,
		field{Name: "Time", Value: time.Now().Format("2006-01-02 15:04:05"), Inline: true},
		field{Name: "Error", Value: fmt.Sprintf("```%s```", truncate(cause.Error(), 1000))},
	)
	n.send(ctx, embed{Title: "echome error", Color: colorError, Fields: fields})
}

// SendReview announces generated drafts awaiting review.
func (n *Notifier) SendReview(ctx context.Context, fileNames []string, sourceFile string) {
	fields := []field{
		{Name: "Source", Value: fmt.Sprintf("`%s`", sourceFile), Inline: true},
	}
	for _, name := range fileNames {
		fields = append(fields, field{Name: "Draft", Value: fmt.Sprintf("`%s`", name)})
	}
	n.send(ctx, embed{
		Title:       "echome drafts ready for review",
		Description: "New generated content was uploaded to the output folder.",
		Color:       colorInfo,
		Fields:      fields,
	})
}

// SendPublished announces a successful knowledge-base publication.
func (n *Notifier) SendPublished(ctx context.Context, title, pageID, sourceFile string) {
	n.send(ctx, embed{
		Title: "echome page published",
		Color: colorSuccess,
		Fields: []field{
			{Name: "Page", Value: title, Inline: true},
			{Name: "Page ID", Value: fmt.Sprintf("`%s`", pageID), Inline: true},
			{Name: "Source", Value: fmt.Sprintf("`%s`", sourceFile), Inline: true},
		},
	})
}

// send posts the payload and swallows every failure.
func (n *Notifier) send(ctx context.Context, e embed) {
	if n.webhookURL == "" {
		return
	}
	body, err := json.Marshal(payload{Embeds: []embed{e}})
	if err != nil {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		slog.Warn("notify: build request failed", slog.String("error", err.Error()))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		slog.Warn("notify: webhook delivery failed", slog.String("error", err.Error()))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		slog.Warn("notify: webhook rejected", slog.Int("status", resp.StatusCode))
	}
}

func truncate(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
