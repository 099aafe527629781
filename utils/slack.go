package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/flowhr/flowhr/config"
)

type slackPayload struct {
	Text string `json:"text"`
}

// NotifySlack posts a message to the configured incoming webhook. It is
// fire-and-forget: a missing webhook or a failed delivery never affects the
// caller beyond a warning log.
func NotifySlack(format string, args ...interface{}) {
	url := config.Get().SlackWebhookURL
	if url == "" {
		return
	}

	body, err := json.Marshal(slackPayload{Text: fmt.Sprintf(format, args...)})
	if err != nil {
		return
	}

	go func() {
		client := &http.Client{Timeout: 5 * time.Second}
		resp, err := client.Post(url, "application/json", bytes.NewReader(body))
		if err != nil {
			if Sugar != nil {
				Sugar.Warnf("slack webhook post failed: %v", err)
			}
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 && Sugar != nil {
			Sugar.Warnf("slack webhook returned status %d", resp.StatusCode)
		}
	}()
}
