// Package notify posts job failure alerts to Slack so operators hear about
// broken syncs and report runs without watching the dashboard.
package notify

import (
	"fmt"
	"log"

	"github.com/slack-go/slack"

	"merchant-portal/internal/config"
)

// JobFailed posts a failure message for jobName. A missing token disables
// notifications; delivery problems are logged, never propagated, so a Slack
// outage cannot fail a job that already succeeded or break a batch.
func JobFailed(jobName string, jobErr error) {
	cfg := config.AppConfig
	if cfg == nil || cfg.Slack.Token == "" {
		return
	}

	api := slack.New(cfg.Slack.Token)
	_, _, err := api.PostMessage(cfg.Slack.Channel,
		slack.MsgOptionText(fmt.Sprintf(":rotating_light: job `%s` failed: %s", jobName, jobErr), false),
	)
	if err != nil {
		log.Printf("WARNING: failed to post slack notification for %s: %v", jobName, err)
	}
}
