package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sgdash/sgdash/internal/models"
)

type SlackNotifier struct {
	WebhookURL string
	Channel    string
}

type slackMessage struct {
	Channel     string            `json:"channel,omitempty"`
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji"`
	Text        string            `json:"text"`
	Attachments []slackAttachment `json:"attachments"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Text   string       `json:"text"`
	Fields []slackField `json:"fields"`
	Footer string       `json:"footer"`
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

func NewSlackNotifier(webhookURL, channel string) *SlackNotifier {
	return &SlackNotifier{
		WebhookURL: webhookURL,
		Channel:    channel,
	}
}

// SendSummary posts the outcome of a scan: the aggregate metrics plus up to
// five of the high-risk rules found.
func (s *SlackNotifier) SendSummary(metrics models.MetricsSnapshot, rules []models.Rule) error {
	if metrics.HighRiskRules == 0 {
		return s.sendCleanReport(metrics)
	}

	text := fmt.Sprintf("🚨 *sgdash Scan Complete*\nFound *%d* high risk rules open to the internet", metrics.HighRiskRules)

	attachments := []slackAttachment{
		{
			Color: "danger",
			Title: fmt.Sprintf("Summary (%d public rules)", metrics.TotalRules),
			Fields: []slackField{
				{Title: "Security Groups", Value: fmt.Sprintf("%d", metrics.TotalGroups), Short: true},
				{Title: "Public Rules", Value: fmt.Sprintf("%d", metrics.TotalRules), Short: true},
				{Title: "Allowed (80/443)", Value: fmt.Sprintf("%d", metrics.AllowedRules), Short: true},
				{Title: "High Risk", Value: fmt.Sprintf("%d", metrics.HighRiskRules), Short: true},
			},
			Footer: "sgdash",
		},
	}

	highText := ""
	listed := 0
	for _, r := range rules {
		if r.Risk != models.RiskHigh {
			continue
		}
		if listed >= 5 {
			highText += fmt.Sprintf("\n_...and %d more_", metrics.HighRiskRules-5)
			break
		}
		listed++
		highText += fmt.Sprintf("• `%s` (%s) port %s open to %s\n", r.SecurityGroupID, r.SecurityGroupName, r.PortRange, r.OpenTo)
	}
	if highText != "" {
		attachments = append(attachments, slackAttachment{
			Color: "danger",
			Title: "🔴 High Risk Rules",
			Text:  highText,
		})
	}

	msg := slackMessage{
		Channel:     s.Channel,
		Username:    "sgdash",
		IconEmoji:   ":shield:",
		Text:        text,
		Attachments: attachments,
	}

	return s.sendMessage(msg)
}

func (s *SlackNotifier) sendCleanReport(metrics models.MetricsSnapshot) error {
	msg := slackMessage{
		Channel:   s.Channel,
		Username:  "sgdash",
		IconEmoji: ":white_check_mark:",
		Text: fmt.Sprintf("✅ *sgdash Scan Complete*\n%d public rules across %d groups, all on allowed ports (80/443).",
			metrics.TotalRules, metrics.TotalGroups),
	}

	return s.sendMessage(msg)
}

func (s *SlackNotifier) sendMessage(msg slackMessage) error {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal slack message: %w", err)
	}

	resp, err := http.Post(s.WebhookURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send slack message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned non-200 status: %d", resp.StatusCode)
	}

	return nil
}
