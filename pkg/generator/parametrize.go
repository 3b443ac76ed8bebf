package generator

import (
	"regexp"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/flowsmith/flowsmith/pkg/catalog"
	"github.com/flowsmith/flowsmith/pkg/models"
)

var (
	channelPattern   = regexp.MustCompile(`#[a-zA-Z0-9_-]+`)
	emailPattern     = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	urlPattern       = regexp.MustCompile(`https?://[^\s"']+`)
	conditionPattern = regexp.MustCompile(`(?i)\bif\s+(?:the\s+)?([a-zA-Z_][a-zA-Z0-9_ ]{0,40}?)\s+(?:is|equals|==)\s+("[^"]+"|[^\s,.;]+)`)
	intervalPattern  = regexp.MustCompile(`(?i)every\s+(\d+)\s+minutes?`)
)

// Domain nouns that hint at the storage target name.
var storageNouns = []string{"customer", "order", "lead", "invoice", "ticket", "subscriber", "product", "user", "contact"}

// Parametrize instantiates a node from its blueprint, overriding template
// defaults with values extracted from the request text. Every produced node
// has a non-empty parameter set.
func Parametrize(spec catalog.NodeSpec, text string) *models.Node {
	params := make(map[string]any, len(spec.Parameters))
	for k, v := range spec.Parameters {
		params[k] = v
	}

	applyExtractionRules(spec.Type, params, text)

	if len(params) == 0 {
		params["notes"] = "auto-generated"
	}

	node := models.NewNode(spec.Name, spec.Type, params)
	node.TypeVersion = spec.TypeVersion

	if node.TypeVersion == 0 {
		node.TypeVersion = 1
	}

	return node
}

func applyExtractionRules(nodeType string, params map[string]any, text string) {
	switch nodeType {
	case models.NodeTypeSlack, models.NodeTypeTelegram, models.NodeTypeDiscord:
		if channel := channelPattern.FindString(text); channel != "" {
			params["channel"] = channel
		} else if _, ok := params["channel"]; !ok && nodeType == models.NodeTypeSlack {
			params["channel"] = "#general"
		}

		if _, ok := params["text"]; !ok {
			params["text"] = "Automation update: {{ $json.summary }}"
		}

	case models.NodeTypeEmailSend:
		if email := emailPattern.FindString(text); email != "" {
			params["toEmail"] = email
		} else if _, ok := params["toEmail"]; !ok {
			params["toEmail"] = "user@example.com"
		}

		if _, ok := params["subject"]; !ok {
			params["subject"] = "Automation notification"
		}

	case models.NodeTypeIf:
		if field, value, ok := extractCondition(text); ok {
			params["field"] = field
			params["value"] = value
		} else if _, present := params["field"]; !present {
			params["field"] = "status"
			params["value"] = "active"
		}

	case models.NodeTypePostgres, models.NodeTypeAirtable:
		if table := extractStorageTarget(text); table != "" {
			params["table"] = table
		} else if _, ok := params["table"]; !ok {
			params["table"] = "records"
		}

	case models.NodeTypeGoogleSheets:
		if sheet := extractStorageTarget(text); sheet != "" {
			params["sheetName"] = sheet
		} else if _, ok := params["sheetName"]; !ok {
			params["sheetName"] = "records"
		}

	case models.NodeTypeHTTPRequest:
		if url := urlPattern.FindString(text); url != "" {
			params["url"] = url
		}

		if _, ok := params["method"]; !ok {
			params["method"] = "GET"
		}

	case models.NodeTypeRSSFeedRead:
		if url := urlPattern.FindString(text); url != "" && looksLikeFeedURL(url) {
			params["url"] = url
		}

	case models.NodeTypeScheduleTrigger:
		if expr := deriveCronExpression(text); expr != "" {
			params["cronExpression"] = expr
		} else if _, ok := params["cronExpression"]; !ok {
			params["cronExpression"] = "0 9 * * *"
		}

	case models.NodeTypeOpenAI:
		if _, ok := params["prompt"]; !ok {
			params["prompt"] = "Process the following request: " + excerpt(text, 140)
		}

		if _, ok := params["model"]; !ok {
			params["model"] = "gpt-4o-mini"
		}
	}
}

func extractCondition(text string) (field, value string, ok bool) {
	match := conditionPattern.FindStringSubmatch(text)
	if match == nil {
		return "", "", false
	}

	field = strings.ToLower(strings.TrimSpace(match[1]))
	field = strings.ReplaceAll(field, " ", "_")
	value = strings.Trim(match[2], `"`)

	return field, value, true
}

func extractStorageTarget(text string) string {
	lowered := strings.ToLower(text)

	for _, noun := range storageNouns {
		if strings.Contains(lowered, noun) {
			return noun + "s"
		}
	}

	return ""
}

func looksLikeFeedURL(url string) bool {
	lowered := strings.ToLower(url)

	return strings.HasSuffix(lowered, ".xml") ||
		strings.Contains(lowered, "rss") ||
		strings.Contains(lowered, "feed")
}

// deriveCronExpression maps common recurrence phrases to cron syntax. The
// result is parsed back through the cron library; anything it rejects is
// discarded in favor of the template default.
func deriveCronExpression(text string) string {
	lowered := strings.ToLower(text)

	var expr string

	switch {
	case intervalPattern.MatchString(lowered):
		match := intervalPattern.FindStringSubmatch(lowered)
		expr = "*/" + match[1] + " * * * *"
	case strings.Contains(lowered, "every hour") || strings.Contains(lowered, "hourly"):
		expr = "0 * * * *"
	case strings.Contains(lowered, "every week") || strings.Contains(lowered, "weekly") || strings.Contains(lowered, "every monday"):
		expr = "0 9 * * 1"
	case strings.Contains(lowered, "every morning"):
		expr = "0 8 * * *"
	case strings.Contains(lowered, "every day") || strings.Contains(lowered, "daily"):
		expr = "0 9 * * *"
	default:
		return ""
	}

	if _, err := cron.ParseStandard(expr); err != nil {
		return ""
	}

	return expr
}

func excerpt(text string, limit int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "the automation request"
	}

	if len(trimmed) <= limit {
		return trimmed
	}

	return trimmed[:limit] + "..."
}

// defaultSpecFor builds a blueprint for a node type a feature requires but
// the selected template does not cover. The parametrizer fills the rest.
func defaultSpecFor(nodeType string) catalog.NodeSpec {
	spec := catalog.NodeSpec{Type: nodeType, TypeVersion: 1, Parameters: map[string]any{}}

	switch nodeType {
	case models.NodeTypeWebhook:
		spec.Name = "Webhook"
		spec.Parameters = map[string]any{"path": "/automation", "httpMethod": "POST"}
	case models.NodeTypeScheduleTrigger:
		spec.Name = "Schedule Trigger"
	case models.NodeTypeManualTrigger:
		spec.Name = "Manual Trigger"
		spec.Parameters = map[string]any{"notes": "started manually"}
	case models.NodeTypeHTTPRequest:
		spec.Name = "HTTP Request"
		spec.Parameters = map[string]any{"url": "https://api.example.com/data"}
	case models.NodeTypeSet:
		spec.Name = "Transform Data"
		spec.Parameters = map[string]any{"mode": "manual", "assignments": map[string]any{"status": "processed"}}
	case models.NodeTypeIf:
		spec.Name = "Check Condition"
	case models.NodeTypeCode:
		spec.Name = "Run Code"
		spec.Parameters = map[string]any{"language": "javascript", "code": "return items;"}
	case models.NodeTypeRSSFeedRead:
		spec.Name = "Read RSS Feed"
		spec.Parameters = map[string]any{"url": "https://news.example.com/rss.xml"}
	case models.NodeTypeSlack:
		spec.Name = "Send Slack Message"
	case models.NodeTypeTelegram:
		spec.Name = "Send Telegram Message"
	case models.NodeTypeDiscord:
		spec.Name = "Send Discord Message"
	case models.NodeTypeEmailSend:
		spec.Name = "Send Email"
	case models.NodeTypeTwitter:
		spec.Name = "Post to Twitter"
		spec.Parameters = map[string]any{"text": "{{ $json.content }}"}
	case models.NodeTypeLinkedIn:
		spec.Name = "Share on LinkedIn"
		spec.Parameters = map[string]any{"text": "{{ $json.content }}"}
	case models.NodeTypeGoogleSheets:
		spec.Name = "Append to Sheet"
		spec.Parameters = map[string]any{"operation": "append"}
	case models.NodeTypePostgres:
		spec.Name = "Store Record"
		spec.Parameters = map[string]any{"operation": "insert"}
	case models.NodeTypeAirtable:
		spec.Name = "Store in Airtable"
		spec.Parameters = map[string]any{"operation": "create"}
	case models.NodeTypeOpenAI:
		spec.Name = "AI Processing"
		spec.Parameters = map[string]any{"operation": "complete"}
	default:
		spec.Name = "Process Step"
		spec.Parameters = map[string]any{"notes": "auto-generated"}
	}

	return spec
}
