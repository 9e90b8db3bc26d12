package memstore

import "time"

// StatusNotes builds the current project status notes pushed to the
// knowledge store after a validation session. Pure data construction; the
// date is injected so tests can assert exact shape.
func StatusNotes(now time.Time) ([]Entity, []Relation) {
	date := now.Format("2006-01-02")

	entities := []Entity{
		{
			Name:       "workflow_validation",
			EntityType: "status",
			Observations: []string{
				"Webhook smoke suite covers simple, deploy-ready, batch analysis, market scan and invalid-payload scenarios",
				"Suite exit status wired into the deployment checklist",
				"Validated on " + date,
			},
		},
		{
			Name:       "webhook_endpoints",
			EntityType: "infrastructure",
			Observations: []string{
				"Five webhook paths under one n8n base URL",
				"Batch analysis trigger accepts symbols, priority and metadata",
				"Market scan action multiplexed over the simple webhook via an action discriminator",
			},
		},
		{
			Name:       "scheduled_workflows",
			EntityType: "infrastructure",
			Observations: []string{
				"Market Scanner runs every 30 minutes during market hours and checks VIX for volatility",
				"Signal Monitor runs every 15 minutes and tracks signals with score >= 70",
				"Both can be manually triggered in the n8n UI",
			},
		},
		{
			Name:       "infrastructure_decisions",
			EntityType: "architecture",
			Observations: []string{
				"Cloud-hosted n8n chosen for uptime and zero maintenance",
				"Webhook rejection behavior probed with an empty symbol list rather than schema inspection",
				"No retry or backoff in the harness; a rerun is the only recovery path",
			},
		},
	}

	relations := []Relation{
		{From: "workflow_validation", To: "webhook_endpoints", RelationType: "validates"},
		{From: "workflow_validation", To: "scheduled_workflows", RelationType: "documents"},
		{From: "webhook_endpoints", To: "infrastructure_decisions", RelationType: "follows"},
	}

	return entities, relations
}
