package models

import (
	"gorm.io/datatypes"
)

// DefaultCatalog is the fallback course catalog seeded at startup when the
// course table is empty, so a fresh deployment has something to browse.
func DefaultCatalog() []Course {
	return []Course{
		{
			ID:          "1",
			Title:       "Mastering AWS EKS",
			Description: "Learn how to deploy and manage production-ready Kubernetes clusters on AWS.",
			Instructor:  "Alex Rivera",
			Price:       99,
			Duration:    "12h 30m",
			StartDate:   "2024-05-15",
			Category:    "Cloud",
			Thumbnail:   "https://picsum.photos/seed/eks/400/250",
			Trend:       TrendHot,
			Enrolled:    1240,
			Roadmap: datatypes.JSONSlice[string]{
				"Cluster Networking",
				"IAM Roles for Service Accounts",
				"Autoscaling with Karpenter",
				"GitOps with ArgoCD",
			},
		},
		{
			ID:          "2",
			Title:       "Terraform for DevOps Engineers",
			Description: "Infrastructure as Code from scratch to multi-environment deployment.",
			Instructor:  "Sarah Chen",
			Price:       79,
			Duration:    "8h 15m",
			StartDate:   "2024-06-01",
			Category:    "Infrastructure",
			Thumbnail:   "https://picsum.photos/seed/tf/400/250",
			Trend:       TrendGrowing,
			Enrolled:    850,
			Roadmap: datatypes.JSONSlice[string]{
				"State Management",
				"Modules & Reusability",
				"Terragrunt Integration",
				"Policy as Code with Sentinel",
			},
		},
	}
}
