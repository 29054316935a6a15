package main

import "github.com/akshita1420/maj-proj/internal/pipeline"

var clusterCmd = stageCommand("cluster",
	"Tier districts into Low/Medium/High risk with k-means",
	`Clusters the latest year's accidents per 100k into three groups with a
seeded k-means and labels them by ascending mean rate. Districts without a
rate are left untiered.`,
	(*pipeline.Runner).Cluster,
)

func init() {
	rootCmd.AddCommand(clusterCmd)
}
