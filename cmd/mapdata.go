package main

import "github.com/akshita1420/maj-proj/internal/pipeline"

var mapdataCmd = stageCommand("mapdata",
	"Export choropleth GeoJSON for the rate and risk-tier maps",
	`Joins the latest rate and the risk tier onto the district boundaries and
writes two FeatureCollections with fill colors, tooltips and label points.
Requires the outputs of merge and cluster and a boundary file.`,
	(*pipeline.Runner).MapData,
)

func init() {
	rootCmd.AddCommand(mapdataCmd)
}
