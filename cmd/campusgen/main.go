package main

import (
	"context"
	"flag"
	"path/filepath"

	"github.com/lintang-b-s/smartmeet/pkg/datastructure"
	"github.com/lintang-b-s/smartmeet/pkg/logger"
	"github.com/lintang-b-s/smartmeet/pkg/osmparser"
	"go.uber.org/zap"
)

var (
	mapFile  = flag.String("f", "./data/campus.osm.pbf", "openstreetmap extract (.osm, .osm.bz2 or .osm.pbf)")
	campus   = flag.String("campus", "", "campus name tagged on every node and poi")
	outDir   = flag.String("out", "./data/campus", "output directory")
	compress = flag.Bool("bz2", false, "write bzip2 compressed sources")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	rc, err := datastructure.OpenSource(*mapFile)
	if err != nil {
		logger.Fatal("open map file", zap.Error(err))
	}
	defer rc.Close()

	res, err := osmparser.NewCampusParser(*campus, logger).Parse(context.Background(), rc, osmparser.FormatFromPath(*mapFile))
	if err != nil {
		logger.Fatal("parse map file", zap.Error(err))
	}

	ext := ".json"
	if *compress {
		ext = ".json.bz2"
	}
	nodesPath := filepath.Join(*outDir, "nodes"+ext)
	edgesPath := filepath.Join(*outDir, "edges"+ext)
	poisPath := filepath.Join(*outDir, "pois"+ext)

	if err := datastructure.WriteNodes(nodesPath, res.Nodes); err != nil {
		logger.Fatal("write nodes", zap.Error(err))
	}
	if err := datastructure.WriteEdges(edgesPath, res.Edges); err != nil {
		logger.Fatal("write edges", zap.Error(err))
	}
	if err := datastructure.WritePOIs(poisPath, res.POIs); err != nil {
		logger.Fatal("write pois", zap.Error(err))
	}

	logger.Info("campus sources written",
		zap.String("nodes", nodesPath),
		zap.String("edges", edgesPath),
		zap.String("pois", poisPath))
}
