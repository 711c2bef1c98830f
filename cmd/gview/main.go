package main

import (
	"context"
	"fmt"
	"os"

	"gview/internal/config"
	"gview/internal/gui"
	"gview/internal/logging"
	"gview/pkg/api"
	"gview/pkg/pickle"
	"gview/pkg/viewer"
)

const usage = "q -> quit, z -> zoomin, x -> zoomout, o -> open file, " +
	"PageUp & PageDown, drag mouse1 -> translate, mouse2 -> Popup Menu"

func main() {
	cfg, cfgErr := config.Load()
	log := logging.Default(cfg.LogLevel)
	if cfgErr != nil {
		log.Warn().Err(cfgErr).Msg("using default configuration")
	}
	ctx := logging.WithLogger(context.Background(), log)

	path := cfg.DefaultDocument
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	fmt.Println(usage)

	cmds := cfg.Commands()
	opts := []pickle.DispatcherOption{pickle.WithLogger(log)}
	if cfg.DropStale {
		opts = append(opts, pickle.WithDropStale())
	}
	d := pickle.NewDispatcher(func(p string) (*api.Document, error) {
		return api.Open(p, cmds)
	}, opts...)

	s := viewer.New(d, cfg.Session(), log)
	gui.NewApp(ctx, cfg, s, log).Run(path)
}
