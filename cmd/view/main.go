//go:build ebiten

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"terrafill/internal/app"
	"terrafill/internal/terrain"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	cfg.BindView(flag.CommandLine)
	flag.Parse()

	tc := cfg.Terrain()
	if _, err := terrain.NewProducer(tc); err != nil {
		log.Fatal(err)
	}
	session := terrain.NewSession(tc)
	game := app.New(session, cfg.Scale, cfg.HUDWidth)

	ebiten.SetWindowTitle(fmt.Sprintf("terrafill - %s seed %d", tc.Producer, tc.Seed))
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(tc.Side*cfg.Scale+cfg.HUDWidth, tc.Side*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
