// wireplot draws the wire layout of every plane of a detector
// description, one figure per plane, projected on the (z, y) plane.
package main

import (
	"flag"
	"fmt"
	"log"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/sabasehrish/larcorealg/geo"
)

func main() {
	var (
		desc   string
		outDir string
	)
	flag.StringVar(&desc, "desc", "", "Detector description file to load.")
	flag.StringVar(&outDir, "out", ".", "Directory the plane figures go to.")
	flag.Parse()

	if desc == "" {
		log.Fatal("Must supply a description file via -desc.")
	}

	g, err := geo.LoadDescription(desc)
	if err != nil {
		log.Fatal(err.Error())
	}

	for p := range g.Planes() {
		plotPlane(g, p, outDir)
	}
	plt.Execute()
}

func plotPlane(g *geo.GeometryCore, p *geo.PlaneGeo, outDir string) {
	id := p.ID()
	fname := fmt.Sprintf("%s/wires_c%d_t%d_p%d.png",
		outDir, id.Cryostat, id.TPC, id.Plane)

	plt.Figure(plt.FigSize(8, 8))
	for i := 0; i < p.NWires(); i++ {
		start, end, err := g.WireEndPoints(geo.NewWireID(
			id.Cryostat, id.TPC, id.Plane, i))
		if err != nil {
			log.Fatal(err.Error())
		}
		plt.Plot(
			[]float64{start.Z, end.Z}, []float64{start.Y, end.Y},
			"b", plt.LW(0.5),
		)
	}
	plt.Title(fmt.Sprintf(
		"%s: view %s, %d wires, pitch %.3g cm",
		id, p.View(), p.NWires(), p.WirePitch(),
	))
	plt.XLabel(`$z$ [cm]`, plt.FontSize(16))
	plt.YLabel(`$y$ [cm]`, plt.FontSize(16))
	plt.SaveFig(fname)
}
