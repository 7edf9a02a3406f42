package geo

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Human readable summaries, used by the geoinfo tool and handy in
// debugger sessions. Verbosity 0 is one line; each level adds detail.

// Info returns a multi-line summary of the whole detector.
func (g *GeometryCore) Info(indent string, verbosity int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "detector %q (world volume %q): %d cryostat(s), %d TPC(s), %d channel(s), %d auxiliary detector(s)\n",
		g.DetectorName(), g.WorldVolumeName(),
		g.Ncryostats(), g.TotalNTPCs(), g.Nchannels(), g.NAuxDets())
	if verbosity < 1 {
		return b.String()
	}
	for c := range g.Cryostats() {
		fmt.Fprintf(&b, "%s%s: %d TPC(s), %d optical detector(s), box %s\n",
			indent, c.ID(), c.NTPC(), c.NOpDets(), boxInfo(c.BoundingBox()))
		if verbosity < 2 {
			continue
		}
		for i := 0; i < c.NTPC(); i++ {
			t, _ := c.TPC(i)
			fmt.Fprintf(&b, "%s  %s: %d plane(s), drift %s over %.1f cm\n",
				indent, t.ID(), t.Nplanes(), dirInfo(t.DriftDir()), t.DriftDistance())
			for j := 0; j < t.Nplanes(); j++ {
				p, _ := t.Plane(j)
				b.WriteString(indent + "    " + p.PlaneInfo(verbosity) + "\n")
			}
		}
	}
	for i, ad := range g.auxDets {
		fmt.Fprintf(&b, "%saux det %d %q: %d sensitive volume(s)\n",
			indent, i, ad.Name(), ad.NSensitiveVolume())
	}
	return b.String()
}

// PlaneInfo returns a one- or two-line summary of a plane.
func (p *PlaneGeo) PlaneInfo(verbosity int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: view %s, %s, %d wires, pitch %.4g cm",
		p.ID(), p.View(), p.Orientation(), p.NWires(), p.WirePitch())
	if verbosity >= 3 {
		fmt.Fprintf(&b, "\n      normal %s, wire dir %s, center %s, active %.4g x %.4g cm",
			dirInfo(p.GetNormalDirection()), dirInfo(p.GetWireDirection()),
			vecString(p.GetCenter()),
			p.ActiveArea().Width.Size(), p.ActiveArea().Depth.Size())
	}
	return b.String()
}

func boxInfo(b Box) string {
	return fmt.Sprintf("%s -- %s", vecString(b.Min()), vecString(b.Max()))
}

func dirInfo(v r3.Vec) string {
	return fmt.Sprintf("(%.3g,%.3g,%.3g)", v.X, v.Y, v.Z)
}
