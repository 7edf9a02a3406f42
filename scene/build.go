package scene

import (
	"fmt"
	"math"
	"sort"

	"github.com/phil-mansfield/table"
	"gonum.org/v1/gonum/spatial/r3"
	gcfg "gopkg.in/gcfg.v1"
)

// Densities of the materials every description knows about, in g/cm^3.
// [Material "name"] sections extend or override this set.
var builtinDensity = map[string]float64{
	"Air":         0.001205,
	"Argon":       0.001396,
	"LAr":         1.390,
	"Steel":       7.930,
	"Copper":      8.960,
	"G10":         1.700,
	"Polystyrene": 1.060,
	"Acrylic":     1.190,
	"Vacuum":      1e-25,
}

// Load reads a description file, validates it, and builds its node tree.
func Load(fname string) (*Node, error) {
	cfg, err := LoadConfig(fname)
	if err != nil {
		return nil, err
	}
	return Build(cfg)
}

// LoadString is Load for an in-memory description.
func LoadString(text string) (*Node, error) {
	cfg, err := LoadConfigString(text)
	if err != nil {
		return nil, err
	}
	return Build(cfg)
}

// LoadConfig reads and decodes a description file without building the
// tree, for callers that also want the metadata sections.
func LoadConfig(fname string) (*DescConfig, error) {
	cfg := &DescConfig{}
	if err := gcfg.ReadFileInto(cfg, fname); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigString is LoadConfig for an in-memory description.
func LoadConfigString(text string) (*DescConfig, error) {
	cfg := &DescConfig{}
	if err := gcfg.ReadStringInto(cfg, text); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Build validates cfg and turns it into a node tree rooted at the world
// volume. Children at every level are attached in section name order, so
// a given description always yields the same tree.
func Build(cfg *DescConfig) (*Node, error) {
	if err := cfg.CheckInit(); err != nil {
		return nil, err
	}
	if err := checkRefs(cfg); err != nil {
		return nil, err
	}

	b := &descBuilder{cfg: cfg, density: map[string]float64{}}
	for name, d := range builtinDensity {
		b.density[name] = d
	}
	for name, m := range cfg.Material {
		b.density[name] = m.Density
	}
	return b.world()
}

func checkRefs(cfg *DescConfig) error {
	for _, name := range sortedNames(cfg.TPC) {
		t := cfg.TPC[name]
		if _, ok := cfg.Cryostat[t.Cryostat]; !ok {
			return fmt.Errorf(
				"TPC '%s' references unknown Cryostat '%s' (have: %s).",
				name, t.Cryostat, nameList(sortedNames(cfg.Cryostat)),
			)
		}
	}
	for _, name := range sortedNames(cfg.Plane) {
		p := cfg.Plane[name]
		if _, ok := cfg.TPC[p.TPC]; !ok {
			return fmt.Errorf(
				"Plane '%s' references unknown TPC '%s' (have: %s).",
				name, p.TPC, nameList(sortedNames(cfg.TPC)),
			)
		}
	}
	for _, name := range sortedNames(cfg.OpDet) {
		o := cfg.OpDet[name]
		if _, ok := cfg.Cryostat[o.Cryostat]; !ok {
			return fmt.Errorf(
				"OpDet '%s' references unknown Cryostat '%s' (have: %s).",
				name, o.Cryostat, nameList(sortedNames(cfg.Cryostat)),
			)
		}
	}
	return nil
}

type descBuilder struct {
	cfg     *DescConfig
	density map[string]float64
}

func (b *descBuilder) material(name string) (Material, error) {
	if d, ok := b.density[name]; ok {
		return Material{Name: name, Density: d}, nil
	}
	return Material{}, fmt.Errorf(
		"unknown material '%s' (add a [Material \"%s\"] section)", name, name,
	)
}

func (b *descBuilder) world() (*Node, error) {
	wc := &b.cfg.World
	mat, err := b.material(wc.Material)
	if err != nil {
		return nil, fmt.Errorf("[World]: %v", err)
	}
	world, err := NewNode(
		"volWorld",
		Shape{Kind: Box, Dx: wc.DX, Dy: wc.DY, Dz: wc.DZ},
		mat, Identity(),
	)
	if err != nil {
		return nil, err
	}

	for _, name := range sortedNames(b.cfg.Cryostat) {
		cryo, err := b.cryostat(name, b.cfg.Cryostat[name])
		if err != nil {
			return nil, err
		}
		world.AddChild(cryo)
	}
	for _, name := range sortedNames(b.cfg.AuxDet) {
		ad, err := b.auxDet(name, b.cfg.AuxDet[name])
		if err != nil {
			return nil, err
		}
		world.AddChild(ad)
	}
	return world, nil
}

func (b *descBuilder) cryostat(name string, cc *CryostatConfig) (*Node, error) {
	mat, err := b.material(cc.Material)
	if err != nil {
		return nil, fmt.Errorf("Cryostat '%s': %v", name, err)
	}
	cryo, err := NewNode(
		"volCryostat_"+name,
		Shape{Kind: Box, Dx: cc.DX, Dy: cc.DY, Dz: cc.DZ},
		mat, Translate(r3.Vec{X: cc.X, Y: cc.Y, Z: cc.Z}),
	)
	if err != nil {
		return nil, err
	}

	for _, tname := range sortedNames(b.cfg.TPC) {
		tc := b.cfg.TPC[tname]
		if tc.Cryostat != name {
			continue
		}
		tpc, err := b.tpc(tname, tc, mat)
		if err != nil {
			return nil, err
		}
		cryo.AddChild(tpc)
	}
	for _, oname := range sortedNames(b.cfg.OpDet) {
		oc := b.cfg.OpDet[oname]
		if oc.Cryostat != name {
			continue
		}
		od, err := b.opDet(oname, oc)
		if err != nil {
			return nil, err
		}
		cryo.AddChild(od)
	}
	return cryo, nil
}

func (b *descBuilder) tpc(name string, tc *TPCConfig, mat Material) (*Node, error) {
	tpc, err := NewNode(
		"volTPC_"+name,
		Shape{Kind: Box, Dx: tc.DX, Dy: tc.DY, Dz: tc.DZ},
		mat, Translate(r3.Vec{X: tc.X, Y: tc.Y, Z: tc.Z}),
	)
	if err != nil {
		return nil, err
	}

	active, err := NewNode(
		"volTPCActive_"+name,
		Shape{Kind: Box, Dx: tc.ActiveDX, Dy: tc.ActiveDY, Dz: tc.ActiveDZ},
		mat, Identity(),
	)
	if err != nil {
		return nil, err
	}
	tpc.AddChild(active)

	for _, pname := range sortedNames(b.cfg.Plane) {
		pc := b.cfg.Plane[pname]
		if pc.TPC != name {
			continue
		}
		pl, err := b.plane(pname, pc, mat)
		if err != nil {
			return nil, err
		}
		tpc.AddChild(pl)
	}
	return tpc, nil
}

func (b *descBuilder) plane(name string, pc *PlaneConfig, mat Material) (*Node, error) {
	pl, err := NewNode(
		"volTPCPlane_"+name,
		Shape{Kind: Box, Dx: pc.DX, Dy: pc.DY, Dz: pc.DZ},
		mat, Translate(r3.Vec{X: pc.X, Y: pc.Y, Z: pc.Z}),
	)
	if err != nil {
		return nil, err
	}

	wireMat, err := b.material("Copper")
	if err != nil {
		return nil, err
	}
	angle := pc.AngleZ * math.Pi / 180

	if pc.WireTable != "" {
		cols, err := table.ReadTable(pc.WireTable, []int{0, 1, 2}, nil)
		if err != nil {
			return nil, fmt.Errorf(
				"Plane '%s': reading WireTable: %v", name, err,
			)
		}
		ys, zs, halfLs := cols[0], cols[1], cols[2]
		for i := range ys {
			w, err := wireNode(
				fmt.Sprintf("volTPCWire_%s_%d", name, i), wireMat,
				pc.WireRadius, halfLs[i],
				r3.Vec{Y: ys[i], Z: zs[i]}, angle,
			)
			if err != nil {
				return nil, err
			}
			pl.AddChild(w)
		}
		return pl, nil
	}

	// Wires are laid out symmetrically around the plane center, spaced
	// along the in-plane direction perpendicular to the wire axis.
	pdir := r3.Vec{Y: -math.Cos(angle), Z: math.Sin(angle)}
	for i := 0; i < pc.Wires; i++ {
		off := (float64(i) - 0.5*float64(pc.Wires-1)) * pc.Pitch
		w, err := wireNode(
			fmt.Sprintf("volTPCWire_%s_%d", name, i), wireMat,
			pc.WireRadius, pc.WireLength/2,
			pdir.Scale(off), angle,
		)
		if err != nil {
			return nil, err
		}
		pl.AddChild(w)
	}
	return pl, nil
}

// wireNode builds a single wire. Tubes run along their local z axis;
// rotating by -angle about x points the wire along (0, sin a, cos a) in
// the plane frame.
func wireNode(name string, mat Material, radius, halfL float64, shift r3.Vec, angle float64) (*Node, error) {
	return NewNode(
		name,
		Shape{Kind: Tube, R: radius, Dz: halfL},
		mat, NewTransform(shift, -angle, 0, 0),
	)
}

func (b *descBuilder) opDet(name string, oc *OpDetConfig) (*Node, error) {
	mat, err := b.material("Acrylic")
	if err != nil {
		return nil, err
	}
	shape := Shape{Kind: Box, Dx: oc.DX, Dy: oc.DY, Dz: oc.DZ}
	if oc.R > 0 {
		shape = Shape{Kind: Tube, R: oc.R, Dz: oc.DZ}
	}
	return NewNode(
		"volOpDetSensitive_"+name, shape, mat,
		Translate(r3.Vec{X: oc.X, Y: oc.Y, Z: oc.Z}),
	)
}

func (b *descBuilder) auxDet(name string, ac *AuxDetConfig) (*Node, error) {
	mat, err := b.material("Polystyrene")
	if err != nil {
		return nil, err
	}
	ad, err := NewNode(
		"volAuxDet_"+name,
		Shape{Kind: Box, Dx: ac.DX, Dy: ac.DY, Dz: ac.DZ},
		mat, Translate(r3.Vec{X: ac.X, Y: ac.Y, Z: ac.Z}),
	)
	if err != nil {
		return nil, err
	}

	// Sensitive strips split the volume evenly along z.
	n := ac.Sensitive
	dz := ac.DZ / float64(n)
	for i := 0; i < n; i++ {
		z := -ac.DZ + (2*float64(i)+1)*dz
		s, err := NewNode(
			fmt.Sprintf("volAuxDetSensitive_%s_%d", name, i),
			Shape{Kind: Box, Dx: ac.DX, Dy: ac.DY, Dz: dz},
			mat, Translate(r3.Vec{Z: z}),
		)
		if err != nil {
			return nil, err
		}
		ad.AddChild(s)
	}
	return ad, nil
}

func sortedNames[T any](m map[string]*T) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
