package scene

import (
	"fmt"
	"strings"
)

const ExampleDetectorFile = `[World]
# Name labels the whole detector and is reported by downstream tools.
Name = demo
# Half extents of the world volume, in cm.
DX = 1000
DY = 1000
DZ = 1000
# Material = Air

[Cryostat "A"]
# Center of the cryostat in the world frame:
X = 0
Y = 0
Z = 0
# Half extents:
DX = 200
DY = 150
DZ = 250
# Material = LAr

[TPC "A"]
Cryostat = A
X = 0
Y = 0
Z = 0
DX = 100
DY = 120
DZ = 200
# Optional half extents of the active volume (default: the TPC ones):
# ActiveDX = 95

[Plane "uA"]
TPC = A
# Center of the plane box in the TPC frame. Planes are thin along the
# local x (drift) axis.
X = -90
Y = 0
Z = 0
DY = 115
DZ = 195
# Wire axis angle from the +z axis, in degrees, measured about +x:
AngleZ = 60
# Wire center spacing, in cm:
Pitch = 0.3
# Number of wires to lay out symmetrically around the plane center:
Wires = 100
# WireLength = 180
# Irregular layouts can instead list wires one per row (y z halfLength)
# in a whitespace separated table:
# WireTable = path/to/wires.txt

[Plane "vA"]
TPC = A
X = -89
Y = 0
Z = 0
DY = 115
DZ = 195
AngleZ = -60
Pitch = 0.3
Wires = 100

[Plane "yA"]
TPC = A
X = -88
Y = 0
Z = 0
DY = 115
DZ = 195
AngleZ = 0
Pitch = 0.3
Wires = 100

[OpDet "pmtA0"]
Cryostat = A
X = 150
Y = 0
Z = -100
# A positive R makes a disk (tube along local z); otherwise give DX/DY/DZ.
R = 10
DZ = 2

[AuxDet "crt0"]
# Auxiliary detectors live directly in the world frame.
X = 0
Y = 300
Z = 0
DX = 50
DY = 2
DZ = 50
# Number of sensitive strips the volume is split into along z:
Sensitive = 4`

type WorldConfig struct {
	// Required
	DX, DY, DZ float64

	// Optional
	Name     string
	Material string
	SurfaceY float64
}

func (con *WorldConfig) CheckInit() error {
	if con.DX <= 0 || con.DY <= 0 || con.DZ <= 0 {
		return fmt.Errorf("Need to specify positive DX, DY and DZ for [World].")
	}
	if con.Name == "" {
		con.Name = "detector"
	}
	if con.Material == "" {
		con.Material = "Air"
	}
	return nil
}

type MaterialConfig struct {
	Density float64
}

func (con *MaterialConfig) CheckInit(name string) error {
	if con.Density <= 0 {
		return fmt.Errorf(
			"Need to specify a positive Density for Material '%s'.", name,
		)
	}
	return nil
}

type CryostatConfig struct {
	// Required
	X, Y, Z    float64
	DX, DY, DZ float64

	// Optional
	Material string
}

func (con *CryostatConfig) CheckInit(name string) error {
	if con.DX <= 0 {
		return fmt.Errorf(
			"Need to specify a positive DX for Cryostat '%s'.", name,
		)
	} else if con.DY <= 0 {
		return fmt.Errorf(
			"Need to specify a positive DY for Cryostat '%s'.", name,
		)
	} else if con.DZ <= 0 {
		return fmt.Errorf(
			"Need to specify a positive DZ for Cryostat '%s'.", name,
		)
	}
	if con.Material == "" {
		con.Material = "LAr"
	}
	return nil
}

type TPCConfig struct {
	// Required
	Cryostat   string
	X, Y, Z    float64
	DX, DY, DZ float64

	// Optional
	ActiveDX, ActiveDY, ActiveDZ float64
}

func (con *TPCConfig) CheckInit(name string) error {
	if con.Cryostat == "" {
		return fmt.Errorf("Need to specify a Cryostat for TPC '%s'.", name)
	}
	if con.DX <= 0 || con.DY <= 0 || con.DZ <= 0 {
		return fmt.Errorf(
			"Need to specify positive DX, DY and DZ for TPC '%s'.", name,
		)
	}
	if con.ActiveDX == 0 {
		con.ActiveDX = con.DX
	}
	if con.ActiveDY == 0 {
		con.ActiveDY = con.DY
	}
	if con.ActiveDZ == 0 {
		con.ActiveDZ = con.DZ
	}
	if con.ActiveDX < 0 || con.ActiveDX > con.DX ||
		con.ActiveDY < 0 || con.ActiveDY > con.DY ||
		con.ActiveDZ < 0 || con.ActiveDZ > con.DZ {
		return fmt.Errorf(
			"Active half extents of TPC '%s' must be positive and no "+
				"larger than the TPC ones.", name,
		)
	}
	return nil
}

type PlaneConfig struct {
	// Required
	TPC     string
	X, Y, Z float64
	DY, DZ  float64
	AngleZ  float64

	// Required unless WireTable is given
	Pitch float64
	Wires int

	// Optional
	DX         float64
	WireRadius float64
	WireLength float64
	WireTable  string
}

func (con *PlaneConfig) CheckInit(name string) error {
	if con.TPC == "" {
		return fmt.Errorf("Need to specify a TPC for Plane '%s'.", name)
	}
	if con.DY <= 0 || con.DZ <= 0 {
		return fmt.Errorf(
			"Need to specify positive DY and DZ for Plane '%s'.", name,
		)
	}
	if con.WireTable == "" {
		if con.Wires <= 0 {
			return fmt.Errorf(
				"Need to specify a positive Wires count for Plane '%s' "+
					"(or a WireTable).", name,
			)
		}
		if con.Pitch <= 0 {
			return fmt.Errorf(
				"Need to specify a positive Pitch for Plane '%s' "+
					"(or a WireTable).", name,
			)
		}
	}
	if con.DX == 0 {
		con.DX = 0.1
	} else if con.DX < 0 {
		return fmt.Errorf("Plane '%s' given a negative DX, %g.", name, con.DX)
	}
	if con.WireRadius == 0 {
		con.WireRadius = 0.0075
	} else if con.WireRadius < 0 {
		return fmt.Errorf(
			"Plane '%s' given a negative WireRadius, %g.", name, con.WireRadius,
		)
	}
	if con.WireLength < 0 {
		return fmt.Errorf(
			"Plane '%s' given a negative WireLength, %g.", name, con.WireLength,
		)
	}
	if con.WireLength == 0 {
		d := con.DY
		if con.DZ < d {
			d = con.DZ
		}
		con.WireLength = 2 * d
	}
	return nil
}

type OpDetConfig struct {
	// Required
	Cryostat string
	X, Y, Z  float64

	// A positive R selects a disk shape; otherwise DX/DY/DZ select a box.
	R          float64
	DX, DY, DZ float64
}

func (con *OpDetConfig) CheckInit(name string) error {
	if con.Cryostat == "" {
		return fmt.Errorf("Need to specify a Cryostat for OpDet '%s'.", name)
	}
	if con.R > 0 {
		if con.DZ == 0 {
			con.DZ = 1
		} else if con.DZ < 0 {
			return fmt.Errorf(
				"OpDet '%s' given a negative DZ, %g.", name, con.DZ,
			)
		}
		return nil
	}
	if con.DX <= 0 || con.DY <= 0 || con.DZ <= 0 {
		return fmt.Errorf(
			"Need to specify either a positive R or positive DX, DY and DZ "+
				"for OpDet '%s'.", name,
		)
	}
	return nil
}

type AuxDetConfig struct {
	// Required
	X, Y, Z    float64
	DX, DY, DZ float64

	// Optional
	Sensitive int
}

func (con *AuxDetConfig) CheckInit(name string) error {
	if con.DX <= 0 || con.DY <= 0 || con.DZ <= 0 {
		return fmt.Errorf(
			"Need to specify positive DX, DY and DZ for AuxDet '%s'.", name,
		)
	}
	if con.Sensitive == 0 {
		con.Sensitive = 1
	} else if con.Sensitive < 0 {
		return fmt.Errorf(
			"AuxDet '%s' given a negative Sensitive count, %d.",
			name, con.Sensitive,
		)
	}
	return nil
}

// DescConfig is the top level schema of a detector description file.
type DescConfig struct {
	World    WorldConfig
	Material map[string]*MaterialConfig
	Cryostat map[string]*CryostatConfig
	TPC      map[string]*TPCConfig
	Plane    map[string]*PlaneConfig
	OpDet    map[string]*OpDetConfig
	AuxDet   map[string]*AuxDetConfig
}

// CheckInit validates every section and fills defaults. Cross references
// (a TPC naming its Cryostat and so on) are resolved later, by Build.
func (con *DescConfig) CheckInit() error {
	if err := con.World.CheckInit(); err != nil {
		return err
	}
	for name, m := range con.Material {
		if err := m.CheckInit(name); err != nil {
			return err
		}
	}
	for name, c := range con.Cryostat {
		if err := c.CheckInit(name); err != nil {
			return err
		}
	}
	for name, t := range con.TPC {
		if err := t.CheckInit(name); err != nil {
			return err
		}
	}
	for name, p := range con.Plane {
		if err := p.CheckInit(name); err != nil {
			return err
		}
	}
	for name, o := range con.OpDet {
		if err := o.CheckInit(name); err != nil {
			return err
		}
	}
	for name, a := range con.AuxDet {
		if err := a.CheckInit(name); err != nil {
			return err
		}
	}
	if len(con.Cryostat) == 0 {
		return fmt.Errorf("Need at least one [Cryostat \"name\"] section.")
	}
	return nil
}

// nameList formats section names for error messages.
func nameList(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
