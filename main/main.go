// geoinfo loads a detector description, builds the geometry model and
// prints a summary of it. With -db it also exports the element tables
// and the channel map to a SQLite file for offline analysis.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"

	"github.com/sabasehrish/larcorealg/geo"
	"github.com/sabasehrish/larcorealg/scene"

	_ "modernc.org/sqlite"
)

func main() {
	var (
		desc      string
		dbPath    string
		verbosity int
		example   bool
	)
	flag.StringVar(&desc, "desc", "", "Detector description file to load.")
	flag.StringVar(&dbPath, "db", "", "Export the geometry to this SQLite file.")
	flag.IntVar(&verbosity, "v", 1, "Summary verbosity, 0 to 3.")
	flag.BoolVar(&example, "example", false,
		"Print an example description file to stdout and exit.")
	flag.Parse()

	if example {
		fmt.Println(scene.ExampleDetectorFile)
		return
	}
	if desc == "" {
		log.Fatal("Must supply a description file via -desc (see -example).")
	}

	g, err := geo.LoadDescription(desc)
	if err != nil {
		log.Fatal(err.Error())
	}

	fmt.Print(g.Info("  ", verbosity))

	if dbPath != "" {
		if err := exportDB(g, dbPath); err != nil {
			log.Fatal(err.Error())
		}
		fmt.Printf("exported to %s\n", dbPath)
	}
}

const dbSchema = `
CREATE TABLE cryostats (
	cryo INTEGER PRIMARY KEY,
	min_x REAL, min_y REAL, min_z REAL,
	max_x REAL, max_y REAL, max_z REAL,
	n_tpcs INTEGER, n_opdets INTEGER
);
CREATE TABLE tpcs (
	cryo INTEGER, tpc INTEGER,
	min_x REAL, min_y REAL, min_z REAL,
	max_x REAL, max_y REAL, max_z REAL,
	drift_distance REAL, n_planes INTEGER,
	PRIMARY KEY (cryo, tpc)
);
CREATE TABLE planes (
	cryo INTEGER, tpc INTEGER, plane INTEGER,
	view TEXT, orientation TEXT,
	pitch REAL, phi_z REAL, n_wires INTEGER,
	center_x REAL, center_y REAL, center_z REAL,
	PRIMARY KEY (cryo, tpc, plane)
);
CREATE TABLE wires (
	cryo INTEGER, tpc INTEGER, plane INTEGER, wire INTEGER,
	channel INTEGER,
	center_x REAL, center_y REAL, center_z REAL,
	dir_x REAL, dir_y REAL, dir_z REAL,
	half_length REAL,
	PRIMARY KEY (cryo, tpc, plane, wire)
);
CREATE TABLE rops (
	cryo INTEGER, tpcset INTEGER, rop INTEGER,
	first_channel INTEGER, signal TEXT,
	PRIMARY KEY (cryo, tpcset, rop)
);
`

// exportDB writes every element and the channel map into a fresh
// SQLite database at path. The file must not exist yet.
func exportDB(g *geo.GeometryCore, path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(dbSchema); err != nil {
		return err
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for c := range g.Cryostats() {
		b := c.BoundingBox()
		if _, err := tx.Exec(
			`INSERT INTO cryostats VALUES (?,?,?,?,?,?,?,?,?)`,
			c.ID().Cryostat,
			b.Min().X, b.Min().Y, b.Min().Z,
			b.Max().X, b.Max().Y, b.Max().Z,
			c.NTPC(), c.NOpDets(),
		); err != nil {
			return err
		}
	}
	for t := range g.TPCs() {
		b := t.BoundingBox()
		if _, err := tx.Exec(
			`INSERT INTO tpcs VALUES (?,?,?,?,?,?,?,?,?,?)`,
			t.ID().Cryostat, t.ID().TPC,
			b.Min().X, b.Min().Y, b.Min().Z,
			b.Max().X, b.Max().Y, b.Max().Z,
			t.DriftDistance(), t.Nplanes(),
		); err != nil {
			return err
		}
	}
	for p := range g.Planes() {
		id := p.ID()
		center := p.GetCenter()
		if _, err := tx.Exec(
			`INSERT INTO planes VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			id.Cryostat, id.TPC, id.Plane,
			p.View().String(), p.Orientation().String(),
			p.WirePitch(), p.PhiZ(), p.NWires(),
			center.X, center.Y, center.Z,
		); err != nil {
			return err
		}
		rid := g.WirePlaneToROP(id)
		if _, err := tx.Exec(
			`INSERT INTO rops VALUES (?,?,?,?,?)`,
			rid.Cryostat, rid.TPCSet, rid.ROP,
			int64(g.FirstChannelInROP(rid)), g.SignalTypeForROP(rid).String(),
		); err != nil {
			return err
		}
	}
	for w := range g.Wires() {
		id := w.ID()
		ch, ok := g.PlaneWireToChannel(id)
		chVal := int64(-1)
		if ok {
			chVal = int64(ch)
		}
		c, d := w.Center(), w.Direction()
		if _, err := tx.Exec(
			`INSERT INTO wires VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
			id.Cryostat, id.TPC, id.Plane, id.Wire, chVal,
			c.X, c.Y, c.Z, d.X, d.Y, d.Z, w.HalfLength(),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}
