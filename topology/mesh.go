package topology

import "github.com/sarchlab/nocsim/noc/routers"

// buildMesh constructs a rows x cols x depth mesh with one NI per router.
// Router i sits at (i mod cols, (i/cols) mod rows, i/(cols*rows)), which is
// the coordinate scheme XY routing assumes.
func (t *Topology) buildMesh() {
	cfg := t.net.Config()
	numRouters := cfg.Rows * cfg.Cols * cfg.Depth

	for i := 0; i < numRouters; i++ {
		x := i % cfg.Cols
		y := (i / cfg.Cols) % cfg.Rows
		z := i / (cfg.Cols * cfg.Rows)

		t.addRouter(i, x, y, z)
		t.addNI(i, numRouters)
	}

	for i := 0; i < numRouters; i++ {
		t.connectNIToRouter(t.nis[i], t.routers[i])
	}

	layer := cfg.Rows * cfg.Cols
	for i := 0; i < numRouters; i++ {
		x := i % cfg.Cols
		y := (i / cfg.Cols) % cfg.Rows
		z := i / layer

		if x < cfg.Cols-1 {
			east := i + 1
			t.connectRouters(t.routers[i], t.routers[east], 1, 1,
				routers.East, routers.West)
			t.connectRouters(t.routers[east], t.routers[i], 1, 1,
				routers.West, routers.East)
		}

		if y < cfg.Rows-1 {
			south := i + cfg.Cols
			t.connectRouters(t.routers[i], t.routers[south], 1, 1,
				routers.South, routers.North)
			t.connectRouters(t.routers[south], t.routers[i], 1, 1,
				routers.North, routers.South)
		}

		if z < cfg.Depth-1 {
			above := i + layer
			t.connectRouters(t.routers[i], t.routers[above], 1, 1,
				routers.Up, routers.Down)
			t.connectRouters(t.routers[above], t.routers[i], 1, 1,
				routers.Down, routers.Up)
		}
	}
}
