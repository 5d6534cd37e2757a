package topology

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/nocsim/noc/endpoint"
	"github.com/sarchlab/nocsim/noc/routers"
	"github.com/sarchlab/nocsim/sim"
)

type parseSection int

const (
	sectionHeader parseSection = iota
	sectionExtLinks
	sectionIntLinks
	sectionRoutingTables
)

// buildFromFile parses a .conf topology file. Sections are introduced by
// the keywords NumRouters, NumNIs, ExtLinks, IntLinks, and RoutingTables;
// lines starting with # and blank lines are ignored.
func (t *Topology) buildFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open topology file: %w", err)
	}
	defer file.Close()

	niByID := make(map[int]*endpoint.NetworkInterface)
	section := sectionHeader

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "NumRouters":
			count, err := strconv.Atoi(fields[1])
			if err != nil {
				return fmt.Errorf("line %d: bad router count", lineNo)
			}
			if err := t.parseRouters(scanner, &lineNo, count); err != nil {
				return err
			}
		case "NumNIs":
			count, err := strconv.Atoi(fields[1])
			if err != nil {
				return fmt.Errorf("line %d: bad NI count", lineNo)
			}
			if err := t.parseNIs(scanner, &lineNo, count, niByID); err != nil {
				return err
			}
		case "ExtLinks":
			section = sectionExtLinks
		case "IntLinks":
			section = sectionIntLinks
		case "RoutingTables":
			section = sectionRoutingTables
		default:
			if err := t.parseDataLine(section, fields, lineNo,
				niByID); err != nil {
				return err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("cannot read topology file: %w", err)
	}

	return nil
}

func (t *Topology) parseRouters(
	scanner *bufio.Scanner, lineNo *int, count int,
) error {
	for i := 0; i < count; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("topology file truncated in router list")
		}
		*lineNo++

		var id, x, y, z int
		if _, err := fmt.Sscan(scanner.Text(), &id, &x, &y, &z); err != nil {
			return fmt.Errorf("line %d: bad router record: %w", *lineNo, err)
		}

		t.addRouter(id, x, y, z)
	}

	return nil
}

func (t *Topology) parseNIs(
	scanner *bufio.Scanner,
	lineNo *int,
	count int,
	niByID map[int]*endpoint.NetworkInterface,
) error {
	for i := 0; i < count; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("topology file truncated in NI list")
		}
		*lineNo++

		var id, x, y, z int
		if _, err := fmt.Sscan(scanner.Text(), &id, &x, &y, &z); err != nil {
			return fmt.Errorf("line %d: bad NI record: %w", *lineNo, err)
		}

		niByID[id] = t.addNI(id, count)
	}

	return nil
}

func (t *Topology) parseDataLine(
	section parseSection,
	fields []string,
	lineNo int,
	niByID map[int]*endpoint.NetworkInterface,
) error {
	switch section {
	case sectionExtLinks:
		var niID, routerID int
		if _, err := fmt.Sscan(strings.Join(fields, " "),
			&niID, &routerID); err != nil {
			return fmt.Errorf("line %d: bad external link: %w", lineNo, err)
		}

		ni, ok := niByID[niID]
		if !ok {
			return fmt.Errorf("line %d: unknown NI %d", lineNo, niID)
		}
		r, ok := t.routerByID[routerID]
		if !ok {
			return fmt.Errorf("line %d: unknown router %d", lineNo, routerID)
		}

		t.connectNIToRouter(ni, r)

	case sectionIntLinks:
		if len(fields) < 6 {
			return fmt.Errorf("line %d: bad internal link", lineNo)
		}

		var srcID, dstID, latency, weight int
		if _, err := fmt.Sscan(strings.Join(fields[:4], " "),
			&srcID, &dstID, &latency, &weight); err != nil {
			return fmt.Errorf("line %d: bad internal link: %w", lineNo, err)
		}

		src, ok := t.routerByID[srcID]
		if !ok {
			return fmt.Errorf("line %d: unknown router %d", lineNo, srcID)
		}
		dst, ok := t.routerByID[dstID]
		if !ok {
			return fmt.Errorf("line %d: unknown router %d", lineNo, dstID)
		}
		if latency < 1 {
			return fmt.Errorf("line %d: link latency must be positive",
				lineNo)
		}

		t.connectRouters(src, dst, sim.Cycle(latency), weight,
			routers.DirectionByName(fields[4]),
			routers.DirectionByName(fields[5]))

	case sectionRoutingTables:
		var routerID, destNI, port int
		if _, err := fmt.Sscan(strings.Join(fields, " "),
			&routerID, &destNI, &port); err != nil {
			return fmt.Errorf("line %d: bad routing entry: %w", lineNo, err)
		}

		r, ok := t.routerByID[routerID]
		if !ok {
			return fmt.Errorf("line %d: routing table references unknown "+
				"router %d", lineNo, routerID)
		}

		r.AddRouteForPort(port, destNI)

	default:
		return fmt.Errorf("line %d: data before a section keyword", lineNo)
	}

	return nil
}
