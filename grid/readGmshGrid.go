package grid

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ReadGmshGrid reads an ASCII gmsh MSH v2 file, keeping only the 3-node
// triangle elements. Physical tags, when present, become domain indices.
func ReadGmshGrid(filename string) (g *Grid, err error) {
	var (
		file *os.File
	)
	if file, err = os.Open(filename); err != nil {
		err = fmt.Errorf("unable to open mesh file %s: %w", filename, err)
		return
	}
	defer file.Close()
	var (
		scanner   = bufio.NewScanner(file)
		nodeIDs   = make(map[int]int)
		coords    [][3]float64
		elements  [][3]int
		domains   []int
		inSection string
		remaining int
	)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}
		switch {
		case strings.HasPrefix(line, "$End"):
			inSection = ""
			continue
		case strings.HasPrefix(line, "$"):
			inSection = line[1:]
			remaining = -1
			continue
		}
		switch inSection {
		case "Nodes":
			if remaining == -1 { // section count line
				if remaining, err = strconv.Atoi(line); err != nil {
					err = fmt.Errorf("bad node count in %s: %w", filename, err)
					return
				}
				continue
			}
			fields := strings.Fields(line)
			if len(fields) != 4 {
				err = fmt.Errorf("bad node line in %s: %q", filename, line)
				return
			}
			id, _ := strconv.Atoi(fields[0])
			var xyz [3]float64
			for d := 0; d < 3; d++ {
				if xyz[d], err = strconv.ParseFloat(fields[1+d], 64); err != nil {
					err = fmt.Errorf("bad node coordinate in %s: %q", filename, line)
					return
				}
			}
			nodeIDs[id] = len(coords)
			coords = append(coords, xyz)
		case "Elements":
			if remaining == -1 {
				if remaining, err = strconv.Atoi(line); err != nil {
					err = fmt.Errorf("bad element count in %s: %w", filename, err)
					return
				}
				continue
			}
			fields := strings.Fields(line)
			if len(fields) < 3 {
				err = fmt.Errorf("bad element line in %s: %q", filename, line)
				return
			}
			elType, _ := strconv.Atoi(fields[1])
			if elType != 2 { // keep 3-node triangles only
				continue
			}
			nTags, _ := strconv.Atoi(fields[2])
			if len(fields) != 3+nTags+3 {
				err = fmt.Errorf("malformed triangle in %s: %q", filename, line)
				return
			}
			var tri [3]int
			for i := 0; i < 3; i++ {
				id, _ := strconv.Atoi(fields[3+nTags+i])
				local, ok := nodeIDs[id]
				if !ok {
					err = fmt.Errorf("element references unknown node %d in %s", id, filename)
					return
				}
				tri[i] = local
			}
			domain := 0
			if nTags > 0 {
				domain, _ = strconv.Atoi(fields[3])
			}
			elements = append(elements, tri)
			domains = append(domains, domain)
		}
	}
	if err = scanner.Err(); err != nil {
		err = fmt.Errorf("reading %s: %w", filename, err)
		return
	}
	if len(elements) == 0 {
		err = fmt.Errorf("no triangle elements found in %s", filename)
		return
	}
	if g, err = NewGrid(packVertices(coords), elements); err != nil {
		return
	}
	copy(g.DomainIndices, domains)
	return
}
